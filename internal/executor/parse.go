package executor

import "regexp"

var (
	profileURLRe = regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/(?:in|company)/[\w\-]+`)
	prospectRe   = regexp.MustCompile(`(?:to|with|for)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
)

// extractProfileURL pulls the first LinkedIn profile or company URL out of
// free-form prompt text.
func extractProfileURL(text string) string {
	return profileURLRe.FindString(text)
}

// extractProspectName guesses the prospect's name from the prompt, looking for
// capitalized words after "to", "with" or "for". Best effort; an explicit
// full_name option always wins.
func extractProspectName(text string) string {
	m := prospectRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
