package provider

import (
	"fmt"
	"strings"

	"linkreach/internal/domain"
)

const systemPromptGenerate = `You are a LinkedIn outreach expert. Write a personalized connection request note.
Requirements:
- Professional and warm tone
- Reference their role/company
- Mention a genuine reason to connect
- Max 300 characters (LinkedIn limit)
- NO greetings like "Hi [Name]" - just the core message
- NO placeholders like [Your Name] or [Your Company]`

const systemPromptPersonalize = `You are a LinkedIn outreach expert. Personalize the following message for the prospect.
Keep it professional, warm, and under 300 characters (LinkedIn connection note limit).
DO NOT add greetings like "Hi [Name]" - just the core message.`

// buildPrompts renders the system and user prompts for a note request.
// With a base message the backend personalizes it; otherwise it writes the
// note from scratch.
func buildPrompts(req domain.NoteRequest) (system, user string) {
	name := req.FullName
	title := orUnknown(req.Title)
	company := orUnknown(req.Company)

	if req.BaseMessage != "" {
		user = fmt.Sprintf(`Prospect: %s
Title: %s
Company: %s

Base message: %s

Personalize this message for the prospect above. Keep under 300 characters.`,
			orDefault(name, "Unknown"), title, company, req.BaseMessage)
		system = systemPromptPersonalize
	} else {
		user = fmt.Sprintf(`Write a personalized LinkedIn connection note for:

Name: %s
Title: %s
Company: %s

Generate a warm, professional note (max 300 chars).`,
			orDefault(name, "this person"), title, company)
		system = systemPromptGenerate
	}

	if req.Language != "" && !strings.EqualFold(req.Language, "en") {
		user += fmt.Sprintf("\n\nWrite the note in language: %s.", req.Language)
	}
	return system, user
}

func orUnknown(s string) string { return orDefault(s, "Unknown") }

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
