package domain

type ActionKind string

const (
	ActionConnect ActionKind = "connect"
	ActionMessage ActionKind = "message"
)

// NoteMaxChars is LinkedIn's connection-note character limit.
const NoteMaxChars = 300

// OutreachRequest describes one resolved outreach action.
type OutreachRequest struct {
	ProfileURL  string
	Action      ActionKind
	Personalize bool
	FullName    string
	Title       string
	Company     string
	MessageText string
}

// ActionStatus classifies the outcome of the action phase. These are expected
// business outcomes, not system errors.
type ActionStatus string

const (
	StatusSent             ActionStatus = "sent"
	StatusAlreadyConnected ActionStatus = "already_connected"
	StatusNotFound         ActionStatus = "not_found"
	StatusUnavailable      ActionStatus = "unavailable"
	StatusTimedOut         ActionStatus = "timed_out"
)

// ActionOutcome is the classified result of one connect/message attempt.
type ActionOutcome struct {
	Status ActionStatus
	Detail string
}

// TruncateNote trims a connection note to the LinkedIn limit. Counts runes so
// a multi-byte character is never cut in half.
func TruncateNote(note string) string {
	runes := []rune(note)
	if len(runes) <= NoteMaxChars {
		return note
	}
	return string(runes[:NoteMaxChars])
}
