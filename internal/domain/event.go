package domain

type EventKind string

const (
	EventStatus EventKind = "status"
	EventResult EventKind = "result"
	EventError  EventKind = "error"
)

// Event is one unit of an invocation's observable output stream. Every
// invocation produces zero or more status events followed by exactly one
// result or error event, after which the stream is closed.
type Event struct {
	Kind    EventKind `json:"kind"`
	Message string    `json:"message,omitempty"`
	Result  *Result   `json:"result,omitempty"`
}

// Result is the terminal payload of the action phase. Success=false covers
// classified non-fatal outcomes (already connected, target not found, ...).
type Result struct {
	Success          bool       `json:"success"`
	Action           ActionKind `json:"action"`
	ProfileURL       string     `json:"linkedin_url,omitempty"`
	PersonalizedNote string     `json:"personalized_note,omitempty"`
	Message          string     `json:"message"`
}

func StatusEvent(message string) Event {
	return Event{Kind: EventStatus, Message: message}
}

func ErrorEvent(message string) Event {
	return Event{Kind: EventError, Message: message}
}

func ResultEvent(r Result) Event {
	return Event{Kind: EventResult, Message: r.Message, Result: &r}
}
