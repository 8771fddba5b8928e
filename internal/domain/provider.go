package domain

import (
	"context"
	"errors"
)

// Provider failure classes. Backends wrap these so the orchestrator can tell a
// throttled backend from a misconfigured key; both degrade to fallback text.
var (
	ErrProviderRateLimited = errors.New("provider rate limited")
	ErrProviderAuth        = errors.New("provider authentication failed")
)

// NoteRequest carries the prospect context for note generation.
// BaseMessage, when set, switches the backend from writing a note from scratch
// to personalizing the caller's own message.
type NoteRequest struct {
	FullName    string
	Title       string
	Company     string
	ProfileURL  string
	BaseMessage string
	Language    string
}

// NoteProvider generates short outreach copy. Implementations are
// interchangeable and are constructed per invocation with the caller's API
// key; they must not retain credentials. Output is not length-limited — the
// orchestrator truncates connect notes.
type NoteProvider interface {
	Name() string
	GenerateNote(ctx context.Context, req NoteRequest) (string, error)
}
