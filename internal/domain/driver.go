package domain

import (
	"context"
	"fmt"
)

// AuthFailure classifies why authentication ended in a terminal failed state.
type AuthFailure string

const (
	AuthExpiredCookie   AuthFailure = "expired_cookie"
	AuthCheckpoint      AuthFailure = "checkpoint"
	AuthInvalidPassword AuthFailure = "invalid_password"
	AuthUnknown         AuthFailure = "unknown"
)

// AuthError is a terminal authentication failure. No retries are attempted —
// an expired cookie or a checkpoint needs the user's hand, not another login.
type AuthError struct {
	Failure AuthFailure
	Detail  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (%s): %s", e.Failure, e.Detail)
}

// Session is one authenticated browser context. It is exclusively owned by a
// single invocation and must be closed on every exit path; Close is idempotent.
type Session interface {
	// Authenticate drives the login state machine for the given credential.
	// A classified failure is returned as *AuthError.
	Authenticate(ctx context.Context, cred Credential) error

	// Connect sends a connection request to the profile, attaching note when
	// non-empty. The note must already be within the length limit.
	Connect(ctx context.Context, profileURL, note string) (ActionOutcome, error)

	// Message sends a direct message to the profile.
	Message(ctx context.Context, profileURL, text string) (ActionOutcome, error)

	Close() error
}

// Driver mints browser sessions. Each invocation gets its own session;
// sessions are never shared across concurrent invocations.
type Driver interface {
	NewSession(ctx context.Context) (Session, error)
}
