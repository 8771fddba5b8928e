package domain

import "errors"

// Credential key names as they arrive in the per-invocation key bag.
const (
	KeySessionCookie = "LINKEDIN_SESSION_COOKIE"
	KeyEmail         = "LINKEDIN_EMAIL"
	KeyPassword      = "LINKEDIN_PASSWORD"
	KeyLLMAPIKey     = "LLM_API_KEY"
	KeyLLMProvider   = "LLM_PROVIDER"
	KeyLLMModel      = "LLM_MODEL"
)

type CredentialMethod string

const (
	MethodCookie   CredentialMethod = "cookie"
	MethodPassword CredentialMethod = "password"
)

// ErrMissingCredential is returned when neither credential variant is present.
// This is a local validation error; no network activity has occurred.
var ErrMissingCredential = errors.New("linkedin authentication missing")

// Credential is the resolved authentication input for one invocation.
// Exactly one method is active.
type Credential struct {
	Method        CredentialMethod
	SessionCookie string
	Email         string
	Password      string
}

// ResolveCredential selects one credential variant from the key bag.
// A session cookie takes precedence over email/password: cookie auth reuses an
// existing browser session and avoids LinkedIn's login checkpoints.
func ResolveCredential(keys map[string]string) (Credential, error) {
	if cookie := keys[KeySessionCookie]; cookie != "" {
		return Credential{Method: MethodCookie, SessionCookie: cookie}, nil
	}
	email, password := keys[KeyEmail], keys[KeyPassword]
	if email != "" && password != "" {
		return Credential{Method: MethodPassword, Email: email, Password: password}, nil
	}
	return Credential{}, ErrMissingCredential
}
