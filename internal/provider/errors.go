package provider

import (
	"fmt"
	"net/http"

	"linkreach/internal/domain"
)

// classifyStatus maps a backend HTTP status to the provider failure taxonomy.
// 401/403 and 429 are wrapped so the orchestrator can distinguish a bad key
// from throttling; everything else is a plain backend error.
func classifyStatus(backend string, status int, body string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%s: invalid API key: %w", backend, domain.ErrProviderAuth)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", backend, domain.ErrProviderRateLimited)
	default:
		return fmt.Errorf("%s returned %d: %s", backend, status, truncateBody(body))
	}
}

func truncateBody(body string) string {
	if len(body) > 200 {
		return body[:200]
	}
	return body
}
