package provider

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"linkreach/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func openaiServer(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestOpenAI_GenerateNote(t *testing.T) {
	srv := openaiServer(http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"Impressed by your work - let's connect."}}]}`)
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "sk-test", APIBase: srv.URL, Logger: testLogger()})
	note, err := p.GenerateNote(context.Background(), domain.NoteRequest{FullName: "Ana", Title: "CTO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note != "Impressed by your work - let's connect." {
		t.Fatalf("unexpected note: %q", note)
	}
}

func TestOpenAI_InvalidKey(t *testing.T) {
	srv := openaiServer(http.StatusUnauthorized, `{"error":"bad key"}`)
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "bad", APIBase: srv.URL, Logger: testLogger()})
	_, err := p.GenerateNote(context.Background(), domain.NoteRequest{})
	if !errors.Is(err, domain.ErrProviderAuth) {
		t.Fatalf("expected ErrProviderAuth, got %v", err)
	}
}

func TestOpenAI_RateLimited(t *testing.T) {
	srv := openaiServer(http.StatusTooManyRequests, `{"error":"slow down"}`)
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "sk-test", APIBase: srv.URL, Logger: testLogger()})
	_, err := p.GenerateNote(context.Background(), domain.NoteRequest{})
	if !errors.Is(err, domain.ErrProviderRateLimited) {
		t.Fatalf("expected ErrProviderRateLimited, got %v", err)
	}
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv := openaiServer(http.StatusOK, `{"choices":[]}`)
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "sk-test", APIBase: srv.URL, Logger: testLogger()})
	if _, err := p.GenerateNote(context.Background(), domain.NoteRequest{}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
