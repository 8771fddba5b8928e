package provider

import (
	"strings"
	"testing"

	"linkreach/internal/domain"
)

func TestBuildPrompts_FromScratch(t *testing.T) {
	system, user := buildPrompts(domain.NoteRequest{
		FullName: "John Smith",
		Title:    "CEO at TechCorp",
		Company:  "TechCorp",
	})
	if !strings.Contains(system, "connection request note") {
		t.Fatalf("unexpected system prompt: %s", system)
	}
	if !strings.Contains(user, "John Smith") || !strings.Contains(user, "TechCorp") {
		t.Fatalf("user prompt missing prospect context: %s", user)
	}
}

func TestBuildPrompts_PersonalizeBaseMessage(t *testing.T) {
	system, user := buildPrompts(domain.NoteRequest{
		FullName:    "Ana",
		BaseMessage: "I enjoyed your talk on Go concurrency.",
	})
	if !strings.Contains(system, "Personalize") {
		t.Fatalf("expected personalize system prompt, got: %s", system)
	}
	if !strings.Contains(user, "Base message: I enjoyed your talk on Go concurrency.") {
		t.Fatalf("user prompt missing base message: %s", user)
	}
}

func TestBuildPrompts_MissingFieldsDefaulted(t *testing.T) {
	_, user := buildPrompts(domain.NoteRequest{})
	if !strings.Contains(user, "this person") {
		t.Fatalf("expected name fallback, got: %s", user)
	}
	if !strings.Contains(user, "Unknown") {
		t.Fatalf("expected Unknown fallbacks, got: %s", user)
	}
}

func TestBuildPrompts_NonEnglishLanguage(t *testing.T) {
	_, user := buildPrompts(domain.NoteRequest{FullName: "Ana", Language: "es"})
	if !strings.Contains(user, "language: es") {
		t.Fatalf("expected language hint, got: %s", user)
	}
}

func TestBuildPrompts_EnglishNoHint(t *testing.T) {
	_, user := buildPrompts(domain.NoteRequest{FullName: "Ana", Language: "en"})
	if strings.Contains(user, "language:") {
		t.Fatalf("did not expect language hint for en: %s", user)
	}
}
