// Package executor orchestrates one LinkedIn outreach invocation end to end:
// credential resolution, note personalization, admission control, browser
// authentication and the action itself, reported as an ordered event stream.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"linkreach/internal/bus"
	"linkreach/internal/domain"
)

// Request is one outreach invocation. Keys carries the caller's secrets for
// this invocation only; they are never stored or logged.
type Request struct {
	Prompt   string            `json:"prompt"`
	Language string            `json:"language,omitempty"`
	Options  Options           `json:"options"`
	Keys     map[string]string `json:"-"`
}

// Options tune a single invocation. Personalize defaults to true when nil.
type Options struct {
	Action      string `json:"action,omitempty"`
	Personalize *bool  `json:"personalize,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	MessageText string `json:"message_text,omitempty"`
}

// ProviderBuilder constructs a note backend from per-invocation credentials.
type ProviderBuilder interface {
	Build(ctx context.Context, name, apiKey, model string) (domain.NoteProvider, error)
}

// Config wires an Executor.
type Config struct {
	Driver            domain.Driver
	Providers         ProviderBuilder
	Admission         *Admission
	Bus               *bus.EventBus
	Logger            *slog.Logger
	InvocationTimeout time.Duration
	NoteTimeout       time.Duration
}

// Executor runs outreach invocations. Safe for concurrent use; each call to
// Execute owns its own session and event stream.
type Executor struct {
	driver            domain.Driver
	providers         ProviderBuilder
	admission         *Admission
	bus               *bus.EventBus
	logger            *slog.Logger
	invocationTimeout time.Duration
	noteTimeout       time.Duration
}

func New(cfg Config) *Executor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Bus == nil {
		cfg.Bus = bus.NewEventBus(cfg.Logger)
	}
	if cfg.Admission == nil {
		cfg.Admission = NewAdmission(1, 6)
	}
	if cfg.InvocationTimeout <= 0 {
		cfg.InvocationTimeout = 90 * time.Second
	}
	if cfg.NoteTimeout <= 0 {
		cfg.NoteTimeout = 30 * time.Second
	}
	return &Executor{
		driver:            cfg.Driver,
		providers:         cfg.Providers,
		admission:         cfg.Admission,
		bus:               cfg.Bus,
		logger:            cfg.Logger,
		invocationTimeout: cfg.InvocationTimeout,
		noteTimeout:       cfg.NoteTimeout,
	}
}

// Execute runs one invocation and returns its event stream: zero or more
// status events, then exactly one result or error event, then the channel is
// closed. The returned channel is never nil and always terminates, including
// on cancellation.
func (e *Executor) Execute(ctx context.Context, req Request) <-chan domain.Event {
	out := make(chan domain.Event, 16)
	go func() {
		defer close(out)
		ctx, cancel := context.WithTimeout(ctx, e.invocationTimeout)
		defer cancel()
		e.run(ctx, req, out)
	}()
	return out
}

func (e *Executor) run(ctx context.Context, req Request, out chan<- domain.Event) {
	start := time.Now()
	failed := false
	emit := func(ev domain.Event) {
		// Terminal events are sent unconditionally: the buffered channel always
		// has headroom and the contract guarantees exactly one result or error
		// per invocation, even when the deadline has already expired.
		if ev.Kind != domain.EventStatus {
			failed = ev.Kind == domain.EventError
			out <- ev
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
		}
	}

	// Phase 1: local validation, no network activity yet.
	cred, err := domain.ResolveCredential(req.Keys)
	if err != nil {
		emit(domain.ErrorEvent("LinkedIn authentication missing. Provide either:\n" +
			"1. LINKEDIN_SESSION_COOKIE (recommended - no security checkpoints)\n" +
			"2. LINKEDIN_EMAIL + LINKEDIN_PASSWORD (may trigger security verification)"))
		return
	}

	profileURL := extractProfileURL(req.Prompt)
	if profileURL == "" {
		emit(domain.ErrorEvent("No LinkedIn profile URL found in prompt. Example: https://linkedin.com/in/username"))
		return
	}

	action := domain.ActionKind(req.Options.Action)
	if action == "" {
		action = domain.ActionConnect
	}
	switch action {
	case domain.ActionConnect:
	case domain.ActionMessage:
		if req.Options.MessageText == "" {
			emit(domain.ErrorEvent("Message text required for 'message' action (provide in options.message_text)"))
			return
		}
	default:
		emit(domain.ErrorEvent(fmt.Sprintf("Unknown action: %s. Use 'connect' or 'message'", action)))
		return
	}

	emit(domain.StatusEvent("Found LinkedIn profile: " + profileURL))
	if cred.Method == domain.MethodPassword {
		emit(domain.StatusEvent("Using password auth - may encounter security checkpoint. Consider using session cookie instead."))
	}

	fullName := req.Options.FullName
	if fullName == "" {
		fullName = extractProspectName(req.Prompt)
	}

	e.bus.Emit(bus.Event{Type: bus.EventInvocationStarted, Source: "executor", Payload: map[string]any{
		"action": string(action),
		"method": string(cred.Method),
	}})
	defer func() {
		e.bus.Emit(bus.Event{Type: bus.EventInvocationFinished, Source: "executor", Payload: map[string]any{
			"duration_seconds": time.Since(start).Seconds(),
			"error":            failed,
		}})
	}()

	// Phase 2: personalization, before any browser work. Failures degrade to
	// fallback text and never abort the invocation.
	note, messageText := "", req.Options.MessageText
	personalize := req.Options.Personalize == nil || *req.Options.Personalize
	if personalize {
		switch action {
		case domain.ActionConnect:
			emit(domain.StatusEvent("Generating personalized connection note..."))
		case domain.ActionMessage:
			emit(domain.StatusEvent("Personalizing message with AI..."))
		}
		text, err := e.personalize(ctx, req, domain.NoteRequest{
			FullName:    fullName,
			Title:       req.Options.Title,
			Company:     req.Options.Company,
			ProfileURL:  profileURL,
			BaseMessage: messageText,
			Language:    req.Language,
		})
		switch {
		case err != nil:
			e.bus.Emit(bus.Event{Type: bus.EventProviderDegraded, Source: "executor", Payload: map[string]any{
				"reason": err.Error(),
			}})
			if action == domain.ActionConnect {
				emit(domain.StatusEvent("Personalization unavailable, continuing without a note (" + degradeReason(err) + ")"))
			} else {
				emit(domain.StatusEvent("Personalization unavailable, using your original message (" + degradeReason(err) + ")"))
			}
		case action == domain.ActionConnect:
			note = domain.TruncateNote(text)
			emit(domain.StatusEvent(fmt.Sprintf("Generated note: %q", preview(note, 50))))
		default:
			messageText = text
		}
	}

	// Phase 3: browser work under admission control.
	if err := e.admission.Acquire(ctx); err != nil {
		emit(domain.ErrorEvent(e.timeoutMessage(ctx, err)))
		return
	}
	defer e.admission.Release()

	session, err := e.driver.NewSession(ctx)
	if err != nil {
		emit(domain.ErrorEvent("LinkedIn agent error: " + err.Error()))
		return
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			e.logger.Warn("session close failed", "error", cerr)
		}
	}()

	if err := session.Authenticate(ctx, cred); err != nil {
		e.bus.Emit(bus.Event{Type: bus.EventAuthFailed, Source: "executor", Payload: map[string]any{
			"method": string(cred.Method),
		}})
		emit(domain.ErrorEvent(e.authErrorMessage(ctx, err)))
		return
	}

	var outcome domain.ActionOutcome
	switch action {
	case domain.ActionConnect:
		emit(domain.StatusEvent("Sending LinkedIn connection request..."))
		outcome, err = session.Connect(ctx, profileURL, note)
	case domain.ActionMessage:
		emit(domain.StatusEvent("Sending LinkedIn message..."))
		outcome, err = session.Message(ctx, profileURL, messageText)
	}
	if err != nil {
		if action == domain.ActionConnect {
			emit(domain.ErrorEvent(e.timeoutOr(ctx, "Failed to send connection: "+err.Error())))
		} else {
			emit(domain.ErrorEvent(e.timeoutOr(ctx, "Failed to send message: "+err.Error())))
		}
		return
	}

	e.bus.Emit(bus.Event{Type: bus.EventActionCompleted, Source: "executor", Payload: map[string]any{
		"action": string(action),
		"status": string(outcome.Status),
	}})
	emit(domain.ResultEvent(buildResult(action, profileURL, fullName, note, messageText, outcome)))
}

// personalize builds the requested backend and generates the note under the
// note deadline. Every failure path returns an error for the caller to degrade
// on; nothing here is fatal to the invocation.
func (e *Executor) personalize(ctx context.Context, req Request, nr domain.NoteRequest) (string, error) {
	apiKey := req.Keys[domain.KeyLLMAPIKey]
	if apiKey == "" {
		return "", errors.New("LLM_API_KEY not provided")
	}
	p, err := e.providers.Build(ctx, req.Keys[domain.KeyLLMProvider], apiKey, req.Keys[domain.KeyLLMModel])
	if err != nil {
		return "", err
	}
	nctx, cancel := context.WithTimeout(ctx, e.noteTimeout)
	defer cancel()
	start := time.Now()
	text, err := p.GenerateNote(nctx, nr)
	e.bus.Emit(bus.Event{Type: bus.EventProviderRequested, Source: "executor", Payload: map[string]any{
		"provider":         p.Name(),
		"duration_seconds": time.Since(start).Seconds(),
		"error":            err != nil,
	}})
	if err != nil {
		e.logger.Warn("note generation failed", "provider", p.Name(), "error", err)
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (e *Executor) authErrorMessage(ctx context.Context, err error) string {
	var ae *domain.AuthError
	if !errors.As(err, &ae) {
		return e.timeoutOr(ctx, "LinkedIn agent error: "+err.Error())
	}
	switch ae.Failure {
	case domain.AuthExpiredCookie:
		return "LinkedIn session cookie expired or invalid. Provide a fresh LINKEDIN_SESSION_COOKIE and try again."
	case domain.AuthCheckpoint:
		return "LinkedIn security checkpoint detected. Please use session cookie authentication instead."
	case domain.AuthInvalidPassword:
		return "LinkedIn rejected the email or password. Check LINKEDIN_EMAIL and LINKEDIN_PASSWORD."
	default:
		return "LinkedIn authentication failed: " + ae.Detail
	}
}

// timeoutOr swaps a generic failure message for a timeout classification when
// the invocation deadline is what actually killed the work.
func (e *Executor) timeoutOr(ctx context.Context, msg string) string {
	if ctx.Err() != nil {
		return e.timeoutMessage(ctx, ctx.Err())
	}
	return msg
}

func (e *Executor) timeoutMessage(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("LinkedIn agent timed out after %s", e.invocationTimeout)
	}
	return "LinkedIn agent canceled: " + err.Error()
}

func buildResult(action domain.ActionKind, profileURL, fullName, note, messageText string, outcome domain.ActionOutcome) domain.Result {
	target := fullName
	if target == "" {
		target = profileURL
	}
	r := domain.Result{
		Action:     action,
		ProfileURL: profileURL,
	}
	switch outcome.Status {
	case domain.StatusSent:
		r.Success = true
		if action == domain.ActionConnect {
			r.PersonalizedNote = note
			r.Message = "Connection request sent to " + target
		} else {
			r.PersonalizedNote = messageText
			r.Message = "Message sent to " + target
		}
	case domain.StatusAlreadyConnected:
		r.Message = "Already connected with " + target
	default:
		r.Message = outcome.Detail
		if r.Message == "" {
			r.Message = string(outcome.Status)
		}
	}
	return r
}

// degradeReason keeps the informational status short and free of raw wrapped
// error chains.
func degradeReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrProviderRateLimited):
		return "provider rate limited"
	case errors.Is(err, domain.ErrProviderAuth):
		return "provider rejected the API key"
	case errors.Is(err, context.DeadlineExceeded):
		return "provider timed out"
	default:
		return err.Error()
	}
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
