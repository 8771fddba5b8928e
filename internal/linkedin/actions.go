package linkedin

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"linkreach/internal/domain"
)

// Connect sends a connection request, attaching note when non-empty.
// Classification order: profile existence first, then control presence — a
// reachable profile with no Connect control is unavailable, never not_found.
func (s *Session) Connect(ctx context.Context, profileURL, note string) (domain.ActionOutcome, error) {
	outcome, err := s.openProfile(ctx, profileURL)
	if err != nil || outcome.Status != "" {
		return outcome, err
	}

	var hasConnect bool
	if err := s.run(ctx, s.driver.actionTimeout,
		chromedp.Evaluate(buttonExistsJS("Connect"), &hasConnect),
	); err != nil {
		return domain.ActionOutcome{}, fmt.Errorf("inspect profile controls: %w", err)
	}

	if !hasConnect {
		return s.classifyMissingConnect(ctx)
	}

	var clicked bool
	if err := s.run(ctx, s.driver.actionTimeout,
		chromedp.Evaluate(clickButtonJS("Connect"), &clicked),
		chromedp.Sleep(2*time.Second),
	); err != nil || !clicked {
		if err == nil {
			err = fmt.Errorf("connect control disappeared before click")
		}
		return domain.ActionOutcome{}, err
	}

	if note != "" {
		if err := s.attachNote(ctx, note); err != nil {
			return domain.ActionOutcome{}, err
		}
	}

	var sent bool
	if err := s.run(ctx, s.driver.actionTimeout,
		chromedp.Evaluate(clickButtonJS("Send"), &sent),
	); err != nil {
		return domain.ActionOutcome{}, fmt.Errorf("submit connection request: %w", err)
	}
	if !sent {
		return domain.ActionOutcome{Status: domain.StatusUnavailable, Detail: "send control not found in connect dialog"}, nil
	}

	return s.confirmSubmission(ctx, "connection request")
}

// Message sends a direct message to the profile. Messaging requires an
// existing connection; a missing composer control is classified, not an error.
func (s *Session) Message(ctx context.Context, profileURL, text string) (domain.ActionOutcome, error) {
	outcome, err := s.openProfile(ctx, profileURL)
	if err != nil || outcome.Status != "" {
		return outcome, err
	}

	var opened bool
	if err := s.run(ctx, s.driver.actionTimeout,
		chromedp.Evaluate(clickButtonJS("Message"), &opened),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		return domain.ActionOutcome{}, fmt.Errorf("open message composer: %w", err)
	}
	if !opened {
		return domain.ActionOutcome{
			Status: domain.StatusUnavailable,
			Detail: "message control not found, you may not be connected with this person",
		}, nil
	}

	// The composer is a contenteditable div; older surfaces use a textarea.
	err = s.run(ctx, s.driver.actionTimeout,
		chromedp.WaitVisible(`div[contenteditable="true"], textarea[name="message"]`, chromedp.ByQuery),
		chromedp.SendKeys(`div[contenteditable="true"], textarea[name="message"]`, text, chromedp.ByQuery),
		chromedp.Sleep(time.Second),
	)
	if err != nil {
		return domain.ActionOutcome{}, fmt.Errorf("fill message composer: %w", err)
	}

	var sent bool
	if err := s.run(ctx, s.driver.actionTimeout,
		chromedp.Evaluate(clickButtonJS("Send"), &sent),
	); err != nil {
		return domain.ActionOutcome{}, fmt.Errorf("submit message: %w", err)
	}
	if !sent {
		return domain.ActionOutcome{Status: domain.StatusUnavailable, Detail: "send control not found in composer"}, nil
	}

	return s.confirmSubmission(ctx, "message")
}

// openProfile navigates to the target and runs the existence check. A zero
// outcome with nil error means the profile resolved and the action may
// proceed.
func (s *Session) openProfile(ctx context.Context, profileURL string) (domain.ActionOutcome, error) {
	var landedURL string
	var unavailable bool
	err := s.run(ctx, s.driver.navigateTimeout,
		chromedp.Navigate(profileURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(time.Second),
		chromedp.Location(&landedURL),
		chromedp.Evaluate(unavailableProfileJS, &unavailable),
	)
	if err != nil {
		return domain.ActionOutcome{}, fmt.Errorf("open profile: %w", err)
	}
	if unavailable || isUnavailableURL(landedURL) {
		return domain.ActionOutcome{Status: domain.StatusNotFound, Detail: "profile page did not resolve"}, nil
	}
	return domain.ActionOutcome{}, nil
}

// classifyMissingConnect decides what a profile without a Connect control
// means: a Message control without Connect is an existing connection, a
// Pending control is a request already in flight, anything else is a private
// or restricted profile.
func (s *Session) classifyMissingConnect(ctx context.Context) (domain.ActionOutcome, error) {
	var hasPending, hasMessage bool
	if err := s.run(ctx, s.driver.actionTimeout,
		chromedp.Evaluate(buttonExistsJS("Pending"), &hasPending),
		chromedp.Evaluate(buttonExistsJS("Message"), &hasMessage),
	); err != nil {
		return domain.ActionOutcome{}, fmt.Errorf("classify profile controls: %w", err)
	}
	switch {
	case hasPending:
		return domain.ActionOutcome{Status: domain.StatusUnavailable, Detail: "connection request already pending"}, nil
	case hasMessage:
		return domain.ActionOutcome{Status: domain.StatusAlreadyConnected, Detail: "already connected with this person"}, nil
	default:
		return domain.ActionOutcome{Status: domain.StatusUnavailable, Detail: "connect action not available on this profile"}, nil
	}
}

// attachNote opens the note dialog and fills the textarea. The note is
// expected to be within the length limit already.
func (s *Session) attachNote(ctx context.Context, note string) error {
	var opened bool
	err := s.run(ctx, s.driver.actionTimeout,
		chromedp.Evaluate(clickButtonJS("Add a note"), &opened),
	)
	if err != nil {
		return fmt.Errorf("open note dialog: %w", err)
	}
	if !opened {
		// Some profiles skip the note dialog entirely; send without one.
		s.logger.Warn("note dialog not offered, sending without note")
		return nil
	}
	err = s.run(ctx, s.driver.actionTimeout,
		chromedp.WaitVisible(`textarea[name="message"]`, chromedp.ByQuery),
		chromedp.SendKeys(`textarea[name="message"]`, note, chromedp.ByQuery),
		chromedp.Sleep(time.Second),
	)
	if err != nil {
		return fmt.Errorf("fill note: %w", err)
	}
	return nil
}

// confirmSubmission polls for the positive UI signal (the dialog closing)
// until the action deadline. No confirmation in time is timed_out, not an
// error: the click happened, LinkedIn just never acknowledged it.
func (s *Session) confirmSubmission(ctx context.Context, what string) (domain.ActionOutcome, error) {
	deadline := time.Now().Add(s.driver.actionTimeout)
	for time.Now().Before(deadline) {
		var gone bool
		if err := s.run(ctx, s.driver.actionTimeout, chromedp.Evaluate(dialogGoneJS, &gone)); err != nil {
			return domain.ActionOutcome{}, fmt.Errorf("confirm %s: %w", what, err)
		}
		if gone {
			s.logger.Info("submission confirmed", "action", what)
			return domain.ActionOutcome{Status: domain.StatusSent}, nil
		}
		select {
		case <-ctx.Done():
			return domain.ActionOutcome{}, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return domain.ActionOutcome{
		Status: domain.StatusTimedOut,
		Detail: fmt.Sprintf("no confirmation for %s within the action deadline", what),
	}, nil
}
