package linkedin

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"linkreach/internal/domain"
)

// Authenticate drives the login state machine. Terminal states are
// authenticated or a classified *domain.AuthError; no retries here — an
// expired cookie or checkpoint needs the user's intervention.
func (s *Session) Authenticate(ctx context.Context, cred domain.Credential) error {
	switch cred.Method {
	case domain.MethodCookie:
		return s.authenticateCookie(ctx, cred.SessionCookie)
	case domain.MethodPassword:
		return s.authenticatePassword(ctx, cred.Email, cred.Password)
	default:
		return &domain.AuthError{Failure: domain.AuthUnknown, Detail: fmt.Sprintf("unsupported credential method %q", cred.Method)}
	}
}

// authenticateCookie injects the li_at session cookie and verifies it by
// landing on the feed. Being bounced to login or a checkpoint means the
// cookie no longer works.
func (s *Session) authenticateCookie(ctx context.Context, cookie string) error {
	var landedURL string
	err := s.run(ctx, s.driver.navigateTimeout,
		chromedp.ActionFunc(func(c context.Context) error {
			return network.SetCookie("li_at", cookie).
				WithDomain(".linkedin.com").
				WithPath("/").
				WithSecure(true).
				WithHTTPOnly(true).
				Do(c)
		}),
		chromedp.Navigate(feedURL),
		chromedp.WaitReady("body"),
		chromedp.Location(&landedURL),
	)
	if err != nil {
		return authRunError(ctx, err)
	}

	if isLoginURL(landedURL) || isCheckpointURL(landedURL) {
		return &domain.AuthError{
			Failure: domain.AuthExpiredCookie,
			Detail:  "session cookie expired or invalid",
		}
	}
	s.logger.Info("authenticated via session cookie")
	return nil
}

// authenticatePassword submits the login form. Checkpoint pages are the
// dominant failure mode here and are classified apart from a wrong password.
func (s *Session) authenticatePassword(ctx context.Context, email, password string) error {
	var landedURL string
	var badCreds bool
	err := s.run(ctx, s.driver.navigateTimeout,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(`input[name="session_key"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="session_key"]`, email, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="session_password"]`, password, chromedp.ByQuery),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
		chromedp.Location(&landedURL),
		chromedp.Evaluate(`document.querySelector('#error-for-password, .form__label--error') !== null`, &badCreds),
	)
	if err != nil {
		return authRunError(ctx, err)
	}

	switch {
	case isCheckpointURL(landedURL):
		return &domain.AuthError{
			Failure: domain.AuthCheckpoint,
			Detail:  "security checkpoint detected",
		}
	case badCreds || isLoginURL(landedURL):
		return &domain.AuthError{
			Failure: domain.AuthInvalidPassword,
			Detail:  "login rejected, check email and password",
		}
	}
	s.logger.Info("authenticated via password login")
	return nil
}

// authRunError keeps caller cancellation visible while classifying everything
// else as an unknown auth failure.
func authRunError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &domain.AuthError{Failure: domain.AuthUnknown, Detail: err.Error()}
}
