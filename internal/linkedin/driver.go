// Package linkedin drives LinkedIn through a headless Chrome instance:
// session lifecycle, the authentication state machine, and the connect/message
// action executors with their outcome classification.
package linkedin

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"linkreach/internal/domain"
)

const (
	feedURL  = "https://www.linkedin.com/feed/"
	loginURL = "https://www.linkedin.com/login"

	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Driver mints one isolated Chrome context per invocation. No user data dir is
// configured on purpose: cookies must not leak between invocations.
type Driver struct {
	headless        bool
	userAgent       string
	navigateTimeout time.Duration
	actionTimeout   time.Duration
	logger          *slog.Logger
}

type DriverConfig struct {
	Headless        bool
	UserAgent       string
	NavigateTimeout time.Duration
	ActionTimeout   time.Duration
	Logger          *slog.Logger
}

func NewDriver(cfg DriverConfig) *Driver {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.NavigateTimeout <= 0 {
		cfg.NavigateTimeout = 30 * time.Second
	}
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Driver{
		headless:        cfg.Headless,
		userAgent:       cfg.UserAgent,
		navigateTimeout: cfg.NavigateTimeout,
		actionTimeout:   cfg.ActionTimeout,
		logger:          cfg.Logger,
	}
}

// NewSession allocates a fresh Chrome context. The caller owns the session
// exclusively and must Close it on every exit path.
func (d *Driver) NewSession(ctx context.Context) (domain.Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.UserAgent(d.userAgent),
		chromedp.WindowSize(1280, 720),
	)
	if d.headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	return &Session{
		driver: d,
		ctx:    taskCtx,
		cancel: func() {
			taskCancel()
			allocCancel()
		},
		logger: d.logger,
	}, nil
}

// Session is one authenticated browser context, exclusively owned by a single
// invocation.
type Session struct {
	driver    *Driver
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	logger    *slog.Logger
}

// Close tears down the Chrome context. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.logger.Debug("browser session released")
	})
	return nil
}

// run executes browser actions under both the session context and the
// caller's deadline.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := mergeContexts(s.ctx, ctx)
	defer cancel()
	if timeout > 0 {
		var tcancel context.CancelFunc
		runCtx, tcancel = context.WithTimeout(runCtx, timeout)
		defer tcancel()
	}
	return chromedp.Run(runCtx, actions...)
}

// mergeContexts derives a context from base that is also cancelled when other
// is. chromedp actions must run on the session's context to reach the
// browser, but the invocation deadline lives on the caller's.
func mergeContexts(base, other context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(base)
	stop := context.AfterFunc(other, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}
