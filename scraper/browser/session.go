// Package browser drives a headless Chrome session that loads listing
// pages and hands back their rendered DOM.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"apartment-scraper/scraper/dom"
	"apartment-scraper/utils"
)

var (
	// ErrLoadTimeout is returned by Load when the readiness pattern did not
	// appear within the timeout.
	ErrLoadTimeout = errors.New("browser: timed out waiting for page content")
	// ErrSessionClosed is returned by Load after Close.
	ErrSessionClosed = errors.New("browser: session closed")
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures the browser session.
type Options struct {
	ChromeBin       string
	NavigateTimeout time.Duration
	UserAgent       string
	MaxRetries      int
}

// Session is one headless browser with a single tab that is reused for
// every page. It is started on the first Load and is not safe for
// concurrent page loads.
type Session struct {
	opts   Options
	logger *utils.Logger
	retry  *utils.RetryConfig

	mu          sync.Mutex
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	started     bool
	closed      bool
}

// NewSession creates a session. No browser process is launched until the
// first Load.
func NewSession(opts Options, logger *utils.Logger) *Session {
	if opts.NavigateTimeout <= 0 {
		opts.NavigateTimeout = 60 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Session{
		opts:   opts,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Load navigates to url, waits up to timeout for an element matching ready
// and returns the rendered document.
func (s *Session) Load(ctx context.Context, url string, ready dom.Pattern, timeout time.Duration) (dom.Node, error) {
	tabCtx, err := s.ensureStarted(ctx)
	if err != nil {
		return nil, err
	}

	navCtx, cancelNav := context.WithTimeout(tabCtx, s.opts.NavigateTimeout)
	defer cancelNav()
	stop := context.AfterFunc(ctx, cancelNav)
	defer stop()

	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", url, err)
	}

	waitCtx, cancelWait := context.WithTimeout(navCtx, timeout)
	defer cancelWait()

	if err := chromedp.Run(waitCtx, chromedp.WaitReady(ready.Selector(), chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %s after %v", ErrLoadTimeout, ready.Name, timeout)
		}
		return nil, fmt.Errorf("browser: wait for %s: %w", ready.Name, err)
	}

	var html string
	if err := chromedp.Run(navCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("browser: capture html: %w", err)
	}

	s.logger.Debug("[browser] Loaded %s (%d bytes)", url, len(html))
	return dom.ParseString(html)
}

// Close shuts the browser down. It is safe to call more than once and on
// a session that never started.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if !s.started {
		return nil
	}
	s.cancelTab()
	s.cancelAlloc()
	s.logger.Info("[browser] Session closed")
	return nil
}

func (s *Session) ensureStarted(ctx context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.started {
		return s.tabCtx, nil
	}

	chromeBin := s.opts.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Info("[browser] Using browser binary: %q", chromeBin)

	err := s.retry.Do(ctx, "start-browser", func() error {
		allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocatorOptions(chromeBin, s.opts.UserAgent)...)
		tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

		if err := chromedp.Run(tabCtx); err != nil {
			cancelTab()
			cancelAlloc()
			return err
		}

		s.tabCtx = tabCtx
		s.cancelTab = cancelTab
		s.cancelAlloc = cancelAlloc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("browser: start: %w", err)
	}

	s.started = true
	return s.tabCtx, nil
}

func allocatorOptions(chromeBin, userAgent string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}
	return opts
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
