package uicheck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"
)

// fileInputSelector is the upload input of the application. The element is
// visually hidden, so uploads reveal it first.
const fileInputSelector = `input[type="file"]`

// Session drives one browser instance against the application under test.
//
// A Session owns a dedicated headless browser started eagerly at creation
// time. Call Close when the Session is no longer needed to release browser
// resources.
type Session struct {
	cfg           sessionConfig
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	console       *ConsoleLog

	mu     sync.Mutex
	closed bool
}

// NewSession creates a Session with the given options and starts the
// browser in the background.
func NewSession(opts ...Option) (*Session, error) {
	cfg := defaultSessionConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := launcher.NewBrowser().Get()
		if err != nil {
			return nil, fmt.Errorf("uicheck: downloading browser: %w", err)
		}
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("no-first-run", true),
		chromedp.WindowSize(cfg.width, cfg.height),
	)
	if cfg.headless != "" {
		allocOpts = append(allocOpts, chromedp.Flag("headless", cfg.headless))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	console := &ConsoleLog{}
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			console.recordConsoleEvent(e)
		case *runtime.EventExceptionThrown:
			console.recordException(e)
		}
	})

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("uicheck: starting browser: %w", err)
	}

	return &Session{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		console:       console,
	}, nil
}

// Close releases all resources held by the Session, including the browser
// process. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.browserCancel()
	s.allocCancel()
	return nil
}

// Console returns the session's captured console output.
func (s *Session) Console() *ConsoleLog {
	return s.console
}

// run executes actions on the session tab with the given timeout.
// A zero timeout uses the session's navigation timeout.
func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	if err := s.checkClosed(); err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = s.cfg.navTimeout
	}

	ctx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()

	return chromedp.Run(ctx, actions...)
}

func (s *Session) checkClosed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Navigate opens url and waits for the document body to be ready.
func (s *Session) Navigate(url string) error {
	if err := s.run(0,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("uicheck: navigating to %s: %w", url, err)
	}
	return nil
}

// Settle blocks for a fixed duration. The application under test gives no
// deterministic signal for PDF rendering or extraction progress, so some
// steps still rely on fixed settle times.
func (s *Session) Settle(d time.Duration) error {
	return s.run(d+time.Second, chromedp.Sleep(d))
}

// UploadPDF reveals the hidden file input and populates it with the file
// at path.
func (s *Session) UploadPDF(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("uicheck: upload source: %w", err)
	}

	var ignored interface{}
	if err := s.run(0,
		chromedp.WaitReady(fileInputSelector, chromedp.ByQuery),
		chromedp.Evaluate(
			fmt.Sprintf(`document.querySelector(%q).style.display = 'block'`, fileInputSelector),
			&ignored,
		),
		chromedp.SetUploadFiles(fileInputSelector, []string{path}, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("uicheck: uploading %s: %w", path, err)
	}
	return nil
}

// ClickButton clicks the first button whose visible text contains label.
func (s *Session) ClickButton(label string) error {
	if err := s.run(0, chromedp.Click(buttonXPath(label), chromedp.BySearch)); err != nil {
		return fmt.Errorf("uicheck: clicking button %q: %w", label, err)
	}
	return nil
}

// ClickText clicks the first element with a direct text node containing
// text, e.g. a label or toggle caption.
func (s *Session) ClickText(text string) error {
	if err := s.run(0, chromedp.Click(textXPath(text), chromedp.BySearch)); err != nil {
		return fmt.Errorf("uicheck: clicking text %q: %w", text, err)
	}
	return nil
}

// ClickSelector clicks the first element matching the CSS selector.
func (s *Session) ClickSelector(sel string) error {
	if err := s.run(0, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("uicheck: clicking %q: %w", sel, err)
	}
	return nil
}

// WaitButton waits up to timeout for a button whose visible text contains
// label to become visible. Expiry is reported as ErrNotFound so callers
// can fail the step rather than silently continuing.
func (s *Session) WaitButton(label string, timeout time.Duration) error {
	err := s.run(timeout, chromedp.WaitVisible(buttonXPath(label), chromedp.BySearch))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("uicheck: button %q: %w", label, ErrNotFound)
		}
		return fmt.Errorf("uicheck: waiting for button %q: %w", label, err)
	}
	return nil
}

// Title returns the page title.
func (s *Session) Title() (string, error) {
	var title string
	if err := s.run(0, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("uicheck: reading title: %w", err)
	}
	return title, nil
}

// OuterHTML captures the full document markup for offline inspection.
func (s *Session) OuterHTML() (string, error) {
	var html string
	if err := s.run(0, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("uicheck: capturing document: %w", err)
	}
	return html, nil
}

// Count returns the number of DOM elements matching the CSS selector,
// visible or not.
func (s *Session) Count(sel string) (int, error) {
	var count int
	err := s.run(0, chromedp.Evaluate(
		fmt.Sprintf(`document.querySelectorAll(%q).length`, sel),
		&count,
	))
	if err != nil {
		return 0, fmt.Errorf("uicheck: counting %q: %w", sel, err)
	}
	return count, nil
}

// CountByXPath returns the number of elements matching the XPath
// expression. Used for text-content matches CSS cannot express.
func (s *Session) CountByXPath(xp string) (int, error) {
	var count float64
	expr := fmt.Sprintf(
		`document.evaluate(%q, document, null, XPathResult.NUMBER_TYPE, null).numberValue`,
		"count("+xp+")",
	)
	if err := s.run(0, chromedp.Evaluate(expr, &count)); err != nil {
		return 0, fmt.Errorf("uicheck: counting xpath %q: %w", xp, err)
	}
	return int(count), nil
}

// Screenshot captures the current viewport to a PNG file at path.
func (s *Session) Screenshot(path string) error {
	var buf []byte
	if err := s.run(0, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("uicheck: capturing screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("uicheck: writing screenshot: %w", err)
	}
	return nil
}

// FullScreenshot captures the entire page, beyond the viewport, to a PNG
// file at path.
func (s *Session) FullScreenshot(path string) error {
	var buf []byte
	if err := s.run(0, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return fmt.Errorf("uicheck: capturing full screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("uicheck: writing screenshot: %w", err)
	}
	return nil
}
