// Package browserexec drives a headless Chromium instance to act on
// transcribed intents that name a web action (navigate, click, screenshot).
// It sits downstream of the voice pipeline as an opaque collaborator: it
// never inspects audio or transcripts itself, only the URLs/selectors an
// intent resolver hands it.
package browserexec

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config mirrors original_source/browser-executor's ExecutorConfig: the
// knobs that bound how much damage a misbehaving page can do.
type Config struct {
	Headless         bool
	DefaultTimeout   time.Duration
	MaxExecutionTime time.Duration
	ViewportWidth    int
	ViewportHeight   int
	UserAgent        string
}

// DefaultConfig matches the Rust executor's defaults.
func DefaultConfig() Config {
	return Config{
		Headless:         true,
		DefaultTimeout:   10 * time.Second,
		MaxExecutionTime: 30 * time.Second,
		ViewportWidth:    1920,
		ViewportHeight:   1080,
		UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Stats tracks executor activity, mirroring ExecutorStats.
type Stats struct {
	TotalActions      int64
	SuccessfulActions int64
	FailedActions     int64
	Crashes           int64
	Restarts          int64
}

// Automator is the set of actions an intent resolver can perform against
// a browser. Implementations may launch their backing browser lazily.
type Automator interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// RodAutomator is an Automator backed by go-rod/rod controlling a headless
// Chromium. Unlike the Rust executor, which launches eagerly in its
// constructor, RodAutomator launches on first use: most voice sessions
// never touch the browser, and starting Chromium costs real wall time.
type RodAutomator struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
	page    *rod.Page
	stats   Stats
}

// New creates a RodAutomator. The browser itself is not started until the
// first Navigate, Click, or Screenshot call.
func New(cfg Config) *RodAutomator {
	return &RodAutomator{cfg: cfg}
}

// ensureBrowser launches Chromium if it isn't already running, and
// restarts it if a previous launch died underneath us.
func (a *RodAutomator) ensureBrowser() error {
	if a.browser != nil && a.isAlive() {
		return nil
	}
	if a.browser != nil {
		a.stats.Crashes++
		a.stats.Restarts++
		a.closeLocked()
	}

	path, _ := launcher.LookPath()
	controlURL, err := launcher.New().Bin(path).Headless(a.cfg.Headless).Launch()
	if err != nil {
		return fmt.Errorf("browserexec: launch failed: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("browserexec: connect failed: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		browser.Close()
		return fmt.Errorf("browserexec: opening initial page failed: %w", err)
	}
	if a.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: a.cfg.UserAgent}); err != nil {
			browser.Close()
			return fmt.Errorf("browserexec: setting user agent failed: %w", err)
		}
	}

	a.browser = browser
	a.page = page
	return nil
}

// isAlive does a cheap liveness probe: a browser whose control connection
// has died will fail even a version query.
func (a *RodAutomator) isAlive() bool {
	if a.browser == nil {
		return false
	}
	_, err := a.browser.Version()
	return err == nil
}

func (a *RodAutomator) closeLocked() {
	if a.browser != nil {
		a.browser.Close()
	}
	a.browser = nil
	a.page = nil
}

// Navigate loads url in the managed page, waiting for the load event.
func (a *RodAutomator) Navigate(ctx context.Context, url string) error {
	return a.execute(ctx, func() error {
		if err := a.page.Context(ctx).Navigate(url); err != nil {
			return fmt.Errorf("browserexec: navigate failed: %w", err)
		}
		if err := a.page.Context(ctx).WaitLoad(); err != nil {
			return fmt.Errorf("browserexec: waiting for load failed: %w", err)
		}
		return nil
	})
}

// Click finds the first element matching selector and clicks it.
func (a *RodAutomator) Click(ctx context.Context, selector string) error {
	return a.execute(ctx, func() error {
		el, err := a.page.Context(ctx).Element(selector)
		if err != nil {
			return fmt.Errorf("browserexec: element %q not found: %w", selector, err)
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("browserexec: click on %q failed: %w", selector, err)
		}
		return nil
	})
}

// Screenshot captures the current page as a PNG.
func (a *RodAutomator) Screenshot(ctx context.Context) ([]byte, error) {
	var shot []byte
	err := a.execute(ctx, func() error {
		data, err := a.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return fmt.Errorf("browserexec: screenshot failed: %w", err)
		}
		shot = data
		return nil
	})
	return shot, err
}

// execute runs action against the managed browser, restarting it first if
// it has crashed, bounding the call by MaxExecutionTime, and updating
// Stats. action must only touch a.page, which is stable under a.mu.
func (a *RodAutomator) execute(ctx context.Context, action func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.ensureBrowser(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, a.cfg.MaxExecutionTime)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- action() }()

	var err error
	select {
	case err = <-done:
	case <-runCtx.Done():
		err = fmt.Errorf("browserexec: action exceeded %s", a.cfg.MaxExecutionTime)
	}

	a.stats.TotalActions++
	if err != nil {
		a.stats.FailedActions++
	} else {
		a.stats.SuccessfulActions++
	}
	return err
}

// Stats returns a snapshot of executor activity.
func (a *RodAutomator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Close shuts down the managed browser, if one was ever launched.
func (a *RodAutomator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeLocked()
	return nil
}
