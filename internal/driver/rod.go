package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"aljadeed-news-scraper/internal/config"
)

// RodBrowser drives a Chromium instance through go-rod.
type RodBrowser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func NewRodBrowser(cfg config.BrowserConfig) (*RodBrowser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("window-size", fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight))
	if cfg.Lang != "" {
		l = l.Set("lang", cfg.Lang)
	}
	if cfg.ChromePath != "" {
		l = l.Bin(cfg.ChromePath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodBrowser{browser: browser, launcher: l}, nil
}

func (b *RodBrowser) Open(ctx context.Context, url string) (Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("failed to open page %s: %w", url, err)
	}
	return &rodPage{page: page.Context(ctx)}, nil
}

func (b *RodBrowser) Close() error {
	err := b.browser.Close()
	if b.launcher != nil {
		b.launcher.Cleanup()
	}
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) HTML() (string, error) {
	html, err := p.page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

func (p *rodPage) WaitVisible(selector string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %q not found: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element %q not visible: %w", selector, err)
	}
	return nil
}

func (p *rodPage) Click(selector string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %q not found: %w", selector, err)
	}
	return p.click(el, selector)
}

func (p *rodPage) ClickXPath(xpath string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).ElementX(xpath)
	if err != nil {
		return fmt.Errorf("element %q not found: %w", xpath, err)
	}
	return p.click(el, xpath)
}

func (p *rodPage) click(el *rod.Element, selector string) error {
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("failed to scroll %q into view: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}
	return nil
}

func (p *rodPage) Eval(js string) error {
	if _, err := p.page.Eval(js); err != nil {
		return fmt.Errorf("script evaluation failed: %w", err)
	}
	return nil
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
