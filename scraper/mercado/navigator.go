package mercado

import (
	"context"
	"fmt"
	"time"

	"compra-agil-scraper/config"
	"compra-agil-scraper/utils"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// settleWait gives the page's async API call time to land after navigation
// reports complete.
const settleWait = 2 * time.Second

// Navigator triggers zero or more Observe callbacks per navigation. The
// browser session is the production implementation; tests substitute a fake
// that feeds canned bodies, and a plain HTTP replay client would satisfy the
// same contract.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// BrowserSession owns one headless browser with one tab and fans every
// network response body out to the registered observers.
type BrowserSession struct {
	cfg       *config.Config
	logger    *utils.Logger
	observers []ResponseObserver

	ctx    context.Context
	cancel context.CancelFunc
}

// NewBrowserSession launches the browser and wires response interception.
func NewBrowserSession(cfg *config.Config, logger *utils.Logger, observers ...ResponseObserver) (*BrowserSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.Flag("lang", "es-CL"),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	s := &BrowserSession{
		cfg:       cfg,
		logger:    logger,
		observers: observers,
		ctx:       tabCtx,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}

	chromedp.ListenTarget(tabCtx, s.onEvent)

	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		s.cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Info("Browser session started (headless=%v)", cfg.Headless)
	return s, nil
}

// onEvent watches for finished XHR/fetch responses and hands their bodies to
// the observers. Body retrieval must happen off the event goroutine.
func (s *BrowserSession) onEvent(ev interface{}) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok {
		return
	}
	if resp.Type != network.ResourceTypeXHR && resp.Type != network.ResourceTypeFetch {
		return
	}

	url := resp.Response.URL
	requestID := resp.RequestID

	go func() {
		c := chromedp.FromContext(s.ctx)
		if c == nil || c.Target == nil {
			return
		}
		execCtx := cdp.WithExecutor(s.ctx, c.Target)
		body, err := network.GetResponseBody(requestID).Do(execCtx)
		if err != nil {
			s.logger.Debug("Could not read response body for %s: %v", url, err)
			return
		}
		for _, obs := range s.observers {
			obs.Observe(url, body)
		}
	}()
}

// Navigate loads a URL and blocks through the settle wait so the observers
// have seen the page's API traffic by the time it returns.
func (s *BrowserSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// The navigation runs on the browser's context but must die with the
	// caller's too, so an interrupt aborts an in-flight page load instead
	// of waiting out the timeout and settle.
	navCtx, cancel := navContext(s.ctx, ctx, s.cfg.RequestTimeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(settleWait),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// navContext bounds one navigation by the request timeout and by the
// caller's context, whichever ends first, while keeping the browser context
// itself alive across navigations.
func navContext(browser, caller context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	navCtx, cancel := context.WithTimeout(browser, timeout)
	stop := context.AfterFunc(caller, cancel)
	return navCtx, func() {
		stop()
		cancel()
	}
}

// Close shuts the browser down.
func (s *BrowserSession) Close() {
	s.cancel()
	s.logger.Info("Browser session closed")
}
