package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// DefaultUserAgent is sent by both sources unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	defaultNavigationTimeout = 60 * time.Second
	textTimeout              = 5 * time.Second
)

// BrowserOptions configures the headless Chrome source.
type BrowserOptions struct {
	Headless          bool
	UserAgent         string
	PageSettle        time.Duration
	NavigationTimeout time.Duration
	Logger            *slog.Logger
}

// BrowserSource drives a single Chrome tab through chromedp. Pages are
// opened one after another in the same tab.
type BrowserSource struct {
	opts        BrowserOptions
	tab         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	log         *slog.Logger
}

// NewBrowserSource launches Chrome and opens a blank tab. The browser lives
// until Close is called or ctx is cancelled.
func NewBrowserSource(ctx context.Context, opts BrowserOptions) (*BrowserSource, error) {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = defaultNavigationTimeout
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = DefaultUserAgent
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.UserAgent(opts.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, execOpts...)
	tab, cancelTab := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(tab); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}

	log.Debug("chrome started", "headless", opts.Headless)

	return &BrowserSource{
		opts:        opts,
		tab:         tab,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		log:         log,
	}, nil
}

// Open navigates the tab to url and waits for the page to settle.
func (s *BrowserSource) Open(ctx context.Context, url string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	navCtx, cancel := context.WithTimeout(s.tab, s.opts.NavigationTimeout)
	defer cancel()

	var final string
	actions := []chromedp.Action{chromedp.Navigate(url)}
	if s.opts.PageSettle > 0 {
		actions = append(actions, chromedp.Sleep(s.opts.PageSettle))
	}
	actions = append(actions, chromedp.Location(&final))

	start := time.Now()
	if err := chromedp.Run(navCtx, actions...); err != nil {
		return nil, fmt.Errorf("navigating to %s: %w", url, err)
	}
	s.log.Debug("page loaded", "url", url, "latency_ms", time.Since(start).Milliseconds())

	if final == "" {
		final = url
	}
	return &browserDocument{tab: s.tab, url: final}, nil
}

// Screenshot captures whatever the tab currently shows. It is used when a
// navigation fails before a document is available.
func (s *BrowserSource) Screenshot(_ context.Context) ([]byte, error) {
	return captureTab(s.tab)
}

// Close shuts the browser down.
func (s *BrowserSource) Close() error {
	err := chromedp.Cancel(s.tab)
	s.cancelTab()
	s.cancelAlloc()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("closing chrome: %w", err)
	}
	return nil
}

type browserDocument struct {
	tab context.Context
	url string
}

func (d *browserDocument) URL() string {
	return d.url
}

func (d *browserDocument) Query(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var nodes []*cdp.Node
	var action chromedp.Action
	if timeout > 0 {
		action = chromedp.Nodes(selector, &nodes, chromedp.ByQuery)
	} else {
		// Check once without waiting for the node to appear.
		timeout = textTimeout
		action = chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))
	}

	qctx, cancel := context.WithTimeout(d.tab, timeout)
	defer cancel()

	if err := chromedp.Run(qctx, action); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, ErrNotFound
	}

	return &browserElement{tab: d.tab, id: nodes[0].NodeID}, nil
}

func (d *browserDocument) Screenshot(_ context.Context) ([]byte, error) {
	return captureTab(d.tab)
}

type browserElement struct {
	tab context.Context
	id  cdp.NodeID
}

func (e *browserElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tctx, cancel := context.WithTimeout(e.tab, textTimeout)
	defer cancel()

	var text string
	if err := chromedp.Run(tctx, chromedp.TextContent([]cdp.NodeID{e.id}, &text, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("reading node text: %w", err)
	}
	return text, nil
}

func captureTab(tab context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(tab, 15*time.Second)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}
	return buf, nil
}
