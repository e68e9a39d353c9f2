package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/liliang-cn/citelens/internal/domain"
	"go.uber.org/zap"
)

// ChromeScreenshotter captures pages with a local headless Chrome instead of
// a hosted API.
type ChromeScreenshotter struct {
	Timeout time.Duration
	Quality int
	Width   int
	Height  int
	logger  *zap.Logger
}

// NewChromeScreenshotter creates a headless Chrome screenshotter.
func NewChromeScreenshotter(timeout time.Duration, quality int, logger *zap.Logger) *ChromeScreenshotter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &ChromeScreenshotter{
		Timeout: timeout,
		Quality: quality,
		Width:   1280,
		Height:  1024,
		logger:  logger,
	}
}

// Capture renders the page and screenshots it, or only the selected element.
func (s *ChromeScreenshotter) Capture(ctx context.Context, req ScreenshotRequest) (*Screenshot, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("%w: screenshot url is empty", domain.ErrInvalidRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	start := time.Now()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.WindowSize(s.Width, s.Height),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var buf []byte
	var tasks chromedp.Tasks
	if req.Selector != "" {
		tasks = chromedp.Tasks{
			chromedp.Navigate(req.URL),
			chromedp.WaitVisible(req.Selector, chromedp.ByQuery),
			chromedp.Screenshot(req.Selector, &buf, chromedp.ByQuery),
		}
	} else {
		tasks = chromedp.Tasks{
			chromedp.Navigate(req.URL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.FullScreenshot(&buf, s.Quality),
		}
	}

	if err := chromedp.Run(bctx, tasks); err != nil {
		return nil, fmt.Errorf("%w: headless screenshot of %s: %w", domain.ErrUpstream, req.URL, err)
	}

	s.logger.Info("Got screenshot",
		zap.String("url", req.URL),
		zap.String("backend", "chromedp"),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Screenshot{Data: buf, MIMEType: contentType("", buf)}, nil
}
