package provider

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/liliang-cn/citelens/internal/domain"
	"go.uber.org/zap"
)

// ScreenshotRequest names the page (and optionally one element) to capture.
type ScreenshotRequest struct {
	URL      string
	Selector string
}

// Screenshot is a captured page image.
type Screenshot struct {
	Data     []byte
	MIMEType string
}

// Image returns the screenshot as an inline image payload.
func (s *Screenshot) Image() domain.Image {
	return domain.NewImage(s.Data, s.MIMEType)
}

// Screenshotter captures web pages.
type Screenshotter interface {
	Capture(ctx context.Context, req ScreenshotRequest) (*Screenshot, error)
}

// ScreenshotOneConfig configures the ScreenshotOne client.
type ScreenshotOneConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	ImageQuality int
}

// ScreenshotOneClient captures pages through the ScreenshotOne API.
type ScreenshotOneClient struct {
	cfg    ScreenshotOneConfig
	client *http.Client
	logger *zap.Logger
}

// NewScreenshotOneClient creates a ScreenshotOne client.
func NewScreenshotOneClient(cfg ScreenshotOneConfig, logger *zap.Logger) *ScreenshotOneClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.screenshotone.com"
	}
	if cfg.ImageQuality <= 0 {
		cfg.ImageQuality = 80
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ScreenshotOneClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (c *ScreenshotOneClient) query(req ScreenshotRequest) url.Values {
	params := url.Values{}
	params.Set("access_key", c.cfg.APIKey)
	params.Set("url", req.URL)
	params.Set("format", "jpg")
	params.Set("block_ads", "true")
	params.Set("block_cookie_banners", "true")
	params.Set("block_trackers", "true")
	params.Set("delay", "0")
	params.Set("timeout", "60")
	params.Set("response_type", "by_format")
	params.Set("image_quality", strconv.Itoa(c.cfg.ImageQuality))
	if req.Selector != "" {
		params.Set("selector", req.Selector)
	}
	return params
}

// Capture takes a JPEG screenshot of the page or of the selected element.
func (c *ScreenshotOneClient) Capture(ctx context.Context, req ScreenshotRequest) (*Screenshot, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: SCREENSHOT_API_KEY is not set", domain.ErrMissingAPIKey)
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("%w: screenshot url is empty", domain.ErrInvalidRequest)
	}

	start := time.Now()
	c.logger.Info("Taking screenshot",
		zap.String("url", req.URL),
		zap.String("selector", req.Selector),
	)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/take?" + c.query(req).Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot request failed: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: Screenshot API error: %s", domain.ErrUpstream, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading screenshot: %w", domain.ErrUpstream, err)
	}

	c.logger.Info("Got screenshot",
		zap.String("url", req.URL),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Screenshot{Data: data, MIMEType: contentType(resp.Header.Get("Content-Type"), data)}, nil
}

// contentType prefers the declared image type and sniffs otherwise.
func contentType(header string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return domain.DefaultImageMIME
}
