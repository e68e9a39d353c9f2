package provider

import (
	"fmt"

	"github.com/liliang-cn/citelens/internal/config"
	"go.uber.org/zap"
)

// NewScreenshotter creates the configured screenshot backend.
func NewScreenshotter(cfg config.ScreenshotConfig, logger *zap.Logger) (Screenshotter, error) {
	switch cfg.Provider {
	case config.ProviderScreenshotOne:
		return NewScreenshotOneClient(ScreenshotOneConfig{
			BaseURL:      cfg.BaseURL,
			APIKey:       cfg.APIKey,
			Timeout:      cfg.Timeout,
			ImageQuality: cfg.ImageQuality,
		}, logger), nil
	case config.ProviderChromedp:
		return NewChromeScreenshotter(cfg.Timeout, cfg.ImageQuality, logger), nil
	case "":
		return nil, fmt.Errorf("screenshot provider not specified")
	default:
		return nil, fmt.Errorf("unknown screenshot provider: %s", cfg.Provider)
	}
}

// NewAnswerFromConfig creates the answer client from configuration.
func NewAnswerFromConfig(cfg config.AnswerConfig) *AnswerClient {
	return NewAnswerClient(AnswerConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
}

// NewVisionFromConfig creates the vision client from configuration.
func NewVisionFromConfig(cfg config.VisionConfig) *VisionClient {
	return NewVisionClient(VisionConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
}
