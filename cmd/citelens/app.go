package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/liliang-cn/citelens/internal/config"
	"github.com/liliang-cn/citelens/internal/domain"
	"github.com/liliang-cn/citelens/internal/metrics"
	"github.com/liliang-cn/citelens/internal/provider"
	"github.com/liliang-cn/citelens/internal/render"
	"github.com/liliang-cn/citelens/internal/service"
	"go.uber.org/zap"
)

// app holds what every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// newApp loads configuration and the logger. Problems with the given
// components are returned when strict is set and logged otherwise.
func newApp(cfgPath string, strict bool, components ...config.Component) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if err := config.Validate(cfg, components...); err != nil {
		if strict {
			logger.Sync()
			return nil, err
		}
		logger.Warn("Configuration incomplete, affected calls will fail", zap.Error(err))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}
	return &app{cfg: cfg, logger: logger, metrics: m}, nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (a *app) locateService() *service.LocateService {
	return service.NewLocateService(provider.NewVisionFromConfig(a.cfg.Vision), a.cfg.Vision, a.metrics, a.logger)
}

// readImage loads an image file as an inline payload.
func readImage(path string) (domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, err
	}
	return domain.NewImage(data, http.DetectContentType(data)), nil
}

// writeAnnotated draws boxes on img and writes the PNG to path.
func writeAnnotated(path string, img domain.Image, boxes []domain.BoundingBox) error {
	data, err := render.AnnotatePNG(img, boxes, render.Options{})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
