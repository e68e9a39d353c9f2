package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/liliang-cn/citelens/internal/annotate"
	"github.com/liliang-cn/citelens/internal/config"
	"github.com/liliang-cn/citelens/internal/domain"
	"github.com/liliang-cn/citelens/internal/metrics"
	"github.com/liliang-cn/citelens/internal/provider"
	"go.uber.org/zap"
)

// LocateService asks the vision model where content sits inside an image
// and decodes the answer into bounding boxes.
type LocateService struct {
	vision  provider.Vision
	cfg     config.VisionConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewLocateService creates a new locate service
func NewLocateService(
	vision provider.Vision,
	cfg config.VisionConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *LocateService {
	return &LocateService{
		vision:  vision,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
	}
}

func (s *LocateService) decodeOptions() annotate.DecodeOptions {
	return annotate.DecodeOptions{RejectInvalid: s.cfg.RejectInvalidBoxes}
}

// resolveModel picks the configured model unless the caller asked for one of
// the allowed alternatives.
func (s *LocateService) resolveModel(model string) (string, error) {
	if model == "" {
		return s.cfg.Model, nil
	}
	if len(s.cfg.AllowedModels) > 0 && !slices.Contains(s.cfg.AllowedModels, model) {
		return "", fmt.Errorf("%w: model %q is not allowed", domain.ErrInvalidRequest, model)
	}
	return model, nil
}

func (s *LocateService) describe(ctx context.Context, model, prompt string, img domain.Image) (string, error) {
	model, err := s.resolveModel(model)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := s.vision.Describe(ctx, provider.VisionRequest{Model: model, Prompt: prompt, Image: img})
	s.metrics.Observe(metrics.StageVision, start, err)
	if err != nil {
		s.logger.Error("Vision request failed", zap.String("model", model), zap.Error(err))
		return "", err
	}
	s.logger.Debug("Vision response",
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

// Analyze runs a free-form prompt against an image and returns the text with
// any coordinate tuples found in it.
func (s *LocateService) Analyze(ctx context.Context, img domain.Image, prompt, model string) domain.Result[*domain.Analysis] {
	if strings.TrimSpace(prompt) == "" {
		return domain.Fail[*domain.Analysis]("Failed to process image", fmt.Errorf("%w: prompt is empty", domain.ErrInvalidRequest))
	}
	text, err := s.describe(ctx, model, prompt, img)
	if err != nil {
		return domain.Fail[*domain.Analysis]("Failed to process image", err)
	}
	return domain.Succeed("Successfully processed image", &domain.Analysis{
		Text:        text,
		Coordinates: annotate.ExtractCoordinates(text),
	})
}

// LocateContent finds every instance of content in the image.
func (s *LocateService) LocateContent(ctx context.Context, img domain.Image, content, model string) domain.Result[*domain.LocatedContent] {
	const failed = "Failed to find content coordinates"
	if strings.TrimSpace(content) == "" {
		return domain.Fail[*domain.LocatedContent](failed, fmt.Errorf("%w: content is empty", domain.ErrInvalidRequest))
	}

	text, err := s.describe(ctx, model, annotate.LocatePrompt(content), img)
	if err != nil {
		return domain.Fail[*domain.LocatedContent](failed, err)
	}

	_, boxes, err := annotate.DecodeBoxes(text, s.decodeOptions())
	if err != nil {
		s.logger.Warn("No coordinates in vision response", zap.String("raw", text))
		return domain.Fail[*domain.LocatedContent](failed, err).WithRaw(text)
	}
	s.metrics.AddBoxes(len(boxes))

	return domain.Succeed("Successfully found content coordinates", &domain.LocatedContent{
		Text:  content,
		Boxes: boxes,
	})
}

// LocatePhrases finds several phrases at once. Each highlight carries the
// phrase the model tagged it with.
func (s *LocateService) LocatePhrases(ctx context.Context, img domain.Image, phrases []string, model string) domain.Result[[]domain.Highlight] {
	const failed = "Failed to find phrase coordinates"
	phrases = nonEmpty(phrases)
	if len(phrases) == 0 {
		return domain.Fail[[]domain.Highlight](failed, fmt.Errorf("%w: no phrases given", domain.ErrInvalidRequest))
	}

	text, err := s.describe(ctx, model, annotate.PhrasesPrompt(phrases), img)
	if err != nil {
		return domain.Fail[[]domain.Highlight](failed, err)
	}

	raw, boxes, err := annotate.DecodeBoxes(text, s.decodeOptions())
	if err != nil {
		return domain.Fail[[]domain.Highlight](failed, err).WithRaw(text)
	}
	s.metrics.AddBoxes(len(boxes))

	highlights := make([]domain.Highlight, len(boxes))
	for i, b := range boxes {
		label := raw[i].Text
		if !raw[i].HasText && len(phrases) == 1 {
			label = phrases[0]
		}
		highlights[i] = domain.Highlight{Text: label, BBox: b}
	}
	return domain.Succeed(fmt.Sprintf("Found %d matches", len(highlights)), highlights)
}

// ExtractFields asks the model for "label: value" lines answering task.
func (s *LocateService) ExtractFields(ctx context.Context, img domain.Image, task, model string) domain.Result[[]domain.ExtractedField] {
	const failed = "Failed to extract fields"
	if strings.TrimSpace(task) == "" {
		return domain.Fail[[]domain.ExtractedField](failed, fmt.Errorf("%w: task is empty", domain.ErrInvalidRequest))
	}

	text, err := s.describe(ctx, model, annotate.ExtractFieldsPrompt(task), img)
	if err != nil {
		return domain.Fail[[]domain.ExtractedField](failed, err)
	}

	fields := annotate.ParseFields(text)
	if len(fields) == 0 {
		return domain.Fail[[]domain.ExtractedField](failed, domain.ErrNoFields).WithRaw(text)
	}
	return domain.Succeed(fmt.Sprintf("Extracted %d fields", len(fields)), fields)
}

// LocateFields extracts fields and then asks a second time where each value
// is. The second step is best-effort: fields it cannot place come back with
// no boxes, and results are paired by the value text the model echoes.
func (s *LocateService) LocateFields(ctx context.Context, img domain.Image, task, model string) domain.Result[[]domain.FieldHighlight] {
	extracted := s.ExtractFields(ctx, img, task, model)
	if !extracted.IsSuccess {
		return domain.Result[[]domain.FieldHighlight]{
			Message: extracted.Message,
			Kind:    extracted.Kind,
			Error:   extracted.Error,
			Raw:     extracted.Raw,
		}
	}
	fields := extracted.Data

	text, err := s.describe(ctx, model, annotate.MatchFieldsPrompt(fields), img)
	if err != nil {
		s.logger.Warn("Field location failed, returning unlocated fields", zap.Error(err))
		return domain.Succeed("Extracted fields without locations", annotate.MatchFields(fields, nil))
	}

	located := annotate.ExtractBoxes(text)
	matched := annotate.MatchFields(fields, located)
	var placed int
	for _, m := range matched {
		if len(m.Boxes) > 0 {
			placed++
		}
		s.metrics.AddBoxes(len(m.Boxes))
	}
	result := domain.Succeed(fmt.Sprintf("Located %d of %d fields", placed, len(fields)), matched)
	if placed == 0 {
		result.Raw = text
	}
	return result
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
