package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/liliang-cn/citelens/internal/domain"
)

// VisionRequest is one text prompt plus one inline image.
type VisionRequest struct {
	Model  string
	Prompt string
	Image  domain.Image
}

// Vision answers prompts about images with free text.
type Vision interface {
	Describe(ctx context.Context, req VisionRequest) (string, error)
}

// VisionConfig configures the vision client.
type VisionConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// VisionClient talks to a vision-language model through an OpenAI-compatible
// chat completions endpoint. The default base URL is Gemini's, which has no
// /v1 prefix.
type VisionClient struct {
	base  jsonClient
	model string
}

// NewVisionClient creates a vision client.
func NewVisionClient(cfg VisionConfig) *VisionClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	return &VisionClient{
		base:  newJSONClient("Gemini", cfg.BaseURL, cfg.APIKey, "GEMINI_API_KEY", cfg.Timeout),
		model: cfg.Model,
	}
}

type visionMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type visionCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []visionMessage `json:"messages"`
}

type visionCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Describe sends the prompt and image and returns the model's text.
func (c *VisionClient) Describe(ctx context.Context, req VisionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	body := visionCompletionRequest{
		Model: model,
		Messages: []visionMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: req.Prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: req.Image.DataURL()}},
			},
		}},
	}

	var resp visionCompletionResponse
	if err := c.base.postJSON(ctx, "/chat/completions", body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in vision response", domain.ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}
