package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/liliang-cn/citelens/internal/domain"
)

// Message is a role-tagged chat message sent to the answer API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnswerRequest is a chat completion request for the answer API.
type AnswerRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

// AnswerChoice is one completion.
type AnswerChoice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// AnswerResponse is the answer API response: completions plus the source URLs
// referenced by "[n]" markers in the text.
type AnswerResponse struct {
	ID        string         `json:"id,omitempty"`
	Model     string         `json:"model,omitempty"`
	Citations []string       `json:"citations"`
	Choices   []AnswerChoice `json:"choices"`
}

// Content returns the text of the first completion.
func (r *AnswerResponse) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Answerer produces cited answers.
type Answerer interface {
	Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error)
}

// AnswerConfig configures the answer client.
type AnswerConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// AnswerClient calls a Perplexity-style chat completions endpoint.
type AnswerClient struct {
	base  jsonClient
	model string
}

// NewAnswerClient creates an answer API client.
func NewAnswerClient(cfg AnswerConfig) *AnswerClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.perplexity.ai"
	}
	if cfg.Model == "" {
		cfg.Model = "sonar"
	}
	return &AnswerClient{
		base:  newJSONClient("Perplexity", cfg.BaseURL, cfg.APIKey, "PERPLEXITY_API_KEY", cfg.Timeout),
		model: cfg.Model,
	}
}

// Answer sends the conversation and returns the completion with citations.
func (c *AnswerClient) Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	var resp AnswerResponse
	if err := c.base.postJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in answer response", domain.ErrUpstream)
	}
	return &resp, nil
}
