// Package provider wraps the external services CiteLens depends on: the
// answer (search) API, the vision-language model and the screenshot backend.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/liliang-cn/citelens/internal/domain"
)

const defaultTimeout = 120 * time.Second

// jsonClient is the shared base for the JSON-over-HTTP services. It makes a
// single attempt per call; failures are returned to the caller as-is.
type jsonClient struct {
	service string
	baseURL string
	apiKey  string
	keyEnv  string
	client  *http.Client
}

func newJSONClient(service, baseURL, apiKey, keyEnv string, timeout time.Duration) jsonClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return jsonClient{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		keyEnv:  keyEnv,
		client:  &http.Client{Timeout: timeout},
	}
}

// checkKey fails fast when the service has no API key.
func (c *jsonClient) checkKey() error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: %s is not set", domain.ErrMissingAPIKey, c.keyEnv)
	}
	return nil
}

func (c *jsonClient) postJSON(ctx context.Context, path string, body, out any) error {
	if err := c.checkKey(); err != nil {
		return err
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request to %s failed: %w", domain.ErrUpstream, c.service, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %w", domain.ErrUpstream, c.service, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s API error %d: %s", domain.ErrUpstream, c.service, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", domain.ErrUpstream, c.service, err)
	}
	return nil
}
