// Package genai holds HTTP clients for the remote generation services: the
// text-to-image service and the image-to-3D conversion service. Both speak a
// small JSON protocol: a POST with the request payload, answered by
// {"result": "<base64 bytes>"}.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"musegen/internal/muse"
)

// Client is the shared HTTP layer: one request with bounded exponential
// backoff retries on transient failures. Cancellation and deadlines come in
// through the request context.
type Client struct {
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a Client. timeout bounds each individual attempt;
// maxRetries <= 0 defaults to 3.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		baseDelay:  500 * time.Millisecond,
	}
}

// resultEnvelope is the wire shape of a generation service response.
type resultEnvelope struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

// call POSTs payload to url and returns the decoded result bytes.
func (c *Client) call(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		data, err := c.callOnce(ctx, url, body)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == c.maxRetries {
			break
		}
		if err := c.backoff(ctx, attempt); err != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (c *Client) callOnce(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var envelope resultEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("service error: %s", envelope.Error)
	}
	if envelope.Result == "" {
		return nil, fmt.Errorf("no result data returned")
	}

	data, err := base64.StdEncoding.DecodeString(envelope.Result)
	if err != nil {
		return nil, fmt.Errorf("decoding result data: %w", err)
	}
	return data, nil
}

// isRetryable sniffs rate limits, server errors and connection issues.
func isRetryable(err error) bool {
	msg := err.Error()
	for _, s := range []string{"status 429", "status 500", "status 502", "status 503", "connection refused", "timeout", "EOF", "reset by peer"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(float64(c.baseDelay) * math.Pow(2, float64(attempt)))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ImageGenerator calls the remote text-to-image service.
type ImageGenerator struct {
	client *Client
	url    string
}

var _ muse.ImageGenerator = (*ImageGenerator)(nil)

// NewImageGenerator creates a generator pointed at the given endpoint.
func NewImageGenerator(client *Client, url string) *ImageGenerator {
	return &ImageGenerator{client: client, url: url}
}

func (g *ImageGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	return g.client.call(ctx, g.url, map[string]string{"prompt": prompt})
}

// ModelConverter calls the remote image-to-3D service.
type ModelConverter struct {
	client *Client
	url    string
}

var _ muse.ImageTo3DConverter = (*ModelConverter)(nil)

// NewModelConverter creates a converter pointed at the given endpoint.
func NewModelConverter(client *Client, url string) *ModelConverter {
	return &ModelConverter{client: client, url: url}
}

func (m *ModelConverter) Convert(ctx context.Context, image []byte) ([]byte, error) {
	payload := map[string]string{"image": base64.StdEncoding.EncodeToString(image)}
	return m.client.call(ctx, m.url, payload)
}
