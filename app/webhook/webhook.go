// Package webhook invokes the external automation hooks behind each tool.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/developeraldawla/project-n8n/config"
	"github.com/sethvargo/go-retry"
)

const maxResponseBytes = 10 << 20

var (
	ErrInvalidURL       = errors.New("invalid webhook url")
	ErrPermanentFailure = errors.New("webhook rejected the request")
	ErrDeliveryFailed   = errors.New("webhook delivery failed")
)

// Request is the JSON body posted to a tool hook.
type Request struct {
	ExecutionID string          `json:"execution_id"`
	Tool        string          `json:"tool"`
	Version     int32           `json:"version"`
	UserID      string          `json:"user_id"`
	Input       json.RawMessage `json:"input"`
}

type Response struct {
	StatusCode int
	Body       json.RawMessage
	Attempts   int
	Duration   time.Duration
}

type Client struct {
	httpClient *http.Client
	secret     string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewClient(cfg config.WebhookConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		secret:     cfg.SigningSecret,
		maxRetries: cfg.MaxRetries,
		baseDelay:  500 * time.Millisecond,
		maxDelay:   10 * time.Second,
	}
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	return nil
}

// Invoke posts req to hookURL. Network errors, 408, 425, 429 and 5xx responses
// are retried with capped exponential backoff; any other 4xx fails immediately.
func (c *Client) Invoke(ctx context.Context, hookURL string, req Request) (*Response, error) {
	if err := ValidateURL(hookURL); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal webhook payload: %w", err)
	}

	start := time.Now()
	attempts := 0
	resp, err := retry.DoValue(ctx, c.backoff(), func(ctx context.Context) (*Response, error) {
		attempts++
		status, body, err := c.post(ctx, hookURL, payload)
		if err != nil {
			if isPermanent(status) {
				return nil, fmt.Errorf("%w: %w", ErrPermanentFailure, err)
			}
			return nil, retry.RetryableError(err)
		}
		return &Response{StatusCode: status, Body: normalizeBody(body)}, nil
	})
	switch {
	case err == nil:
		resp.Attempts = attempts
		resp.Duration = time.Since(start)
		return resp, nil
	case errors.Is(err, ErrPermanentFailure):
		return nil, err
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, attempts, err)
	}
}

// backoff doubles from baseDelay up to maxDelay and stops after maxRetries.
func (c *Client) backoff() retry.Backoff {
	retries := c.maxRetries
	if retries < 0 {
		retries = 0
	}
	b := retry.NewExponential(c.baseDelay)
	b = retry.WithCappedDuration(c.maxDelay, b)
	return retry.WithMaxRetries(uint64(retries), b)
}

func (c *Client) post(ctx context.Context, hookURL string, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hookURL, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "toolhub-webhook/1.0")
	if c.secret != "" {
		for k, v := range Sign(c.secret, payload, time.Now()).Headers() {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.ReplaceAll(string(body), "\n", " ")
		if len(msg) > 200 {
			msg = msg[:200] + "..."
		}
		return resp.StatusCode, nil, fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, msg)
	}
	return resp.StatusCode, body, nil
}

func isPermanent(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	default:
		return true
	}
}

// normalizeBody keeps JSON bodies as-is and wraps anything else as a JSON string.
func normalizeBody(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	wrapped, _ := json.Marshal(string(trimmed))
	return wrapped
}
