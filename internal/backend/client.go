// Package backend is the HTTP client for the detection backend's
// /detect-hate and /chat-avatar endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/soyeahso/safetalk/internal/version"
)

// Default request bounds.
const (
	DefaultDetectTimeout = 15 * time.Second
	DefaultChatTimeout   = 60 * time.Second
)

// ErrUnavailable wraps transport failures and timeouts.
var ErrUnavailable = errors.New("backend unavailable")

// APIError is a non-2xx response. Detail carries the server's "detail"
// field when present.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend: %d %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend: %d %s", e.Status, http.StatusText(e.Status))
}

// ChatMessage is one {role, content} turn sent to /chat-avatar.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the detection backend.
type Client struct {
	baseURL       string
	http          *http.Client
	detectTimeout time.Duration
	chatTimeout   time.Duration
	log           *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeouts sets the per-call bounds. Zero keeps the default.
func WithTimeouts(detect, chat time.Duration) Option {
	return func(c *Client) {
		if detect > 0 {
			c.detectTimeout = detect
		}
		if chat > 0 {
			c.chatTimeout = chat
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) { c.log = log.Sub("backend") }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		http:          &http.Client{},
		detectTimeout: DefaultDetectTimeout,
		chatTimeout:   DefaultChatTimeout,
		log:           logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Detect posts text to /detect-hate. The call is bounded by the detect
// timeout regardless of ctx. No retries are made.
func (c *Client) Detect(ctx context.Context, text string) (domain.Detection, error) {
	ctx, cancel := context.WithTimeout(ctx, c.detectTimeout)
	defer cancel()

	var det domain.Detection
	err := c.post(ctx, "/detect-hate", map[string]string{"text": text}, &det)
	if err != nil {
		c.log.Warn().Err(err).Msg("detect-hate failed")
		return domain.Detection{}, err
	}
	return det, nil
}

// ChatAvatar posts the transcript to /chat-avatar and returns the reply.
// An empty model uses the server default.
func (c *Client) ChatAvatar(ctx context.Context, messages []ChatMessage, model string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.chatTimeout)
	defer cancel()

	body := struct {
		Messages []ChatMessage `json:"messages"`
		Model    string        `json:"model,omitempty"`
	}{Messages: messages, Model: model}

	var out struct {
		Content string `json:"content"`
	}
	if err := c.post(ctx, "/chat-avatar", body, &out); err != nil {
		c.log.Warn().Err(err).Msg("chat-avatar failed")
		return "", err
	}
	return out.Content, nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.detectTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", version.UserAgent())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}

	var payload struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Detail != nil {
		switch d := payload.Detail.(type) {
		case string:
			apiErr.Detail = d
		default:
			b, _ := json.Marshal(d)
			apiErr.Detail = string(b)
		}
	}
	return apiErr
}

// Detail extracts a user-facing message from err: the server's detail when
// the backend answered with one, otherwise "".
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
