// Package backend is the HTTP client for the remote event-booking API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/phxevent/eventbook-console/internal/core/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// TokenSource supplies the bearer token attached to authenticated requests.
type TokenSource func(ctx context.Context) (string, bool)

// Observer is told about every completed request: endpoint is the path
// template, status the HTTP status code or "error".
type Observer func(endpoint, status string, elapsed time.Duration)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observe = o }
}

// Client implements ports.AuthBackend and ports.EventCatalog.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	observe Observer
	log     zerolog.Logger
}

// NewClient returns a client for the API rooted at baseURL
// (e.g. http://localhost:8080/api). A non-positive timeout uses 15s.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		observe: func(string, string, time.Duration) {},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login posts credentials to /auth/login.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register posts account details to /auth/register. A reply that is not a
// JSON object is kept verbatim as the acknowledgement message.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Acknowledgement, error) {
	var raw []byte
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, false, &raw); err != nil {
		return nil, err
	}
	ack := &domain.Acknowledgement{}
	if len(raw) > 0 && json.Unmarshal(raw, ack) != nil {
		ack.Message = strings.TrimSpace(string(raw))
	}
	return ack, nil
}

// ListEvents fetches the approved events from /public/events.
func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.do(ctx, http.MethodGet, "/public/events", nil, true, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Ping checks that /health answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, false, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, authenticated bool, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated && c.tokens != nil {
		if token, ok := c.tokens(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(path, "error", time.Since(start))
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	c.observe(path, strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
		c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("backend rejected request")
		return fmt.Errorf("%s %s: %w", method, path, apiErr)
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *[]byte:
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%s %s: read response: %w: %w", method, path, domain.ErrBackendUnavailable, err)
		}
		*dst = raw
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%s %s: decode response: %w: %w", method, path, domain.ErrBackendUnavailable, err)
	}
	return nil
}

// errorMessage extracts {"message": ...} or {"error": ...} from an error body.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}
