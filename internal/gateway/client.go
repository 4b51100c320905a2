package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pitchclerk/internal/logging"
	"pitchclerk/internal/services"
)

const (
	userAgent       = "pitchclerk"
	maxResponseBody = 8 << 20
	invalidToken    = "Invalid Token"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token and is cleared when the server rejects
// it. *session.Session satisfies it.
type TokenSource interface {
	Token(ctx context.Context) string
	Clear(ctx context.Context) error
}

// Config holds the connection settings for the remote API.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds each call. For multipart uploads it bounds upload stalls
	// and the wait for the response instead of the whole transfer. Zero
	// disables it.
	Timeout time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP backend.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client issues authenticated JSON and multipart requests against the API.
type Client struct {
	base    *url.URL
	apiKey  string
	timeout time.Duration
	tokens  TokenSource
	http    HTTPDoer
	logger  *slog.Logger
}

// New constructs a Client. tokens may be nil for unauthenticated use.
func New(cfg Config, tokens TokenSource, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("gateway: base url is required")
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: base url %q must be absolute", cfg.BaseURL)
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("gateway: timeout must be non-negative")
	}

	c := &Client{
		base:    base,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: cfg.Timeout,
		tokens:  tokens,
		http:    &http.Client{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "gateway")
	return c, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Patch sends body as JSON and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

// PostMultipart streams form as multipart/form-data and decodes the response
// into out. File parts are read while the request is in flight.
func (c *Client) PostMultipart(ctx context.Context, path string, form *Form, out any) error {
	if form == nil {
		form = &Form{}
	}
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	written := make(chan error, 1)
	go func() {
		err := form.writeTo(mw)
		pw.CloseWithError(err)
		written <- err
	}()

	err := c.send(ctx, http.MethodPost, path, pr, mw.FormDataContentType(), out, true)
	pr.Close()
	if err == nil {
		return nil
	}
	if werr := <-written; errors.Is(werr, services.ErrValidation) {
		c.logger.Warn("multipart body aborted", logging.Error(werr))
		return werr
	}
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrUnknown, operation(method, path), "encode request", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, reader, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	return c.send(ctx, method, path, body, contentType, out, false)
}

// send performs one call. A streamed body is not covered by a fixed deadline:
// the timeout restarts whenever the body makes progress, so it bounds stalls
// and the wait for the response rather than the whole transfer.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any, streamed bool) error {
	op := operation(method, path)
	ctx, requestID := services.EnsureRequestID(ctx)
	logger := logging.WithContext(ctx, c.logger).With(logging.String(logging.FieldOperation, op))

	target, err := c.resolve(path)
	if err != nil {
		return services.Wrap(services.ErrUnknown, op, "build request url", err)
	}

	callCtx, body, release := c.bound(ctx, body, streamed)
	defer release()

	req, err := http.NewRequestWithContext(callCtx, method, target, body)
	if err != nil {
		return services.Wrap(services.ErrUnknown, op, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		wrapped := classifyTransport(callCtx, op, err)
		logger.Warn("request failed", logging.Error(wrapped))
		return wrapped
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		wrapped := classifyTransport(callCtx, op, err)
		logger.Warn("read response failed", logging.Error(wrapped))
		return wrapped
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.statusError(ctx, op, resp.StatusCode, data)
		logger.Warn("request rejected",
			logging.Int(logging.FieldStatusCode, resp.StatusCode),
			logging.Error(apiErr),
		)
		return apiErr
	}

	logger.Debug("request completed",
		logging.Int(logging.FieldStatusCode, resp.StatusCode),
		logging.String("duration", time.Since(started).Round(time.Millisecond).String()),
	)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		wrapped := &services.APIError{
			Kind:       services.ErrUnknown,
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    "decode response",
			Err:        err,
		}
		logger.Warn("undecodable response", logging.Error(wrapped))
		return wrapped
	}
	return nil
}

func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimLeft(strings.TrimSpace(path), "/"))
	if err != nil {
		return "", err
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", fmt.Errorf("path %q must be relative", path)
	}
	return c.base.ResolveReference(ref).String(), nil
}

// statusError maps a non-2xx response onto the error taxonomy. A 401, or any
// response whose message is "Invalid Token", clears the session.
func (c *Client) statusError(ctx context.Context, op string, status int, body []byte) error {
	message := decodeMessage(body)
	apiErr := &services.APIError{Op: op, StatusCode: status, Message: message}

	switch {
	case status == http.StatusUnauthorized || strings.EqualFold(message, invalidToken):
		apiErr.Kind = services.ErrAuth
		if apiErr.Message == "" {
			apiErr.Message = "Your session has expired. Please sign in again."
		}
		if c.tokens != nil {
			if err := c.tokens.Clear(ctx); err != nil {
				c.logger.Warn("clear session after auth failure", logging.Error(err))
			}
		}
	case status >= 400 && status < 500 && message != "":
		apiErr.Kind = services.ErrValidation
	default:
		apiErr.Kind = services.ErrUnknown
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	return apiErr
}

// decodeMessage extracts a human-readable message from an error body. The API
// sends {"message": "..."}; some validators send a list of messages instead.
func decodeMessage(body []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{envelope.Message, envelope.Error} {
		if msg := rawMessage(raw); msg != "" {
			return msg
		}
	}
	return ""
}

func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		parts := make([]string, 0, len(many))
		for _, m := range many {
			if m = strings.TrimSpace(m); m != "" {
				parts = append(parts, m)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

func (c *Client) bound(ctx context.Context, body io.Reader, streamed bool) (context.Context, io.Reader, func()) {
	if c.timeout <= 0 {
		return ctx, body, func() {}
	}
	if !streamed {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		return callCtx, body, cancel
	}
	callCtx, cancel := context.WithCancelCause(ctx)
	idle := time.AfterFunc(c.timeout, func() { cancel(context.DeadlineExceeded) })
	release := func() {
		idle.Stop()
		cancel(nil)
	}
	return callCtx, &progressReader{r: body, touch: func() { idle.Reset(c.timeout) }}, release
}

// progressReader restarts the idle timer on every read of an upload body.
type progressReader struct {
	r     io.Reader
	touch func()
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.touch()
	return n, err
}

func classifyTransport(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(context.Cause(ctx), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, op, "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return services.Wrap(services.ErrTimeout, op, "request timed out", err)
	}
	return services.Wrap(services.ErrTransport, op, "request failed", err)
}

func operation(method, path string) string {
	return strings.ToUpper(method) + " " + strings.TrimLeft(strings.TrimSpace(path), "/")
}
