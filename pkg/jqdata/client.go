package jqdata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the single endpoint every method is posted to.
const DefaultBaseURL = "https://dataapi.joinquant.com/apis"

const defaultTimeout = 30 * time.Second

// Client executes commands against the JQData endpoint. It is safe for
// concurrent use.
type Client struct {
	base   string
	http   *http.Client
	logger *zap.Logger
	fresh  bool
	creds  *credentials
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.base = u }
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the
// current HTTP client, so a client given by WithHTTPClient keeps its
// transport whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			h := *c.http
			h.Timeout = d
			c.http = &h
		}
	}
}

// WithLogger sets the logger. Tokens and credentials are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFreshToken makes token exchange use get_token, which issues a new
// token instead of reusing the current one.
func WithFreshToken() Option {
	return func(c *Client) { c.fresh = true }
}

func newClient(opts []Option) *Client {
	c := &Client{
		base:   DefaultBaseURL,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithCredential creates a client that exchanges mobile and password for
// a token before returning. A failed exchange yields no client.
func NewWithCredential(ctx context.Context, mobile, password string, opts ...Option) (*Client, error) {
	c := newClient(opts)
	c.creds = newCredentials(&Credential{mobile: mobile, password: password}, c.fresh)
	if _, err := c.creds.refresh(ctx, c.post); err != nil {
		return nil, err
	}
	c.logger.Info("token obtained", zap.String("method", c.creds.method))
	return c, nil
}

// NewWithToken creates a client around a token obtained elsewhere. Refresh
// is unavailable on such a client.
func NewWithToken(token string, opts ...Option) *Client {
	c := newClient(opts)
	c.creds = newCredentials(nil, c.fresh)
	c.creds.install(token)
	return c
}

// Token returns the current token snapshot.
func (c *Client) Token() Token { return c.creds.snapshot() }

// CanRefresh reports whether the client holds a credential.
func (c *Client) CanRefresh() bool { return c.creds.canRefresh() }

// Credential returns the stored credential, if any.
func (c *Client) Credential() (Credential, bool) {
	if c.creds.cred == nil {
		return Credential{}, false
	}
	return *c.creds.cred, true
}

// Refresh exchanges the stored credential for a new token and installs it.
func (c *Client) Refresh(ctx context.Context) error {
	start := time.Now()
	if _, err := c.creds.refresh(ctx, c.post); err != nil {
		c.logger.Warn("token refresh failed", zap.Error(err))
		return err
	}
	c.logger.Info("token refreshed", zap.Duration("took", time.Since(start)))
	return nil
}

// Execute runs cmd with the current token and decodes the response with the
// command's consumer. It never re-authenticates; a stale token surfaces as
// a server error and the caller decides whether to Refresh and retry.
func Execute[T any](ctx context.Context, c *Client, cmd Command[T]) (T, error) {
	var zero T
	consumer := cmd.Consumer()
	body, err := c.call(ctx, cmd.Method(), consumer.Format(), cmd)
	if err != nil {
		return zero, err
	}
	out, err := consumer.Consume(bytes.NewReader(body))
	if err != nil {
		return zero, withMethod(err, cmd.Method())
	}
	return out, nil
}

// ExecuteMethod runs a catalog method by name with params as its fields.
func (c *Client) ExecuteMethod(ctx context.Context, method string, params map[string]any) (any, error) {
	e, ok := Lookup(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	body, err := c.call(ctx, method, e.Format, params)
	if err != nil {
		return nil, err
	}
	out, err := e.consume(bytes.NewReader(body))
	if err != nil {
		return nil, withMethod(err, method)
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, method string, format ResponseFormat, fields any) ([]byte, error) {
	tok := c.creds.snapshot()
	req, err := BuildEnvelope(method, tok.Value, fields)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	body, err := c.post(ctx, req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return nil, withMethod(err, method)
	}
	c.logger.Debug("request done",
		zap.String("method", method),
		zap.Stringer("format", format),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)))
	return body, nil
}

// post sends body and returns the full response body.
func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, bytes.NewReader(body))
	if err != nil {
		return nil, transportError("create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError("send request", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError("read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, transportError(fmt.Sprintf("http %d: %s", resp.StatusCode, string(b)), nil)
	}
	return b, nil
}
