// Package api implements the HTTP client for the assistant service.
package api

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apierrors "github.com/diogo/supportchat/internal/errors"
	"github.com/diogo/supportchat/internal/models"
)

// HTTPDoer is the part of tls_client.HttpClient the client relies on
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// cookieStore is implemented by HTTP clients that carry a cookie jar
type cookieStore interface {
	GetCookies(u *url.URL) []*http.Cookie
	SetCookies(u *url.URL, cookies []*http.Cookie)
}

// idleCloser is implemented by HTTP clients holding pooled connections
type idleCloser interface {
	CloseIdleConnections()
}

// ClientInterface defines the operations the chat needs from the service
type ClientInterface interface {
	Ask(ctx context.Context, question string) (models.Reply, error)
	SessionStatus(ctx context.Context) (*models.SessionStatus, error)
	BaseURL() string
	Close()
}

// Client talks to the assistant service. The session cookie set by the
// service is kept in the transport's cookie jar and sent on every call.
type Client struct {
	httpClient HTTPDoer
	baseURL    *url.URL
	askPath    string
	statusPath string
	timeout    time.Duration
	seed       []*http.Cookie
	requestID  func() string
	logger     zerolog.Logger
	mu         sync.RWMutex
	closed     bool
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the default TLS client
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithAskPath sets the path of the question endpoint
func WithAskPath(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.askPath = path
		}
	}
}

// WithStatusPath sets the path of the session-status endpoint
func WithStatusPath(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.statusPath = path
		}
	}
}

// WithTimeout sets a request timeout. Zero means no client-side timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithCookies seeds the cookie jar, e.g. with a session imported from a browser
func WithCookies(cookies []*http.Cookie) ClientOption {
	return func(c *Client) {
		c.seed = append(c.seed, cookies...)
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestIDFunc overrides how request ids are generated
func WithRequestIDFunc(fn func() string) ClientOption {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, apierrors.ErrNoBaseURL
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}

	client := &Client{
		baseURL:    u,
		askPath:    models.DefaultAskPath,
		statusPath: models.DefaultStatusPath,
		requestID:  uuid.NewString,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		httpClient, err := newTLSClient(client.timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	if len(client.seed) > 0 {
		if store, ok := client.httpClient.(cookieStore); ok {
			store.SetCookies(client.baseURL, client.seed)
			client.logger.Debug().Int("count", len(client.seed)).Msg("seeded session cookies")
		}
	}

	return client, nil
}

// newTLSClient creates the default transport with a browser profile and a cookie jar
func newTLSClient(timeout time.Duration) (tls_client.HttpClient, error) {
	// zero disables the client-side timeout entirely
	seconds := 0
	if timeout > 0 {
		seconds = int(math.Ceil(timeout.Seconds()))
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithCookieJar(tls_client.NewCookieJar()),
		tls_client.WithTimeoutSeconds(seconds),
	}

	return tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
}

// BaseURL returns the service base address
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// endpoint resolves path against the base URL
func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

// Cookies returns the cookies the jar holds for the service
func (c *Client) Cookies() []*http.Cookie {
	if store, ok := c.httpClient.(cookieStore); ok {
		return store.GetCookies(c.baseURL)
	}
	return nil
}

// Close shuts down the client
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if ic, ok := c.httpClient.(idleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
