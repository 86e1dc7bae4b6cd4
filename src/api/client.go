package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// TokenSource yields the current bearer token, ok=false when there is none.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

type Client struct {
	baseURL   string
	tokens    TokenSource
	transport http.RoundTripper
	timeout   time.Duration
}

type Option func(*Client)

// WithTransport replaces the base round tripper, useful for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		transport: &http.Transport{
			Proxy:        http.ProxyFromEnvironment,
			MaxIdleConns: 10,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do sends body as JSON to base_url+path and decodes a 2xx response into out.
// Non-2xx responses come back as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	pipeline := requestPipeline{
		parametersParser: prepareJSONBody,
		requestPrepare:   prepareJSONRequest,
		client:           c.httpClient(ctx),
		postProcess:      postProcessJSON,
	}
	return pipeline.Execute(ctx, method, c.baseURL+path, body, out)
}

func (c *Client) httpClient(ctx context.Context) *http.Client {
	transport := c.transport
	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			transport = &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
				Base:   c.transport,
			}
		}
	}
	return &http.Client{Transport: transport, Timeout: c.timeout}
}
