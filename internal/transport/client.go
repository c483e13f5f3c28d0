// Package transport performs the HTTPS GET requests against GitHub.
//
// Every request carries a User-Agent (the GitHub API rejects requests
// without one) and, when configured, a bearer token. A proxy taken from the
// environment is used unless the request's host is excluded by no_proxy.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent when none is configured
	DefaultUserAgent = "protoc-prebuilt"
	// maxRedirects bounds the release download redirect chain
	maxRedirects = 10
)

// Options configures a Client.
type Options struct {
	UserAgent string
	Token     string

	// UseProxy enables Proxy for hosts not listed in NoProxy.
	UseProxy bool
	Proxy    string
	NoProxy  string

	Timeout time.Duration
}

// Response is the status and body of a completed request. The caller must
// close Body.
type Response struct {
	StatusCode    int
	ContentLength int64
	Body          io.ReadCloser
}

// Client performs GET requests.
type Client struct {
	client    *http.Client
	userAgent string
	token     string
}

// New creates a Client. An unparsable proxy value is a transport error.
func New(opts Options) (*Client, error) {
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.Proxy = nil

	if opts.UseProxy && opts.Proxy != "" {
		selector, err := newProxySelector(opts.Proxy, opts.NoProxy)
		if err != nil {
			return nil, protoc.ErrTransport.Wrap(err)
		}
		base.Proxy = selector.proxy
	}

	return &Client{
		client: &http.Client{
			Timeout:   timeout,
			Transport: base,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		token:     opts.Token,
	}, nil
}

// Fetch performs a GET request. Any status code is a successful Fetch; only
// failing to obtain a response is an ErrTransport error.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, protoc.ErrTransport.Wrap(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		// net/http drops Authorization when a redirect leaves the host
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, protoc.ErrTransport.Wrap(fmt.Errorf("execute request: %w", err))
	}

	return &Response{
		StatusCode:    resp.StatusCode,
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}
