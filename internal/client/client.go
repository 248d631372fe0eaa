// Package client implements the HTTP client for an ORBIT chat server. It
// supports a buffered JSON response mode and a server-sent-events
// streaming mode in which decoded units are handed to a callback as they
// arrive.
package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 60 * time.Second

// Client talks to a single ORBIT server. Configuration is fixed at
// construction; sequential calls on one instance are safe.
type Client struct {
	baseURL    string
	apiKey     string
	sessionID  string
	timeout    time.Duration
	httpClient *http.Client
}

type Option func(*Client)

// WithAPIKey attaches an API key to every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithSessionID attaches a session ID to every request so the server can
// thread conversation history.
func WithSessionID(id string) Option {
	return func(c *Client) { c.sessionID = id }
}

// WithHTTPClient overrides the underlying transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout bounds connection setup and the wait for response headers
// in both modes, and the whole exchange in buffered mode. A streaming
// body is never cut off while chunks are still arriving. Zero disables
// the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient(c.timeout)
	}
	return c, nil
}

// newHTTPClient scopes the timeout to dial, TLS, and the response-header
// wait. http.Client.Timeout stays zero: it caps the entire body read,
// which would abort a long answer that is still streaming.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	return &http.Client{Transport: transport}
}

// Chat sends a message in buffered mode and returns the complete
// response text. A body without the expected "response" field is
// returned verbatim, mirroring the streaming fallback.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, message, false)
	if err != nil {
		return "", errors.Wrap(err, "build chat request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RequestError{Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{Err: err}
	}

	var body struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Response != nil {
		return *body.Response, nil
	}
	return string(raw), nil
}

// ChatStream sends a message in streaming mode. fn is invoked on the
// calling goroutine, in arrival order, once per decoded unit. A server
// that closes the stream without a done sentinel simply ends the call;
// no terminal unit is synthesized. Units delivered before a mid-stream
// failure are not rolled back.
func (c *Client) ChatStream(ctx context.Context, message string, fn func(StreamResponse) error) error {
	req, err := c.newRequest(ctx, message, true)
	if err != nil {
		return errors.Wrap(err, "build chat request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode}
	}

	parser := &streamParser{emit: fn}
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if perr := parser.feed(buf[:n]); perr != nil {
				return perr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &RequestError{Err: err}
		}
	}
}

// SessionID returns the session ID requests are tagged with, if any.
func (c *Client) SessionID() string {
	return c.sessionID
}
