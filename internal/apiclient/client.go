// Package apiclient is the HTTP client the views and the CLI use to call the netprobe API.
//
// One client is built per process and shared. For every call it:
//   - adds "Authorization: Bearer <token>" when the CredentialProvider has a token
//   - returns the response body untouched on 2xx
//   - turns any other outcome into a *TransportError whose Message has been normalized and logged
//
// The client does not validate response payloads. Callers own the shape of what they decode.
package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

const (
	DefaultTimeout     = 15 * time.Second
	DefaultContentType = "application/json"
)

// ClientConfig is fixed when the client is built. There is no way to reconfigure a client;
// build a new one to target another backend.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration     // zero means DefaultTimeout
	Headers map[string]string // layered over DefaultHeaders(); a caller value wins
}

// DefaultHeaders returns the headers sent with every request. ClientConfig.Headers can override them
// but never removes them.
func DefaultHeaders() map[string]string {
	return map[string]string{"Content-Type": DefaultContentType}
}

// CredentialProvider supplies the bearer token for outgoing requests.
// It is read before every request and never written by the client.
type CredentialProvider interface {
	CurrentToken() (string, bool)
}

// CredentialProviderFunc adapts a function to CredentialProvider.
type CredentialProviderFunc func() (string, bool)

func (f CredentialProviderFunc) CurrentToken() (string, bool) {
	return f()
}

// Client handles communication with the netprobe API. It is safe for concurrent use.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	creds      CredentialProvider
	logger     *slog.Logger
	fallback   string
}

// Option customises a Client at construction.
type Option func(*Client)

// WithLogger sets the logger used for failed requests (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithLanguage sets the language of the fallback error message (default English).
func WithLanguage(tag language.Tag) Option {
	return func(c *Client) {
		c.fallback = LocalizedFallback(tag)
	}
}

// WithHTTPClient replaces the underlying http.Client. The configured timeout still applies.
// A nil hc keeps the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		clone := *hc
		c.httpClient = &clone
	}
}

// New builds a client for one backend. creds may be nil, in which case requests are sent unauthenticated.
func New(cfg ClientConfig, creds CredentialProvider, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must use http or https: %q", cfg.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL does not include a host: %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	headers := DefaultHeaders()
	for name, value := range cfg.Headers {
		headers[http.CanonicalHeaderKey(name)] = value
	}
	cfg.Headers = headers

	if creds == nil {
		creds = CredentialProviderFunc(func() (string, bool) { return "", false })
	}

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{},
		creds:      creds,
		logger:     slog.Default(),
		fallback:   FallbackMessage,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Timeout = cfg.Timeout

	return c, nil
}

// Config returns a copy of the configuration the client was built with.
func (c *Client) Config() ClientConfig {
	cfg := c.config
	cfg.Headers = maps.Clone(c.config.Headers)
	return cfg
}

// Request describes one call. Path is relative to the base URL.
// Body is marshalled to JSON; a json.RawMessage body is sent as-is.
type Request struct {
	Method string
	Path   string
	Body   any
	Header http.Header
	Query  url.Values
}

// Response is a successful reply. Body is exactly what the server sent, possibly empty.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// Send issues the request and returns the response body exactly as received.
// Every failure, including a non-2xx status, is returned as a *TransportError.
func (c *Client) Send(r Request) (json.RawMessage, error) {
	res, err := c.Do(r)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// Do is Send for callers that also need the 2xx status the server answered with.
func (c *Client) Do(r Request) (*Response, error) {
	callID := uuid.NewString()

	r.Method = strings.ToUpper(r.Method)
	if r.Method == "" {
		r.Method = http.MethodGet
	}

	req, err := c.newRequest(r)
	if err != nil {
		return nil, c.fail(r, callID, err)
	}

	c.authorize(req)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(r, callID, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.fail(r, callID, err)
	}

	if !isSuccess(res.StatusCode) {
		return nil, c.fail(r, callID, &StatusError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       body,
		})
	}

	return &Response{StatusCode: res.StatusCode, Body: json.RawMessage(body)}, nil
}

func (c *Client) Get(path string) (json.RawMessage, error) {
	return c.Send(Request{Method: http.MethodGet, Path: path})
}

func (c *Client) Post(path string, body any) (json.RawMessage, error) {
	return c.Send(Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *Client) Put(path string, body any) (json.RawMessage, error) {
	return c.Send(Request{Method: http.MethodPut, Path: path, Body: body})
}

func (c *Client) Patch(path string, body any) (json.RawMessage, error) {
	return c.Send(Request{Method: http.MethodPatch, Path: path, Body: body})
}

func (c *Client) Delete(path string) (json.RawMessage, error) {
	return c.Send(Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) newRequest(r Request) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		var data []byte
		if raw, ok := r.Body.(json.RawMessage); ok {
			data = raw
		} else {
			var err error
			data, err = json.Marshal(r.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(r.Method, c.resolve(r.Path, r.Query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for name, value := range c.config.Headers {
		req.Header.Set(name, value)
	}
	for name, values := range r.Header {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	return req, nil
}

// authorize adds the bearer token when one is available. A request without a token is sent as-is
// so the server can reject it.
func (c *Client) authorize(req *http.Request) {
	token, ok := c.creds.CurrentToken()
	if !ok || token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// resolve joins path onto the base URL ("http://h/v1" + "/users/1" = "http://h/v1/users/1").
func (c *Client) resolve(path string, query url.Values) string {
	u := strings.TrimRight(c.config.BaseURL, "/")
	if path != "" {
		u += "/" + strings.TrimLeft(path, "/")
	}

	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}

	return u
}

// fail normalizes err, logs the message and wraps the underlying failure.
func (c *Client) fail(r Request, callID string, err error) *TransportError {
	te := &TransportError{
		Message:    NormalizeMessage(err, c.fallback),
		StatusCode: statusCode(err),
		Err:        err,
	}

	var se *StatusError
	if errors.As(err, &se) {
		te.Body = se.Body
	}

	c.logger.Error("request error",
		slog.String("message", te.Message),
		slog.String("method", r.Method),
		slog.String("path", r.Path),
		slog.Int("status", te.StatusCode),
		slog.String("call_id", callID),
	)

	return te
}
