package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/AmmannChristian/go-restx/credentials"
)

// Logger is an interface for optional logging in Client.
// Implementations can log retry events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

const (
	defaultTimeout                 = 30 * time.Second
	defaultResponseBodyLimit int64 = 10 << 20 // 10 MiB
)

// Client executes authenticated REST operations with a single transparent
// refresh-and-retry on authentication failures.
//
// A Client is immutable after construction and safe for concurrent use; it
// holds no per-request state. Serializing concurrent credential refreshes is
// the store's contract, see credentials.Store.
type Client struct {
	store      credentials.Store
	httpClient *http.Client
	userAgent  string
	bodyLimit  int64
	logger     Logger
}

// NewClient is a convenience function that creates a Client with default
// transport settings (30s timeout, TLS 1.2+). For TLS, timeout, and transport
// configuration use Builder instead.
func NewClient(store credentials.Store) *Client {
	return &Client{
		store:      store,
		httpClient: &http.Client{Timeout: defaultTimeout},
		bodyLimit:  defaultResponseBodyLimit,
	}
}

// Execute runs one logical operation through the pipeline:
//
//  1. Read the current credentials. When the store holds none, fail with
//     ErrAuthenticationRequired without touching the network.
//  2. Build a request from the credentials and send it.
//  3. Classify the response. An authentication failure triggers exactly one
//     credential refresh followed by one replay built against the refreshed
//     credentials; a second authentication failure is terminal, as is a
//     failed refresh. Every other failure is terminal immediately.
//  4. Decode the success payload into T.
//
// Cancelling ctx aborts the in-flight HTTP request. Execute blocks until the
// result is ready; run it in its own goroutine to overlap operations.
func Execute[T any](ctx context.Context, c *Client, build RequestBuilder, decode Decoder[T]) (T, error) {
	var zero T

	if ctx == nil {
		ctx = context.Background()
	}
	if c == nil || c.store == nil {
		return zero, errors.New("restclient: client has no credential store")
	}
	if build == nil || decode == nil {
		return zero, errors.New("restclient: request builder and decoder are required")
	}

	creds, ok := c.store.Current()
	if !ok {
		return zero, ErrAuthenticationRequired
	}

	payload, err := c.attempt(ctx, creds, build)
	if errors.Is(err, ErrAuthenticationRequired) {
		payload, err = c.retryAfterRefresh(ctx, build)
	}
	if err != nil {
		return zero, err
	}

	value, err := decode(payload)
	if err != nil {
		var deser *DeserializationError
		if errors.As(err, &deser) {
			return zero, err
		}
		return zero, &DeserializationError{Payload: payload, Err: err}
	}

	return value, nil
}

// retryAfterRefresh is the second pipeline state: refresh once, replay once.
// An authentication failure on the replay surfaces as-is with no further
// refresh.
func (c *Client) retryAfterRefresh(ctx context.Context, build RequestBuilder) (json.RawMessage, error) {
	if c.logger != nil {
		c.logger.Printf("restclient: unauthorized response, refreshing credentials and retrying once")
	}

	creds, err := c.store.Refresh(ctx)
	if err != nil {
		return nil, &RefreshError{Err: err}
	}

	return c.attempt(ctx, creds, build)
}

// attempt performs one build-send-classify cycle.
func (c *Client) attempt(ctx context.Context, creds credentials.Credentials, build RequestBuilder) (json.RawMessage, error) {
	desc, err := build(creds)
	if err != nil {
		return nil, &RequestConstructionError{Err: err}
	}

	var bodyReader io.Reader
	if len(desc.Body) > 0 {
		bodyReader = bytes.NewReader(desc.Body)
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, desc.URL, bodyReader)
	if err != nil {
		return nil, &RequestConstructionError{Err: err}
	}
	for key, value := range desc.Header {
		req.Header.Set(key, value)
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	limit := c.bodyLimit
	if limit <= 0 {
		limit = defaultResponseBodyLimit
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	return classify(resp.StatusCode, body)
}
