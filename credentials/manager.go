package credentials

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Logger is an interface for optional logging in Manager.
// Implementations can log refresh events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// Grant exchanges a long-lived secret for fresh Credentials at the token
// endpoint. RefreshTokenGrant and JWTBearerGrant are the two supported
// flavors.
type Grant interface {
	// Exchange performs the token request. The returned expiry is zero when
	// the endpoint does not report one.
	Exchange(ctx context.Context) (Credentials, time.Time, error)
}

// Manager is a credential Store with automatic refresh.
//
// It starts empty unless seeded with WithInitialCredentials; callers that
// want credentials before the first API call can invoke Refresh once at
// startup. Concurrent Refresh calls collapse into a single token request and
// all callers observe its result. A caller whose Refresh overlaps one that
// completes first receives that refresh's credentials without a second
// exchange, so a burst of unauthorized responses across concurrent requests
// triggers one exchange, not many. A Refresh that arrives with no other
// refresh in flight always exchanges: the caller saw the held credentials
// rejected, so handing them back would loop the rejection.
//
// Manager is safe for concurrent use.
type Manager struct {
	grant      Grant
	httpClient *http.Client
	logger     Logger

	group singleflight.Group

	mu         sync.RWMutex
	creds      Credentials
	has        bool
	generation uint64
}

// Option is a functional option for configuring Manager.
type Option func(*Manager)

// WithLogger sets a custom logger for refresh events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
// This is a convenience option that sets the logger to log.Default().
func WithLoggingEnabled() Option {
	return func(m *Manager) {
		m.logger = log.Default()
	}
}

// WithHTTPClient routes token requests through the given client instead of
// http.DefaultClient. Useful for custom TLS configuration or tests.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// WithInitialCredentials seeds the manager with credentials obtained out of
// band, for example from a completed interactive login. Seeded credentials
// carry no presumption of validity: the first Refresh always exchanges.
func WithInitialCredentials(creds Credentials) Option {
	return func(m *Manager) {
		m.creds = creds
		m.has = creds.AccessToken != ""
	}
}

// NewManager creates a credential manager that refreshes through the given
// grant.
func NewManager(grant Grant, opts ...Option) *Manager {
	m := &Manager{grant: grant}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Current returns the held credentials without blocking. Expiry is not
// consulted here: a token past its expiry is still returned and the server's
// unauthorized response drives the refresh, which keeps the decision at one
// place.
func (m *Manager) Current() (Credentials, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.has {
		return Credentials{}, false
	}
	return m.creds, true
}

// Refresh obtains fresh credentials through the grant and stores them.
//
// Concurrent callers share a single token request. A caller that entered
// Refresh before another refresh completed receives that refresh's
// credentials directly; otherwise the grant is exchanged, even when the held
// credentials report an unexpired lifetime, because the caller observed them
// being rejected (revocation does not wait for expiry).
//
// The token exchange itself is detached from the initiating caller's
// cancellation so one caller backing out cannot fail every collapsed waiter.
func (m *Manager) Refresh(ctx context.Context) (Credentials, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	entered := m.currentGeneration()

	v, err, _ := m.group.Do("refresh", func() (any, error) {
		// A refresh that completed while this caller was on its way here
		// already replaced the credentials the caller saw rejected.
		if creds, ok := m.refreshedSince(entered); ok {
			return creds, nil
		}

		creds, expiry, err := m.grant.Exchange(m.exchangeContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("credentials: refresh failed: %w", err)
		}

		m.mu.Lock()
		m.creds = creds
		m.has = true
		m.generation++
		m.mu.Unlock()

		if m.logger != nil {
			if expiry.IsZero() {
				m.logger.Printf("credentials: obtained new access token")
			} else {
				m.logger.Printf("credentials: obtained new access token (expires: %s)", expiry.Format(time.RFC3339))
			}
		}

		return creds, nil
	})
	if err != nil {
		return Credentials{}, err
	}

	return v.(Credentials), nil
}

// currentGeneration snapshots how many refreshes have completed so far.
func (m *Manager) currentGeneration() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// refreshedSince reports whether a refresh completed after the given
// generation snapshot, returning the credentials it produced. Seeded or
// stale credentials never satisfy it, no matter their reported expiry.
func (m *Manager) refreshedSince(entered uint64) (Credentials, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.generation == entered {
		return Credentials{}, false
	}
	return m.creds, true
}

// exchangeContext derives the context token exchanges run on.
// Keep token requests independent from caller cancellations while preserving
// values, so the oauth2.HTTPClient override survives the detachment.
func (m *Manager) exchangeContext(ctx context.Context) context.Context {
	ctx = context.WithoutCancel(ctx)
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}
