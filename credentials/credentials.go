package credentials

import (
	"context"
	"errors"
)

// Credentials is an immutable snapshot of the secrets needed to call the API.
//
// AccessToken is the bearer token presented on every request. InstanceURL is
// the API host assigned to the authenticated principal; request builders
// resolve relative paths against it. IdentityURL optionally points at the
// identity record of the authenticated user.
type Credentials struct {
	AccessToken string
	InstanceURL string
	IdentityURL string
}

// Store supplies credentials to the request pipeline.
//
// Current is a synchronous, non-blocking read of whatever the store holds.
// Refresh exchanges a long-lived secret for fresh credentials; it blocks on
// the network and honors the context for cancellation.
//
// A Store shared between concurrent pipeline invocations must guarantee at
// most one in-flight refresh, with every waiting caller observing its result.
// Manager implements this; custom stores must as well.
type Store interface {
	Current() (Credentials, bool)
	Refresh(ctx context.Context) (Credentials, error)
}

// ErrRefreshUnavailable is returned by stores that hold fixed credentials and
// have no way of obtaining new ones.
var ErrRefreshUnavailable = errors.New("credentials: store cannot refresh credentials")

// StaticStore holds fixed credentials. It is useful for tests and short-lived
// scripts where the token is provisioned out of band; Refresh always fails
// with ErrRefreshUnavailable.
type StaticStore struct {
	creds Credentials
}

// NewStaticStore creates a StaticStore holding the given credentials.
func NewStaticStore(creds Credentials) *StaticStore {
	return &StaticStore{creds: creds}
}

// Current returns the stored credentials. Credentials without an access token
// are reported as absent.
func (s *StaticStore) Current() (Credentials, bool) {
	if s == nil || s.creds.AccessToken == "" {
		return Credentials{}, false
	}
	return s.creds, true
}

// Refresh fails with ErrRefreshUnavailable; a StaticStore has no refresh
// secret to exchange.
func (s *StaticStore) Refresh(_ context.Context) (Credentials, error) {
	return Credentials{}, ErrRefreshUnavailable
}
