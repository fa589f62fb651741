package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// RefreshTokenGrant exchanges an OAuth2 refresh token for a new access token.
//
// The token response's extra fields "instance_url" and "id" are mapped into
// the returned Credentials when present.
type RefreshTokenGrant struct {
	// TokenURL is the OAuth2 token endpoint (e.g., "https://login.example.com/services/oauth2/token").
	TokenURL string

	// ClientID is the OAuth2 client identifier the refresh token was issued to.
	ClientID string

	// ClientSecret is optional; public clients leave it empty.
	ClientSecret string

	// RefreshToken is the long-lived secret exchanged for access tokens.
	RefreshToken string
}

// Exchange implements Grant using the refresh token flow.
// The HTTP client can be overridden through the oauth2.HTTPClient context
// value, which Manager sets when configured with WithHTTPClient.
func (g *RefreshTokenGrant) Exchange(ctx context.Context) (Credentials, time.Time, error) {
	if g.TokenURL == "" {
		return Credentials{}, time.Time{}, errors.New("credentials: token URL is required")
	}
	if g.RefreshToken == "" {
		return Credentials{}, time.Time{}, errors.New("credentials: refresh token is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	conf := &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: g.TokenURL},
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: g.RefreshToken}).Token()
	if err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: refresh token exchange failed: %w", err)
	}

	creds := Credentials{AccessToken: token.AccessToken}
	if v, ok := token.Extra("instance_url").(string); ok {
		creds.InstanceURL = v
	}
	if v, ok := token.Extra("id").(string); ok {
		creds.IdentityURL = v
	}

	return creds, token.Expiry, nil
}
