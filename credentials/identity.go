package credentials

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Identity describes the principal behind a verified ID token.
type Identity struct {
	Subject string // subject (sub) - user identifier
	Email   string // email - optional user email
}

// VerifyIDToken verifies the ID token returned alongside an access token
// against the issuer's JWKS endpoint and extracts the identity it asserts.
//
// This method:
// - Fetches the signing keys from jwksURL
// - Parses and validates the token signature and expiry
// - Extracts the subject and optional email claims
//
// Parameters:
//   - ctx: Context for the JWKS fetch
//   - jwksURL: URL to the JWKS endpoint (e.g., "https://login.example.com/id/keys")
//   - idToken: Raw ID token string from the token response
//   - httpClient: HTTP client for fetching JWKS (optional, uses http.DefaultClient if nil)
//
// Returns:
//   - Identity: The verified identity if validation succeeds
//   - error: Error if the JWKS fetch or token validation fails
func VerifyIDToken(ctx context.Context, jwksURL, idToken string, httpClient *http.Client) (Identity, error) {
	if jwksURL == "" {
		return Identity{}, errors.New("credentials: JWKS URL is required")
	}
	if idToken == "" {
		return Identity{}, errors.New("credentials: ID token is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if ctx == nil {
		ctx = context.Background()
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:            ctx,
		Client:         httpClient,
		RefreshTimeout: 10 * time.Second,
	})
	if err != nil {
		return Identity{}, fmt.Errorf("credentials: failed to fetch JWKS: %w", err)
	}
	defer jwks.EndBackground()

	token, err := jwt.Parse(idToken, jwks.Keyfunc, jwt.WithValidMethods([]string{
		jwt.SigningMethodRS256.Name,
		jwt.SigningMethodRS384.Name,
		jwt.SigningMethodRS512.Name,
	}))
	if err != nil {
		return Identity{}, fmt.Errorf("credentials: ID token validation failed: %w", err)
	}
	if !token.Valid {
		return Identity{}, errors.New("credentials: ID token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("credentials: unexpected ID token claims format")
	}

	var identity Identity
	if sub, ok := claims["sub"].(string); ok {
		identity.Subject = sub
	}
	if identity.Subject == "" {
		return Identity{}, errors.New("credentials: ID token has no subject")
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}

	return identity, nil
}
