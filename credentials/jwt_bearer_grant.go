package credentials

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const (
	jwtBearerGrantType  = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	defaultAssertionTTL = 3 * time.Minute

	// Token endpoints return small JSON documents; cap reads defensively.
	maxTokenResponseBytes = 1 << 20
)

// JWTBearerGrant obtains access tokens through the JWT bearer assertion flow.
//
// It fits server-to-server integrations where no refresh token exists: the
// client signs a short-lived RS256 assertion with a pre-registered private
// key and exchanges it at the token endpoint.
type JWTBearerGrant struct {
	// TokenURL is the OAuth2 token endpoint.
	TokenURL string

	// ClientID is the assertion issuer (iss claim).
	ClientID string

	// Subject is the user the access token is requested for (sub claim).
	Subject string

	// Audience is the authorization server the assertion is addressed to
	// (aud claim), typically the login host.
	Audience string

	// PrivateKey signs the assertion. Its public half must be registered
	// with the authorization server.
	PrivateKey *rsa.PrivateKey

	// AssertionTTL bounds the assertion lifetime. Default is 3 minutes.
	AssertionTTL time.Duration
}

// tokenResponse is the token endpoint's JSON payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	InstanceURL string `json:"instance_url"`
	ID          string `json:"id"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Exchange implements Grant using the JWT bearer assertion flow.
// The HTTP client can be overridden through the oauth2.HTTPClient context
// value, which Manager sets when configured with WithHTTPClient.
func (g *JWTBearerGrant) Exchange(ctx context.Context) (Credentials, time.Time, error) {
	if g.TokenURL == "" {
		return Credentials{}, time.Time{}, errors.New("credentials: token URL is required")
	}
	if g.ClientID == "" {
		return Credentials{}, time.Time{}, errors.New("credentials: client ID is required")
	}
	if g.Subject == "" {
		return Credentials{}, time.Time{}, errors.New("credentials: subject is required")
	}
	if g.Audience == "" {
		return Credentials{}, time.Time{}, errors.New("credentials: audience is required")
	}
	if g.PrivateKey == nil {
		return Credentials{}, time.Time{}, errors.New("credentials: private key is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	assertion, err := g.signAssertion(time.Now())
	if err != nil {
		return Credentials{}, time.Time{}, err
	}

	form := url.Values{
		"grant_type": {jwtBearerGrantType},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: cannot create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClientFromContext(ctx).Do(req)
	if err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: cannot read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: token endpoint returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Credentials{}, time.Time{}, fmt.Errorf("credentials: cannot parse token response: %w", err)
	}
	if tr.AccessToken == "" {
		return Credentials{}, time.Time{}, errors.New("credentials: token response is missing access_token")
	}

	creds := Credentials{
		AccessToken: tr.AccessToken,
		InstanceURL: tr.InstanceURL,
		IdentityURL: tr.ID,
	}

	var expiry time.Time
	if tr.ExpiresIn > 0 {
		expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	return creds, expiry, nil
}

// signAssertion builds and signs the RS256 bearer assertion.
func (g *JWTBearerGrant) signAssertion(now time.Time) (string, error) {
	ttl := g.AssertionTTL
	if ttl <= 0 {
		ttl = defaultAssertionTTL
	}

	claims := jwt.RegisteredClaims{
		Issuer:    g.ClientID,
		Subject:   g.Subject,
		Audience:  jwt.ClaimStrings{g.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(g.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("credentials: cannot sign assertion: %w", err)
	}

	return signed, nil
}

// httpClientFromContext honors the oauth2 package's client override so both
// grant flavors route token requests the same way.
func httpClientFromContext(ctx context.Context) *http.Client {
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && c != nil {
		return c
	}
	return http.DefaultClient
}
