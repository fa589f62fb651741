// Package credentials manages the bearer tokens and instance endpoints used
// by the restclient pipeline.
//
// The Store interface separates "read the current credentials" (synchronous,
// non-blocking) from "exchange a long-lived secret for new ones"
// (asynchronous, context-aware). Manager is the production store: it refreshes
// through a pluggable Grant (refresh token flow or JWT bearer assertion flow),
// collapses concurrent refreshes into a single token request, and hands every
// waiter the same result. StaticStore serves fixed tokens for tests and
// scripts.
//
// # Features
//
//   - Refresh token and JWT bearer assertion grants against any OAuth2 token endpoint
//   - At-most-one in-flight refresh with all callers observing its result
//   - A refresh overlapping one that completes first reuses its outcome
//   - Token exchanges detached from the initiating caller's cancellation
//   - Optional ID token verification against the issuer's JWKS (VerifyIDToken)
//   - Optional logging (WithLogger, WithLoggingEnabled)
//
// # Quick Start
//
//	grant := &credentials.RefreshTokenGrant{
//	    TokenURL:     "https://login.example.com/services/oauth2/token",
//	    ClientID:     "client-id",
//	    RefreshToken: "refresh-token",
//	}
//
//	store := credentials.NewManager(grant, credentials.WithLoggingEnabled())
//
//	// Obtain the first access token before issuing API calls.
//	if _, err := store.Refresh(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	client := restclient.NewClient(store)
//
// # Notes
//
//   - Current never blocks and never refreshes; an expired token is still
//     returned and the server's unauthorized response drives the refresh.
//   - Manager is safe for concurrent use.
package credentials
