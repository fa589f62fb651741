// Package restclient executes REST operations against bearer-token APIs with
// a transparent refresh-and-retry on authentication failures.
//
// Execute is the pipeline: it reads credentials from a credentials.Store,
// asks a RequestBuilder for a fully-formed request, sends it, classifies the
// response into a typed success or failure, and decodes the success payload.
// When the server answers 401 or 403, the pipeline refreshes the credentials
// through the store and replays the request exactly once; a second rejection
// surfaces as ErrAuthenticationRequired. Every other failure is terminal on
// first sight.
//
// # Features
//
//   - Generic Execute with per-operation request builders and decoders
//   - Single refresh-and-retry on authentication failures, never a loop
//   - Typed errors: APIError, ServerError, DeserializationError, TransportError, RefreshError
//   - Fluent Builder for TLS/mTLS, timeouts, redirects, and transport overrides
//   - Context cancellation aborts the in-flight request
//
// # Quick Start
//
//	store := credentials.NewManager(&credentials.RefreshTokenGrant{
//	    TokenURL:     "https://login.example.com/services/oauth2/token",
//	    ClientID:     "client-id",
//	    RefreshToken: "refresh-token",
//	})
//
//	client, err := restclient.NewBuilder(store).
//	    WithTimeout(60 * time.Second).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	name, err := restclient.Execute(ctx, client,
//	    restclient.Get("/services/data/v60.0/sobjects/Account/001xx0000003DGQAA2"),
//	    restclient.Field("Name"),
//	)
//
// # Error Handling
//
//	var apiErr *restclient.APIError
//	switch {
//	case errors.Is(err, restclient.ErrAuthenticationRequired):
//	    // prompt the user to log in again
//	case errors.As(err, &apiErr):
//	    // show apiErr.Message
//	}
//
// A Client is safe for concurrent use; run Execute in separate goroutines to
// overlap operations. The store serializes concurrent refreshes.
package restclient
