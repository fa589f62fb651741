// Package testutil provides test helpers for go-restx packages.
//
// It includes utilities to spin up IPv4-only local HTTP servers (avoiding
// IPv6 in sandboxes), simulate OAuth2 token endpoints with request counting,
// build in-memory JSON responses for RoundTripper stubs, and generate RSA key
// pairs, JWKS servers, and signed ID tokens for verification tests.
//
// # Utilities
//
//   - NewLocalHTTPServer: start httptest server bound to 127.0.0.1
//   - TokenServer: stub OAuth2 token endpoints and count requests
//   - RoundTripFunc and JSONResponse: inline http.RoundTripper implementations
//   - GenerateTestKeyPair / CreateJWKSServer / SignIDToken: JWT test fixtures
//
// These helpers are designed for tests; servers are closed via tb.Cleanup.
package testutil
