// Package api implements the REST client for the admin backend.
//
// The Client interface is the single seam between the application services
// and the wire: services depend on the interface, tests substitute fakes,
// and HTTPClient is the production implementation over net/http.
//
// Authenticated calls read the current access token from a TokenSource at
// send time and attach it as a bearer credential. A 401 response triggers
// exactly one token refresh through the configured TokenRefresher followed
// by a single retry; if the refresh fails the call surfaces
// common.ErrUnauthorized and the caller decides whether to force logout.
package api
