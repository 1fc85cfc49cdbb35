// Package errs defines the error kinds the service can produce and
// the HTTPError type that carries them to the HTTP boundary.
//
// Every failure path in the clustering flow returns an *HTTPError
// tagged with a Kind, so callers (and tests) branch on KindOf(err)
// instead of matching on message strings. The global error handler
// turns the error into a `{"message": ...}` body with Status.
package errs
