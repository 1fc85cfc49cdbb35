// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request ids, request-scoped logging, CORS, tracing, method guards,
// panic recovery and the final error-to-response mapping.
package middleware
