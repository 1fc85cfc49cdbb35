package errs

import (
	"errors"
	"strings"
)

// Kind is a machine-friendly error category.
//
// The string value doubles as the error code written to logs
// (e.g. "UPSTREAM_SEARCH_FAILURE").
type Kind string

const (
	// KindInvalidInput means the request body is missing keyword or country.
	KindInvalidInput Kind = "INVALID_INPUT"

	// KindMethodNotAllowed means the request used a method other than POST.
	KindMethodNotAllowed Kind = "METHOD_NOT_ALLOWED"

	// KindNotFound means no route matched the request path.
	KindNotFound Kind = "NOT_FOUND"

	// KindUpstreamSearch means the search provider answered with a non-2xx status.
	KindUpstreamSearch Kind = "UPSTREAM_SEARCH_FAILURE"

	// KindUpstreamGeneration means the generation provider answered with a non-2xx status.
	KindUpstreamGeneration Kind = "UPSTREAM_GENERATION_FAILURE"

	// KindClusterParse means the generation reply had an unexpected envelope
	// or its text was not valid JSON.
	KindClusterParse Kind = "CLUSTER_PARSE_FAILURE"

	// KindInternal covers everything else: transport failures, malformed
	// request JSON, recovered panics.
	KindInternal Kind = "INTERNAL_ERROR"
)

// HTTPError is the error type that reaches the HTTP boundary.
//
// Only Message is serialized; the response body is always
//
//	{ "message": "..." }
//
// Code and Status drive the status line and the log fields.
// Err keeps the underlying cause for logs and errors.Is/As.
type HTTPError struct {
	Code    Kind   `json:"-"`
	Message string `json:"message"`
	Status  int    `json:"-"`

	Err error `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
//
// It returns Message so the client-facing text is what gets logged
// as the error message; the cause is available through Unwrap.
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Is reports whether target is also an *HTTPError.
//
// It does not compare Code or Status. Use KindOf for that.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Err:     e.Err,
	}
}

// KindOf returns the Kind of the first *HTTPError in err's chain,
// or KindInternal if there is none.
func KindOf(err error) Kind {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return KindInternal
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
