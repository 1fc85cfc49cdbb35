package errs

import (
	"net/http"
)

const (
	// MessageRequiredFields is the 400 body message for a missing keyword or country.
	MessageRequiredFields = "Keyword and country are required."

	// MessageInternal is used when a failure carries no usable message.
	MessageInternal = "An internal server error occurred."

	// MessageSearchFailed is the message for a non-2xx search provider response.
	MessageSearchFailed = "Failed to fetch PAA results from Serper."

	// MessageGenerationFailed is the message for a non-2xx generation provider response.
	MessageGenerationFailed = "Failed to get clusters from the Gemini API."
)

// NewBadRequestError creates a 400 Bad Request HTTPError of kind InvalidInput.
func NewBadRequestError(message string) *HTTPError {
	return &HTTPError{
		Code:    KindInvalidInput,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewMethodNotAllowedError creates a 405 HTTPError.
//
// The message is the plain status text: "Method Not Allowed".
func NewMethodNotAllowedError() *HTTPError {
	return &HTTPError{
		Code:    KindMethodNotAllowed,
		Message: http.StatusText(http.StatusMethodNotAllowed),
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    KindNotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewUpstreamSearchError wraps a failed search provider call.
func NewUpstreamSearchError(cause error) *HTTPError {
	return &HTTPError{
		Code:    KindUpstreamSearch,
		Message: MessageSearchFailed,
		Status:  http.StatusInternalServerError,
		Err:     cause,
	}
}

// NewUpstreamGenerationError wraps a failed generation provider call.
func NewUpstreamGenerationError(cause error) *HTTPError {
	return &HTTPError{
		Code:    KindUpstreamGeneration,
		Message: MessageGenerationFailed,
		Status:  http.StatusInternalServerError,
		Err:     cause,
	}
}

// NewClusterParseError reports a generation reply that could not be read as clusters.
//
// The cause is part of the message, the same way a JSON parser error
// would surface to the caller.
func NewClusterParseError(cause error) *HTTPError {
	message := "Failed to parse clusters from the Gemini API response."
	if cause != nil {
		message = "Failed to parse clusters from the Gemini API response: " + cause.Error()
	}

	return &HTTPError{
		Code:    KindClusterParse,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     cause,
	}
}

// NewInternalServerError creates a 500 HTTPError of kind Internal.
//
// The message is taken from cause when it has one, otherwise the generic
// MessageInternal is used. Callers are responsible for making sure cause
// carries no credentials.
func NewInternalServerError(cause error) *HTTPError {
	message := MessageInternal
	if cause != nil && cause.Error() != "" {
		message = cause.Error()
	}

	return &HTTPError{
		Code:    KindInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     cause,
	}
}

// ValidationError converts a failed request validation into the fixed
// 400 response for missing fields.
func ValidationError(err error) *HTTPError {
	httpErr := NewBadRequestError(MessageRequiredFields)
	httpErr.Err = err

	return httpErr
}
