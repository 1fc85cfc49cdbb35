package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsStatusAndKind(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		err     *HTTPError
		status  int
		kind    Kind
		message string
	}{
		{"bad request", NewBadRequestError(MessageRequiredFields), http.StatusBadRequest, KindInvalidInput, "Keyword and country are required."},
		{"method not allowed", NewMethodNotAllowedError(), http.StatusMethodNotAllowed, KindMethodNotAllowed, "Method Not Allowed"},
		{"not found", NewNotFoundError("Route not found"), http.StatusNotFound, KindNotFound, "Route not found"},
		{"search", NewUpstreamSearchError(cause), http.StatusInternalServerError, KindUpstreamSearch, MessageSearchFailed},
		{"generation", NewUpstreamGenerationError(cause), http.StatusInternalServerError, KindUpstreamGeneration, MessageGenerationFailed},
		{"parse", NewClusterParseError(cause), http.StatusInternalServerError, KindClusterParse, "Failed to parse clusters from the Gemini API response: boom"},
		{"internal with cause", NewInternalServerError(cause), http.StatusInternalServerError, KindInternal, "boom"},
		{"internal without cause", NewInternalServerError(nil), http.StatusInternalServerError, KindInternal, MessageInternal},
		{"validation", ValidationError(cause), http.StatusBadRequest, KindInvalidInput, MessageRequiredFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.kind, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("clustering: %w", NewUpstreamSearchError(nil))

	assert.Equal(t, KindUpstreamSearch, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestHTTPErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamGenerationError(cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.Is(err, &HTTPError{}))
}

func TestHTTPErrorBodyOnlyCarriesMessage(t *testing.T) {
	body, err := json.Marshal(NewUpstreamSearchError(errors.New("secret detail")))
	require.NoError(t, err)

	assert.JSONEq(t, `{"message":"Failed to fetch PAA results from Serper."}`, string(body))
}

func TestWithMessage(t *testing.T) {
	base := NewBadRequestError("a")
	copied := base.WithMessage("b")

	assert.Equal(t, "a", base.Message)
	assert.Equal(t, "b", copied.Message)
	assert.Equal(t, base.Status, copied.Status)
	assert.Equal(t, base.Code, copied.Code)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "METHOD_NOT_ALLOWED", MakeUpperCaseWithUnderscores("Method Not Allowed"))
}
