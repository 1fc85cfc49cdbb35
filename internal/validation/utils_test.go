package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/kwcluster/internal/errs"
)

type samplePayload struct {
	Name string `json:"name" validate:"required"`
}

func (p *samplePayload) Validate() error {
	return Struct(p)
}

type customPayload struct {
	Name string `json:"name"`
}

func (p *customPayload) Validate() error {
	if p.Name == "" {
		return errs.NewBadRequestError("name please")
	}
	return nil
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate(t *testing.T) {
	payload := &samplePayload{}

	require.NoError(t, BindAndValidate(newContext(`{"name":"ok"}`), payload))
	assert.Equal(t, "ok", payload.Name)
}

func TestBindAndValidateMissingField(t *testing.T) {
	err := BindAndValidate(newContext(`{"other":"x"}`), &samplePayload{})

	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
	assert.Equal(t, errs.MessageRequiredFields, err.Error())
}

func TestBindAndValidateEmptyBody(t *testing.T) {
	err := BindAndValidate(newContext(``), &samplePayload{})

	require.Error(t, err)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
	assert.Equal(t, "unexpected end of JSON input", err.Error())
}

func TestBindAndValidateWrongShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"array body", `[]`},
		{"non-string field", `{"name":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BindAndValidate(newContext(tt.body), &samplePayload{})

			require.Error(t, err)
			assert.Equal(t, errs.KindInternal, errs.KindOf(err))
		})
	}
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":`), &samplePayload{})

	require.Error(t, err)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
}

func TestBindAndValidateSyntaxErrorMessage(t *testing.T) {
	err := BindAndValidate(newContext(`not json`), &samplePayload{})

	require.Error(t, err)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
	assert.True(t, strings.HasPrefix(err.Error(), "Syntax error"), err.Error())
}

func TestBindAndValidateKeepsCustomHTTPError(t *testing.T) {
	err := BindAndValidate(newContext(`{}`), &customPayload{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "name please", httpErr.Message)
}
