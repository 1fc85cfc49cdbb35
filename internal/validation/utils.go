package validation

import (
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/kwcluster/internal/errs"
)

// errEmptyBody matches what encoding/json reports for empty input.
var errEmptyBody = errors.New("unexpected end of JSON input")

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - Define a request struct with validator tags (`validate:"required"`)
//   - Implement Validate() error that calls validation.Struct(req)
type Validatable interface {
	Validate() error
}

// Struct runs the tag based validator on v.
func Struct(v interface{}) error {
	return validate.Struct(v)
}

// BindAndValidate decodes the JSON request body into payload and validates it.
//
// The body is decoded regardless of the Content-Type header. A body
// that is not valid JSON for payload, an empty one included, is an
// InternalError carrying the decoder message. Validation failures
// become the 400 InvalidInput error.
//
// payload must be a pointer.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Echo().JSONSerializer.Deserialize(c, payload); err != nil {
		return errs.NewInternalServerError(bindError(err))
	}

	if err := payload.Validate(); err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return errs.ValidationError(err)
	}

	return nil
}

// bindError turns echo's decoding error into a plain error whose message
// is echo's description of the problem.
func bindError(err error) error {
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok {
			return errors.New(msg)
		}
	}
	return err
}
