// Package validation contains the logic for binding and validating
// request data.
//
// It uses the `validator` library to enforce rules defined in struct
// tags. Any validation failure is reported to the client as the fixed
// required-fields message; the validator detail only goes to the logs.
package validation
