// internal/form/submit.go
//
// Forms subsystem: consolidated Submit helper.
//
// Context
//   Most handlers want one call that: parses the POST body, validates
//   input, executes configured actions, and returns the clean map or a
//   validation error.  HandleSubmit provides that convenience so component
//   code stays terse.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/http"
	"time"
)

// HandleSubmit parses r, validates against formID, executes default
// actions, and returns the sanitized data.  On validation failure it
// returns a validation error (check with IsValidationError, unpack with
// FieldErrors).  On unexpected system failures it returns a generic error.
func HandleSubmit(formID string, r *http.Request) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	clean, errs := ValidateForm(formID, r.PostForm)
	if len(errs) > 0 {
		return nil, validationError{Fields: errs}
	}

	ExecuteActions(formID, clean, ActionCtx{Ctx: r.Context()})
	return clean, nil
}

// Meta returns the hidden-field values every form template embeds: the
// CSRF token and the render timestamp (microseconds).  A token-generation
// failure yields an empty token; verification then fails closed and the
// user is told to refresh.
func Meta() (csrf string, renderTS int64) {
	tok, err := GenerateToken()
	if err != nil {
		tok = ""
	}
	return tok, time.Now().UnixMicro()
}

// IsValidationError reports whether err came from failed ValidateForm.
func IsValidationError(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

// FieldErrors unpacks the per-field failures from a validation error.  The
// map is keyed by field name; the empty key holds form-level messages.
// Returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var ve validationError
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve.Fields))
	for _, f := range ve.Fields {
		if _, dup := out[f.Name]; !dup {
			out[f.Name] = f.Message // first message per field wins
		}
	}
	return out
}
