// internal/form/validate.go
//
// Forms subsystem: server-side validation and sanitization.
//
// Context
//   The page templates embed a CSRF token and render timestamp.  When the
//   browser posts user input, this file verifies the submission: CSRF,
//   timing, required fields (plain and conditional), type constraints,
//   regex patterns, cross-field equality, option values, and length
//   limits.  It returns a sanitized map that business logic can trust.
//
// Workflow
//   •  ValidateForm retrieves the FormDef and checks CSRF + render
//      timestamp before per-field validation.
//   •  Each field is validated and sanitized by type.  Errors are captured
//      in []ErrorField so templates can highlight exact issues.
//   •  On success a map[string]string of clean values is returned.
//   •  On failure callers wrap the []ErrorField in validationError (see
//      submit.go) and treat it as a user error, not a 500.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// Error types
// -----------------------------------------------------------------------------

// ErrorField describes a single validation failure so the template can
// render a field-level message.  An empty Name marks a form-level failure.
type ErrorField struct {
	Name    string // field name
	Message string // user-facing message
}

// validationError wraps []ErrorField and satisfies the error interface.
//
// It allows callers (HandleSubmit, component handlers) to distinguish user
// input errors from system failures via errors.As / IsValidationError.
type validationError struct{ Fields []ErrorField }

func (ve validationError) Error() string { return "form validation failed" }

// emailShape is the permissive local@domain.tld check the legacy client
// enforced; mail.ParseAddress would accept addresses without a TLD.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// ValidateForm validates posted form data (already parsed into url.Values)
// for formID.  It returns sanitized values and any field errors.  A
// non-empty error slice means UI re-render is required.
func ValidateForm(formID string, posted url.Values) (map[string]string, []ErrorField) {
	fd, ok := GetFormDef(formID)
	if !ok {
		return nil, []ErrorField{{Name: "", Message: "Unknown form."}}
	}

	var errs []ErrorField
	clean := make(map[string]string)

	// -------------------------------------------------------------------------
	// Form-level checks: CSRF + render timestamp
	// -------------------------------------------------------------------------
	if !verifyCSRF(posted.Get("csrf_token")) {
		errs = append(errs, ErrorField{"", "Security token invalid.  Please refresh and try again."})
		return nil, errs
	}
	if msg := checkTiming(posted.Get("render_ts")); msg != "" {
		errs = append(errs, ErrorField{"", msg})
		return nil, errs
	}

	// -------------------------------------------------------------------------
	// Per-field validation
	// -------------------------------------------------------------------------
	for _, f := range fd.Fields {
		raw := posted.Get(f.Name)
		val := raw
		if f.Type != "password" {
			val = strings.TrimSpace(raw) // passwords are significant byte-for-byte
		}

		if val == "" {
			if isRequired(&f, posted) {
				errs = append(errs, ErrorField{f.Name, requiredMsg(&f)})
			}
			continue // empty optional: nothing more to do.
		}

		out, perr := validateAndSanitize(&f, val, posted)
		if perr != "" {
			errs = append(errs, ErrorField{f.Name, perr})
			continue
		}
		clean[f.Name] = out
	}

	return clean, errs
}

// -----------------------------------------------------------------------------
// Form-level helpers
// -----------------------------------------------------------------------------

func verifyCSRF(token string) bool {
	return token != "" && VerifyToken(token)
}

// checkTiming ensures the form was not submitted suspiciously fast or too
// late.  Returns empty string on success, user-visible message on failure.
func checkTiming(tsRaw string) string {
	if tsRaw == "" {
		return "Timestamp missing.  Please reload the page."
	}
	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return "Bad timestamp.  Please retry."
	}
	delta := time.Since(time.UnixMicro(ts))
	switch {
	case delta < -time.Minute: // future timestamp beyond clock skew
		return "Bad timestamp.  Please retry."
	case delta > 30*time.Minute:
		return "Form expired.  Please reload and submit again."
	default:
		return ""
	}
}

// isRequired resolves plain and conditional requirement for f against the
// posted values.
func isRequired(f *FieldDef, posted url.Values) bool {
	if f.Required {
		return true
	}
	if f.RequiredIf == "" {
		return false
	}
	ref, want, err := splitCondition(f.RequiredIf)
	if err != nil {
		return false // pre-validated at load; unreachable in practice
	}
	return strings.TrimSpace(posted.Get(ref)) == want
}

// -----------------------------------------------------------------------------
// Field-level helpers
// -----------------------------------------------------------------------------

// validateAndSanitize applies type rules to a non-empty value.  The clean
// value is returned unescaped: wire payloads need the literal input, and
// html/template escapes at render time.
func validateAndSanitize(f *FieldDef, val string, posted url.Values) (string, string) {
	if msg := lengthCheck(f, val); msg != "" {
		return "", msg
	}
	if f.Pattern != "" && !regexMatch(f.Pattern, val) {
		return "", patternMsg(f)
	}
	if f.Match != "" && val != posted.Get(f.Match) {
		return "", invalidMsg(f)
	}

	switch f.Type {
	case "text", "textarea", "tel", "password":
		return val, ""

	case "email":
		if !emailShape.MatchString(val) {
			return "", invalidMsg(f)
		}
		return val, ""

	case "number":
		if _, err := strconv.ParseFloat(val, 64); err != nil {
			return "", invalidMsg(f)
		}
		return val, ""

	case "date":
		if _, err := time.Parse("2006-01-02", val); err != nil {
			return "", invalidMsg(f)
		}
		return val, ""

	case "select", "radio":
		if !optionAllowed(f.Options, val) {
			return "", invalidMsg(f)
		}
		return val, ""

	default:
		return "", fmt.Sprintf("Unsupported field type %q.", f.Type)
	}
}

// lengthCheck validates minlength / maxlength rules.
func lengthCheck(f *FieldDef, s string) string {
	n := len(s)
	if f.MinLength > 0 && n < f.MinLength {
		if f.ErrorMsg != "" {
			return f.ErrorMsg
		}
		return fmt.Sprintf("Must be at least %d characters.", f.MinLength)
	}
	if f.MaxLength > 0 && n > f.MaxLength {
		return fmt.Sprintf("Must be less than %d characters.", f.MaxLength)
	}
	return ""
}

func regexMatch(pattern, s string) bool {
	re, _ := regexp.Compile(pattern) // pattern pre-validated at load
	return re.MatchString(s)
}

func optionAllowed(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}

// user-friendly default messages
func requiredMsg(f *FieldDef) string {
	if f.RequiredError != "" {
		return f.RequiredError
	}
	return "This field is required."
}
func invalidMsg(f *FieldDef) string {
	if f.ErrorMsg != "" {
		return f.ErrorMsg
	}
	return "Invalid input."
}
func patternMsg(f *FieldDef) string {
	if f.ErrorMsg != "" {
		return f.ErrorMsg
	}
	return "Input does not match required format."
}
