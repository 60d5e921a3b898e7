// internal/form/validate.go
//
// Harmony – Forms subsystem: client-side validation.
//
// Context
//   Validate is the pure interpreter behind every form.  Given a compiled
//   Schema and the raw field values it returns either the coerced value
//   bundle or a map of field → message.  It performs no I/O and keeps no
//   state, so identical inputs always produce identical results.
//
// Workflow
//   •  Coerce: missing fields become "", unknown keys are dropped, and text
//      or email fields are trimmed.
//   •  Per-field rules run in declared order.  The first failure per field is
//      recorded and the field's remaining rules are skipped.
//   •  Cross rules run after every field.  A failure overwrites (or adds) the
//      message on its target field.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"strings"
)

// Values maps field names to raw or coerced string values.
type Values map[string]string

// Result is Valid with Values, or Invalid with Errors.  Exactly one of the
// two maps is non-nil.
type Result struct {
	Values Values
	Errors map[string]string
}

// Valid reports whether validation passed.
func (r Result) Valid() bool { return r.Errors == nil }

// Err returns nil for a valid result and a ValidationError otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return ValidationError{Fields: r.Errors}
}

// -----------------------------------------------------------------------------
// Error type
// -----------------------------------------------------------------------------

// ValidationError carries field-level messages as an error value so callers
// can tell user input errors from system failures via errors.As.
type ValidationError struct{ Fields map[string]string }

func (ve ValidationError) Error() string { return "form validation failed" }

// IsValidationError reports whether err came from a failed Validate.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// Validate checks values against s.
func Validate(s *Schema, values Values) Result {
	clean := coerce(s, values)
	errs := make(map[string]string)

	for _, f := range s.Fields {
		v := clean[f.Name]
		for _, r := range f.Rules {
			if !r.Check(v) {
				errs[f.Name] = r.Message
				break
			}
		}
	}

	for _, cr := range s.CrossRules {
		if !cr.Check(clean) {
			errs[cr.Target] = cr.Message
		}
	}

	if len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{Values: clean}
}

// coerce builds a fresh bundle holding exactly the schema's fields.
func coerce(s *Schema, values Values) Values {
	out := make(Values, len(s.Fields))
	for _, f := range s.Fields {
		v := values[f.Name]
		if f.Trim {
			v = strings.TrimSpace(v)
		}
		out[f.Name] = v
	}
	return out
}
