package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/kbukum/engineconnector/errors"
)

// objectNamePattern is what the engine accepts for network and volume names.
var objectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// FieldError is one rejected parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects problems with operation parameters and reports them
// together as one INVALID_INPUT error. Checks other than Required skip
// empty values, so optional parameters chain without guards.
type Validator struct {
	problems []FieldError
}

// New returns an empty Validator.
func New() *Validator { return &Validator{} }

func (v *Validator) fail(field, format string, args ...any) *Validator {
	v.problems = append(v.problems, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	return v
}

// Failed reports whether any check failed.
func (v *Validator) Failed() bool { return len(v.problems) > 0 }

// Problems returns the failed checks in order.
func (v *Validator) Problems() []FieldError { return v.problems }

// Validate returns nil, or an INVALID_INPUT error listing every problem in
// its message and under the "fields" detail.
func (v *Validator) Validate() error {
	if !v.Failed() {
		return nil
	}
	parts := make([]string, len(v.problems))
	for i, p := range v.problems {
		parts[i] = p.Field + " " + p.Message
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", v.problems)
}

// Required rejects blank values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.fail(field, "is required")
	}
	return v
}

// ObjectName checks value against the engine's object naming rule.
func (v *Validator) ObjectName(field, value string) *Validator {
	if value != "" && !objectNamePattern.MatchString(value) {
		return v.fail(field, "must start with a letter or digit and contain only letters, digits, '_', '.' or '-'")
	}
	return v
}

// NoWhitespace rejects values containing spaces, tabs or newlines.
func (v *Validator) NoWhitespace(field, value string) *Validator {
	if strings.ContainsAny(value, " \t\r\n") {
		return v.fail(field, "must not contain whitespace")
	}
	return v
}

// PathSegment requires value to stay one URL path segment: no '/' and not
// "." or "..".
func (v *Validator) PathSegment(field, value string) *Validator {
	if strings.Contains(value, "/") {
		return v.fail(field, "must not contain '/'")
	}
	if value == "." || value == ".." {
		return v.fail(field, "must not be a relative path segment")
	}
	return v
}

// ImageReference accepts '/'-separated references such as
// registry.local:5000/team/app:1.0 but rejects empty, "." and ".." segments.
func (v *Validator) ImageReference(field, value string) *Validator {
	if value == "" {
		return v
	}
	for _, segment := range strings.Split(value, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return v.fail(field, "must not contain empty or relative path segments")
		}
	}
	return v
}

// OneOf restricts value to allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		return v.fail(field, "must be one of: %s", strings.Join(allowed, ", "))
	}
	return v
}

// IntRange requires an integer no smaller than lo and, when hi > lo, no
// larger than hi.
func (v *Validator) IntRange(field, value string, lo, hi int) *Validator {
	if value == "" {
		return v
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	switch {
	case err != nil:
		return v.fail(field, "must be an integer")
	case hi > lo && (n < lo || n > hi):
		return v.fail(field, "must be between %d and %d", lo, hi)
	case n < lo:
		return v.fail(field, "must be at least %d", lo)
	}
	return v
}

// Check records message for field unless ok holds.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		return v.fail(field, "%s", message)
	}
	return v
}

// IsObjectName reports whether value is a valid engine object name.
func IsObjectName(value string) bool {
	return objectNamePattern.MatchString(value)
}
