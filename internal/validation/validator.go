package validation

import (
	"math"
	"strings"
)

// FieldError is a single rule violation, reported with the dot-path of the
// offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// predicate reports whether a field value satisfies a rule. The full payload
// is passed alongside the value so cross-field rules can resolve siblings.
// Predicates return true for values of a foreign type; the type rule for the
// field is the one that reports those.
type predicate func(value any, payload map[string]any) bool

type rule struct {
	ok      predicate
	message string
}

type field struct {
	name            string
	required        bool
	requiredMessage string
	// trim normalizes string values before any rule runs, so length checks
	// and the required check see the value as it would be stored.
	trim  bool
	rules []rule
}

// Validator checks a decoded JSON payload against an ordered set of field
// rules. Every violation is collected; nothing short-circuits, so a single
// response carries the complete list of problems.
type Validator struct {
	fields []field
}

// Validate runs all rules in declaration order and returns the violations,
// or nil when the payload is acceptable.
func (v *Validator) Validate(payload map[string]any) []FieldError {
	var errs []FieldError
	for _, f := range v.fields {
		value, present := payload[f.name]
		if !present || value == nil {
			if f.required {
				errs = append(errs, FieldError{Field: f.name, Message: f.requiredMessage})
			}
			continue
		}
		if f.trim {
			if s, ok := value.(string); ok {
				value = strings.TrimSpace(s)
			}
		}
		// A present-but-empty string only takes the required shortcut on
		// required fields; on optional fields the rules run so an empty
		// value is reported by its length rule instead of slipping through.
		if value == "" && f.required {
			errs = append(errs, FieldError{Field: f.name, Message: f.requiredMessage})
			continue
		}
		for _, r := range f.rules {
			if !r.ok(value, payload) {
				errs = append(errs, FieldError{Field: f.name, Message: r.message})
			}
		}
	}
	return errs
}

func isString(value any, _ map[string]any) bool {
	_, ok := value.(string)
	return ok
}

func isNumber(value any, _ map[string]any) bool {
	_, ok := value.(float64)
	return ok
}

func minLen(n int) predicate {
	return func(value any, _ map[string]any) bool {
		s, ok := value.(string)
		return !ok || len(s) >= n
	}
}

func maxLen(n int) predicate {
	return func(value any, _ map[string]any) bool {
		s, ok := value.(string)
		return !ok || len(s) <= n
	}
}

func oneOf(allowed ...string) predicate {
	return func(value any, _ map[string]any) bool {
		s, ok := value.(string)
		if !ok {
			return true
		}
		for _, a := range allowed {
			if s == a {
				return true
			}
		}
		return false
	}
}

func positive(value any, _ map[string]any) bool {
	f, ok := value.(float64)
	return !ok || f > 0
}

func nonNegative(value any, _ map[string]any) bool {
	f, ok := value.(float64)
	return !ok || f >= 0
}

// atMostTwoDecimals rejects numbers with more than two fractional digits;
// values are never rounded.
func atMostTwoDecimals(value any, _ map[string]any) bool {
	f, ok := value.(float64)
	if !ok {
		return true
	}
	scaled := f * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

func integral(value any, _ map[string]any) bool {
	f, ok := value.(float64)
	return !ok || math.Trunc(f) == f
}

// lessThanField compares the value against a sibling field. The rule only
// applies when both sides are numbers; missing or mistyped siblings are
// reported by their own rules.
func lessThanField(name string) predicate {
	return func(value any, payload map[string]any) bool {
		f, ok := value.(float64)
		if !ok {
			return true
		}
		other, ok := payload[name].(float64)
		if !ok {
			return true
		}
		return f < other
	}
}
