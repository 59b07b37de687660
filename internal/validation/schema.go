package validation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Type string

const (
	String  Type = "string"
	Number  Type = "number"
	Integer Type = "integer"
	Boolean Type = "boolean"
)

// Rule constrains a single body field. The zero Type means String.
type Rule struct {
	Type     Type
	Required bool
	// Format is a go-playground/validator tag applied to string values,
	// e.g. "email", "url", "uuid4".
	Format string
	// Min and Max bound string length in characters, or the numeric value.
	Min   *float64
	Max   *float64
	// MaxBytes bounds the UTF-8 encoded length of string values.
	MaxBytes int
	OneOf    []string
}

// Schema maps body field names to rules. Schemas are built once per route and
// only read afterwards.
type Schema map[string]Rule

// Limit is a helper for Rule.Min and Rule.Max.
func Limit(v float64) *float64 {
	return &v
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is every field failure found in one pass.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var formatMessages = map[string]string{
	"email":    "must be a valid email address",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"uuid4":    "must be a valid UUID",
	"alphanum": "must contain only letters and numbers",
}

// Validate checks body against schema without short-circuiting. It returns a
// sanitized copy of body (strings trimmed, numeric and boolean strings coerced)
// with the same keys, and the collected errors ordered by field name.
// Validating the sanitized copy again yields no errors and the same copy.
func Validate(schema Schema, body map[string]any) (map[string]any, Errors) {
	out := make(map[string]any, len(body))
	for k, v := range body {
		out[k] = v
	}

	fields := make([]string, 0, len(schema))
	for field := range schema {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var errs Errors
	for _, field := range fields {
		rule := schema[field]
		raw, present := body[field]
		if isBlank(raw) {
			if rule.Required {
				errs = append(errs, FieldError{Field: field, Message: field + " is required"})
			}
			if s, ok := raw.(string); ok && present {
				out[field] = strings.TrimSpace(s)
			}
			continue
		}

		value, fieldErrs := checkField(field, rule, raw)
		errs = append(errs, fieldErrs...)
		if len(fieldErrs) == 0 {
			out[field] = value
		}
	}

	return out, errs
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

func checkField(field string, rule Rule, raw any) (any, Errors) {
	fail := func(format string, args ...any) Errors {
		return Errors{{Field: field, Message: field + " " + fmt.Sprintf(format, args...)}}
	}

	switch rule.Type {
	case Number, Integer:
		n, ok := toFloat(raw)
		if !ok {
			if rule.Type == Integer {
				return nil, fail("must be an integer")
			}
			return nil, fail("must be a number")
		}
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
		if rule.Type == Integer && (n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64) {
			return nil, fail("must be an integer")
		}

		var errs Errors
		if rule.Min != nil && n < *rule.Min {
			errs = append(errs, fail("must be at least %s", formatLimit(*rule.Min))...)
		}
		if rule.Max != nil && n > *rule.Max {
			errs = append(errs, fail("must be at most %s", formatLimit(*rule.Max))...)
		}
		if rule.Type == Integer {
			return int64(n), errs
		}
		return n, errs

	case Boolean:
		switch t := raw.(type) {
		case bool:
			return t, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(t))
			if err != nil {
				return nil, fail("must be a boolean")
			}
			return b, nil
		default:
			return nil, fail("must be a boolean")
		}

	default:
		s, ok := raw.(string)
		if !ok {
			return nil, fail("must be a string")
		}
		s = strings.TrimSpace(s)

		var errs Errors
		if rule.Format != "" {
			if err := validate.Var(s, rule.Format); err != nil {
				msg, known := formatMessages[rule.Format]
				if !known {
					msg = "is not in a valid format"
				}
				errs = append(errs, fail("%s", msg)...)
			}
		}
		length := float64(utf8.RuneCountInString(s))
		if rule.Min != nil && length < *rule.Min {
			errs = append(errs, fail("must be at least %s characters", formatLimit(*rule.Min))...)
		}
		if rule.Max != nil && length > *rule.Max {
			errs = append(errs, fail("must be at most %s characters", formatLimit(*rule.Max))...)
		}
		if rule.MaxBytes > 0 && len(s) > rule.MaxBytes {
			errs = append(errs, fail("must be at most %d bytes", rule.MaxBytes)...)
		}
		if len(rule.OneOf) > 0 && !contains(rule.OneOf, s) {
			errs = append(errs, fail("must be one of: %s", strings.Join(rule.OneOf, ", "))...)
		}
		return s, errs
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func formatLimit(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
