// Package validate checks and cleans request input. Every failure is an
// *Error naming the offending field.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sadopc/dayplan/internal/planner"
)

const (
	DefaultMaxLength = 500
	MaxTags          = 10
	MaxTagLength     = 50
)

// Error is a rejected field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func fail(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

var dangerous = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)eval\(`),
	regexp.MustCompile(`(?i)expression\(`),
}

// StringOpts bounds a string field. Zero MaxLength means DefaultMaxLength.
type StringOpts struct {
	MinLength  int
	MaxLength  int
	AllowEmpty bool
}

// String trims value and checks its length and content. The length is
// counted in characters.
func String(value, field string, opts StringOpts) (string, error) {
	if opts.MaxLength == 0 {
		opts.MaxLength = DefaultMaxLength
	}
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)

	if !opts.AllowEmpty && n < opts.MinLength {
		return "", fail(field, "%s must be at least %d characters", field, opts.MinLength)
	}
	if n > opts.MaxLength {
		return "", fail(field, "%s must be at most %d characters", field, opts.MaxLength)
	}
	for _, re := range dangerous {
		if re.MatchString(value) {
			return "", fail(field, "%s contains invalid content", field)
		}
	}
	return value, nil
}

// Title validates a required title-like field of 1..500 characters.
func Title(value, field string) (string, error) {
	return String(value, field, StringOpts{MinLength: 1})
}

// OptionalText validates a free-text field that may be empty.
func OptionalText(value, field string) (string, error) {
	return String(value, field, StringOpts{AllowEmpty: true})
}

// UUID checks for the canonical 36-character form and returns it lowercased.
func UUID(value, field string) (string, error) {
	if len(value) != 36 {
		return "", fail(field, "%s is not a valid UUID", field)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return "", fail(field, "%s is not a valid UUID", field)
	}
	return id.String(), nil
}

func Priority(value string) (planner.Priority, error) {
	p := planner.Priority(value)
	if !p.Valid() {
		return "", fail("priority", "Priority must be one of: %s", joinValues(planner.Priorities))
	}
	return p, nil
}

func Color(value string) (planner.Color, error) {
	c := planner.Color(value)
	if !c.Valid() {
		return "", fail("color", "Color must be one of: %s", joinValues(planner.Colors))
	}
	return c, nil
}

// Tags validates a list of at most MaxTags items of 1..MaxTagLength
// characters each.
func Tags(values []string, field string) ([]string, error) {
	if len(values) > MaxTags {
		return nil, fail(field, "%s cannot have more than %d items", field, MaxTags)
	}
	out := make([]string, 0, len(values))
	for i, v := range values {
		clean, err := String(v, fmt.Sprintf("%s[%d]", field, i), StringOpts{MinLength: 1, MaxLength: MaxTagLength})
		if err != nil {
			return nil, err
		}
		out = append(out, clean)
	}
	return out, nil
}

// Int checks value against optional inclusive bounds.
func Int(value int, field string, lo, hi *int) (int, error) {
	if lo != nil && value < *lo {
		return 0, fail(field, "%s must be at least %d", field, *lo)
	}
	if hi != nil && value > *hi {
		return 0, fail(field, "%s must be at most %d", field, *hi)
	}
	return value, nil
}

// ParseInt parses raw as a decimal integer within optional inclusive
// bounds. An empty raw yields def unchecked.
func ParseInt(raw, field string, def int, lo, hi *int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fail(field, "%s must be an integer", field)
	}
	return Int(n, field, lo, hi)
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
