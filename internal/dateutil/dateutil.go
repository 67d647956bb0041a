// Package dateutil expands date placeholders in slide labels.
//
// A label may contain {date} or {date:FORMAT}. FORMAT uses the tokens
// YYYY, YY, MMMM, MMM, MM, M, DD, D or one of the presets iso, european,
// us, long. Text in square brackets inside FORMAT is kept literally.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date placeholder or format.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength limits a single format to prevent abuse.
const MaxFormatLength = 50

// DefaultFormat is used by a bare {date} placeholder.
const DefaultFormat = "YYYY-MM-DD"

const (
	placeholderOpen  = "{date"
	placeholderClose = "}"
)

// tokens maps format tokens to Go layout components, longest first.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named shortcuts for common formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// Expand replaces every date placeholder in label with t formatted
// accordingly. Labels without placeholders are returned unchanged.
func Expand(label string, t time.Time) (string, error) {
	if !strings.Contains(label, placeholderOpen) {
		return label, nil
	}

	var out strings.Builder
	rest := label
	for {
		start := strings.Index(rest, placeholderOpen)
		if start < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		end := strings.Index(rest[start:], placeholderClose)
		if end < 0 {
			return "", fmt.Errorf("%w: unclosed placeholder in %q", ErrInvalidDateFormat, label)
		}
		inner := rest[start+len(placeholderOpen) : start+end]

		layout, err := placeholderLayout(inner)
		if err != nil {
			return "", err
		}
		out.WriteString(rest[:start])
		out.WriteString(t.Format(layout))
		rest = rest[start+end+len(placeholderClose):]
	}
}

// Validate reports whether every placeholder in label is well formed.
func Validate(label string) error {
	_, err := Expand(label, time.Time{})
	return err
}

// placeholderLayout converts the part after "{date" ("" or ":FORMAT").
func placeholderLayout(inner string) (string, error) {
	if inner == "" {
		return Layout(DefaultFormat)
	}
	format, ok := strings.CutPrefix(inner, ":")
	if !ok {
		return "", fmt.Errorf("%w: {date%s}, use {date} or {date:FORMAT}", ErrInvalidDateFormat, inner)
	}
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	return Layout(format)
}

// Layout converts a token format to a Go time layout.
// Non-token characters are literals; brackets escape token letters.
func Layout(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		n := matchToken(format[i:], &b)
		if n == 0 {
			b.WriteByte(format[i])
			n = 1
		}
		i += n
	}
	return b.String(), nil
}

// matchToken writes the layout for the token at the start of s and returns
// its length, or 0 when s starts with a literal.
func matchToken(s string, b *strings.Builder) int {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.layout)
			return len(t.token)
		}
	}
	return 0
}
