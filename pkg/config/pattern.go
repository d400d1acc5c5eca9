// Package config provides configuration schema types for lavy.
package config

import (
	"regexp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// ErrInvalidPattern is returned when a pattern cannot be parsed or compiled.
var ErrInvalidPattern = errors.New("invalid pattern")

// supportedFlags maps literal flags onto RE2 inline flags. An empty value means
// the flag is accepted for compatibility but has no effect on matching.
var supportedFlags = map[rune]string{
	'i': "i",
	'm': "m",
	's': "s",
	'g': "",
	'u': "",
	'y': "",
}

// Pattern is a regular expression carried inside configuration.
//
// It is written either as a literal "/source/flags" or as a bare source string.
// Source and flags are kept alongside the compiled expression so a pattern
// serializes back to exactly what the user wrote.
type Pattern struct {
	source string
	flags  string
	re     *regexp.Regexp
}

// NewPattern compiles source with the given literal flags.
func NewPattern(source, flags string) (*Pattern, error) {
	normalized, inline, err := normalizeFlags(flags)
	if err != nil {
		return nil, err
	}

	expr := source
	if inline != "" {
		expr = "(?" + inline + ")" + source
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPattern, "%s: %v", render(source, normalized), err)
	}

	return &Pattern{source: source, flags: normalized, re: re}, nil
}

// ParsePattern parses a "/source/flags" literal or a bare source string.
func ParsePattern(s string) (*Pattern, error) {
	if s == "" {
		return nil, errors.WithMessage(ErrInvalidPattern, "empty pattern")
	}

	source, flags, ok := splitLiteral(s)
	if !ok {
		return NewPattern(s, "")
	}

	return NewPattern(source, flags)
}

// MustPattern is like ParsePattern but panics on error. Intended for defaults and tests.
func MustPattern(s string) *Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}

	return p
}

// MatchString reports whether s contains a match. A nil pattern matches nothing.
func (p *Pattern) MatchString(s string) bool {
	if p == nil || p.re == nil {
		return false
	}

	return p.re.MatchString(s)
}

// Source returns the expression without delimiters or flags.
func (p *Pattern) Source() string {
	if p == nil {
		return ""
	}

	return p.source
}

// Flags returns the normalized literal flags.
func (p *Pattern) Flags() string {
	if p == nil {
		return ""
	}

	return p.flags
}

// String renders the pattern as a "/source/flags" literal.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}

	return render(p.source, p.flags)
}

// Equal reports whether both patterns have the same source and flags.
func (p *Pattern) Equal(other *Pattern) bool {
	if p == nil || other == nil {
		return p == other
	}

	return p.source == other.source && p.flags == other.flags
}

// MarshalText implements encoding.TextMarshaler.
func (p *Pattern) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pattern) UnmarshalText(text []byte) error {
	parsed, err := ParsePattern(string(text))
	if err != nil {
		return err
	}

	*p = *parsed

	return nil
}

// JSONSchema returns the JSON Schema for the Pattern type.
func (Pattern) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Regular expression, either a /source/flags literal or a bare source. Flags: i, m, s (g, u, y are ignored). A value starting with / whose text after the last / is not made of flags is a bare source",
		Examples:    []any{"/^[a-z]+: .*[^!]$/", "#\\d+"},
	}
}

func render(source, flags string) string {
	return "/" + source + "/" + flags
}

// splitLiteral splits "/source/flags". It reports false when s is not a literal:
// s must start with "/" and everything after its last "/" must be a known flag,
// so a path such as "/usr/bin" stays a bare source.
func splitLiteral(s string) (string, string, bool) {
	if !strings.HasPrefix(s, "/") {
		return "", "", false
	}

	last := strings.LastIndex(s, "/")
	if last == 0 {
		return "", "", false
	}

	flags := s[last+1:]
	for _, f := range flags {
		if _, ok := supportedFlags[f]; !ok {
			return "", "", false
		}
	}

	return s[1:last], flags, true
}

// normalizeFlags deduplicates and sorts flags and returns the RE2 inline flag set.
func normalizeFlags(flags string) (string, string, error) {
	seen := make([]rune, 0, len(flags))

	for _, f := range flags {
		if _, ok := supportedFlags[f]; !ok {
			return "", "", errors.Wrapf(ErrInvalidPattern, "unsupported flag %q", f)
		}

		if !slices.Contains(seen, f) {
			seen = append(seen, f)
		}
	}

	slices.Sort(seen)

	var inline strings.Builder

	for _, f := range seen {
		inline.WriteString(supportedFlags[f])
	}

	return string(seen), inline.String(), nil
}
