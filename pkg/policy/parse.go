package policy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sigil-dev/sigil/pkg/token"
)

// ParsePattern parses the string shorthand for a fact or pattern:
// whitespace-separated fields, first the predicate (optionally
// "namespace/name"), then the argument terms.
//
// Term syntax: ?name is a variable, :name a symbol, digits an integer,
// true/false a boolean, a double-quoted field a string literal (this is
// the only way to get a string with spaces), anything else a bare
// string.
func ParsePattern(s string) (token.Fact, error) {
	fields, err := splitFields(s)
	if err != nil {
		return token.Fact{}, err
	}
	if len(fields) < 2 {
		return token.Fact{}, fmt.Errorf("policy: pattern %q needs a predicate and at least one argument", s)
	}
	args := make([]token.Term, 0, len(fields)-1)
	for _, field := range fields[1:] {
		args = append(args, ParseTerm(field))
	}
	return token.Fact{Predicate: token.ParsePredicate(fields[0]), Args: args}, nil
}

// ParseTerm parses one shorthand field into a term.
func ParseTerm(field string) token.Term {
	switch {
	case strings.HasPrefix(field, "?") && len(field) > 1:
		return token.Var(field[1:])
	case strings.HasPrefix(field, ":") && len(field) > 1:
		return token.Sym(field[1:])
	case field == "true":
		return token.Bool(true)
	case field == "false":
		return token.Bool(false)
	}
	if n, err := strconv.ParseInt(field, 10, 64); err == nil {
		return token.Int(n)
	}
	if unquoted, err := strconv.Unquote(field); err == nil && strings.HasPrefix(field, `"`) {
		return token.Str(unquoted)
	}
	return token.Str(field)
}

// termFromScalar converts a YAML scalar from the explicit form into a
// term. Strings go through the shorthand term syntax so sigils keep
// working.
func termFromScalar(raw any) (token.Term, error) {
	switch v := raw.(type) {
	case string:
		return ParseTerm(v), nil
	case int:
		return token.Int(int64(v)), nil
	case int64:
		return token.Int(v), nil
	case uint64:
		return token.Int(int64(v)), nil
	case float64:
		if v != float64(int64(v)) {
			return token.Term{}, fmt.Errorf("non-integer number %v is not a supported term", v)
		}
		return token.Int(int64(v)), nil
	case bool:
		return token.Bool(v), nil
	default:
		return token.Term{}, fmt.Errorf("unsupported term type %T", raw)
	}
}

// splitFields splits on whitespace but keeps double-quoted fields
// together, including their quotes.
func splitFields(s string) ([]string, error) {
	var fields []string
	var current strings.Builder
	inQuotes := false
	flush := func() {
		if current.Len() > 0 {
			fields = append(fields, current.String())
			current.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case !inQuotes && (r == ' ' || r == '\t'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("policy: unterminated quote in pattern %q", s)
	}
	flush()
	return fields, nil
}
