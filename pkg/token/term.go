package token

import (
	"fmt"
	"strconv"
)

// TermKind discriminates the variants of a Term.
type TermKind string

const (
	// KindVariable is a logic variable, written with a leading '?' sigil.
	KindVariable TermKind = "var"
	// KindSymbol is an interned atom, written with a leading ':' sigil.
	KindSymbol TermKind = "sym"
	KindString TermKind = "str"
	KindInt    TermKind = "int"
	KindBool   TermKind = "bool"
)

// Term is one argument position of a fact or pattern. It is a tagged
// variant; exactly one payload field is meaningful for a given Kind.
// Terms are comparable, so environments and fact keys can rely on ==.
type Term struct {
	Kind TermKind `json:"kind"`
	Str  string   `json:"str,omitempty"`
	Int  int64    `json:"int,omitempty"`
	Bool bool     `json:"bool,omitempty"`
}

// Var builds a logic-variable term. The name carries no '?' sigil.
func Var(name string) Term {
	return Term{Kind: KindVariable, Str: name}
}

// Sym builds a symbol (atom) term. The name carries no ':' sigil.
func Sym(name string) Term {
	return Term{Kind: KindSymbol, Str: name}
}

// Str builds a string literal term.
func Str(s string) Term {
	return Term{Kind: KindString, Str: s}
}

// Int builds an integer literal term.
func Int(n int64) Term {
	return Term{Kind: KindInt, Int: n}
}

// Bool builds a boolean literal term.
func Bool(b bool) Term {
	return Term{Kind: KindBool, Bool: b}
}

// IsVariable reports whether the term is a logic variable.
func (t Term) IsVariable() bool {
	return t.Kind == KindVariable
}

// Value returns the term payload as a plain Go value. Variables have no
// value and return their sigiled name.
func (t Term) Value() any {
	switch t.Kind {
	case KindInt:
		return t.Int
	case KindBool:
		return t.Bool
	case KindVariable:
		return "?" + t.Str
	default:
		return t.Str
	}
}

func (t Term) String() string {
	switch t.Kind {
	case KindVariable:
		return "?" + t.Str
	case KindSymbol:
		return ":" + t.Str
	case KindString:
		return strconv.Quote(t.Str)
	case KindInt:
		return strconv.FormatInt(t.Int, 10)
	case KindBool:
		return strconv.FormatBool(t.Bool)
	default:
		return fmt.Sprintf("<invalid term kind %q>", string(t.Kind))
	}
}
