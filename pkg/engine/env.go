// Package engine implements the block-scoped logic evaluation: pattern
// unification, single-pass rule derivation, check evaluation and the
// public/private visibility model with proof-tree redaction. Everything
// in this package is pure; evaluation builds new environments and fact
// stores instead of mutating shared state, so independent evaluations
// can run in parallel without coordination.
package engine

import "github.com/sigil-dev/sigil/pkg/token"

// Env maps variable names to bound terms. Environments are treated as
// immutable once returned; extension always copies.
type Env map[string]token.Term

// Clone returns an independent copy of the environment.
func (e Env) Clone() Env {
	out := make(Env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Bind returns a new environment with name bound to value. Binding a
// variable that is already bound to a different value fails; re-binding
// the same value is a no-op.
func (e Env) Bind(name string, value token.Term) (Env, bool) {
	if bound, ok := e[name]; ok {
		if bound != value {
			return nil, false
		}
		return e, true
	}
	out := e.Clone()
	out[name] = value
	return out, true
}

// guardInput exposes the environment to a where-guard as plain Go
// values keyed by variable name.
func (e Env) guardInput() map[string]any {
	out := make(map[string]any, len(e))
	for name, term := range e {
		switch term.Kind {
		case token.KindInt:
			out[name] = term.Int
		case token.KindBool:
			out[name] = term.Bool
		default:
			out[name] = term.Str
		}
	}
	return out
}
