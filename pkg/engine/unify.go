package engine

import "github.com/sigil-dev/sigil/pkg/token"

// Unify matches a pattern against a ground fact. Arity mismatch is a
// non-match, not an error. Variables bind or must agree with an earlier
// binding; literals require exact equality. On success the returned
// entry is always tagged OriginAuthority (see Entry).
func Unify(pattern, fact token.Fact) (Env, *Entry, bool) {
	env, ok := unifyInto(pattern, fact, Env{})
	if !ok {
		return nil, nil, false
	}
	return env, &Entry{Fact: fact, Origin: OriginAuthority}, true
}

// unifyInto unifies pattern against fact, extending base. No partial
// binding is observable on failure.
func unifyInto(pattern, fact token.Fact, base Env) (Env, bool) {
	if pattern.Predicate != fact.Predicate {
		return nil, false
	}
	if len(pattern.Args) != len(fact.Args) {
		return nil, false
	}
	env := base
	for i, p := range pattern.Args {
		arg := fact.Args[i]
		if p.IsVariable() {
			next, ok := env.Bind(p.Str, arg)
			if !ok {
				return nil, false
			}
			env = next
			continue
		}
		if p != arg {
			return nil, false
		}
	}
	return env, true
}

// State is one consistent joint solution of a body: the merged
// environment and the proof entries of every matched fact, in body
// order.
type State struct {
	Env   Env
	Proof []*Entry
}

// EvalBody evaluates an ordered conjunction of patterns against a fact
// sequence. It is a naive nested-loop join: every pattern is tried
// against every fact for every surviving state, and a combination
// survives only when its bindings merge consistently. Body order affects
// only the order of results, never their set. Iterating facts in store
// insertion order keeps results deterministic.
func EvalBody(body []token.Fact, facts []token.Fact) []State {
	states := []State{{Env: Env{}}}
	for _, pattern := range body {
		var next []State
		for _, state := range states {
			for _, fact := range facts {
				env, ok := unifyInto(pattern, fact, state.Env)
				if !ok {
					continue
				}
				proof := make([]*Entry, 0, len(state.Proof)+1)
				proof = append(proof, state.Proof...)
				proof = append(proof, &Entry{Fact: fact, Origin: OriginAuthority})
				next = append(next, State{Env: env, Proof: proof})
			}
		}
		states = next
		if len(states) == 0 {
			break
		}
	}
	return states
}

// Instantiate substitutes every variable in head with its binding. A
// head variable without a binding means the fact cannot be produced;
// that is a normal non-matching state, not an error.
func Instantiate(head token.Fact, env Env) (token.Fact, bool) {
	args := make([]token.Term, len(head.Args))
	for i, a := range head.Args {
		if !a.IsVariable() {
			args[i] = a
			continue
		}
		bound, ok := env[a.Str]
		if !ok {
			return token.Fact{}, false
		}
		args[i] = bound
	}
	return token.Fact{Predicate: head.Predicate, Args: args}, true
}
