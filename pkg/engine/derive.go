package engine

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"

	"github.com/sigil-dev/sigil/pkg/token"
)

// FireRule runs a rule's body against the fact sequence and instantiates
// its head once per consistent solution. States whose head cannot be
// fully instantiated are dropped. Each derived entry carries the rule
// id, the binding environment and the redacted proof of its inputs.
func FireRule(rule token.Rule, facts []token.Fact) []*Entry {
	var derived []*Entry
	for _, state := range EvalBody(rule.Body, facts) {
		if !guardPasses(rule.CompiledWhere, rule.Where, rule.ID, state.Env) {
			continue
		}
		fact, ok := Instantiate(rule.Head, state.Env)
		if !ok {
			continue
		}
		derived = append(derived, &Entry{
			Fact:   fact,
			Origin: OriginDerived,
			Rule:   rule.ID,
			Env:    state.Env,
			Proof:  Redact(state.Proof),
		})
	}
	return derived
}

// ApplyRules fires every rule against the same fact set, single pass:
// newly derived facts are never fed back into rule bodies within the
// block. Proof origin tagging assumes exactly one derivation layer.
func ApplyRules(rules []token.Rule, facts []token.Fact) []*Entry {
	var derived []*Entry
	for _, rule := range rules {
		derived = append(derived, FireRule(rule, facts)...)
	}
	return derived
}

// Redact walks proof entries and replaces any privately-namespaced fact
// with the redaction sentinel, keeping the tree shape. Entries that pass
// through still get their children re-redacted; the input is never
// mutated.
func Redact(entries []*Entry) []*Entry {
	if entries == nil {
		return nil
	}
	out := make([]*Entry, len(entries))
	for i, e := range entries {
		if e.Fact.Predicate.PrivatelyNamespaced() {
			out[i] = redactionSentinel()
			continue
		}
		clone := *e
		clone.Proof = Redact(e.Proof)
		out[i] = &clone
	}
	return out
}

// guardPasses evaluates a compiled where-guard against the bound
// environment. Guard errors reject the state, matching how the rest of
// the engine treats non-matching states.
func guardPasses(prog *vm.Program, source, owner string, env Env) bool {
	if prog == nil {
		return true
	}
	out, err := expr.Run(prog, env.guardInput())
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Msgf("error evaluating where guard %q", source)
		return false
	}
	pass, ok := out.(bool)
	return ok && pass
}
