package engine

import (
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/sigil-dev/sigil/pkg/token"
)

// Options control evaluation output. With Explain false the Decision
// carries no explain node at all.
type Options struct {
	Explain bool
}

// Evaluate walks the token's blocks in order and decides whether the
// token grants authorization. It consumes only the blocks' logical
// content; callers must have accepted token.VerifyChain first.
//
// Per block: the block's own facts join the facts propagated from prior
// blocks (own facts shadow on collision), rules fire once against that
// set, then the block's checks run in order against the merged store.
// The first failing check short-circuits the whole token. If no check
// failed, only publicly-namespaced facts propagate to the next block,
// each with its proof tree re-redacted.
func Evaluate(tok *token.Token, opts Options) Decision {
	logger := log.With().Str("eval_id", xid.New().String()).Logger()

	visible := NewFactStore()
	var lastExplain *Explain
	sawCheck := false

	for bi := range tok.Blocks {
		block := &tok.Blocks[bi]

		local := NewFactStore()
		for _, e := range visible.Entries() {
			local.Put(e)
		}
		for _, f := range block.Facts {
			local.Put(&Entry{Fact: f, Origin: OriginAuthority})
		}

		for _, d := range ApplyRules(block.Rules, local.Facts()) {
			logger.Debug().Int("block", bi).Str("rule", d.Rule).
				Msgf("derived fact %s", d.Fact)
			local.Put(d)
		}

		for ci := range block.Checks {
			sawCheck = true
			check := &block.Checks[ci]
			pass, explain := evalCheck(check, local)
			if !pass {
				logger.Debug().Int("block", bi).Str("check", check.ID).
					Msg("check failed, rejecting token")
				if !opts.Explain {
					return Decision{Valid: false}
				}
				if explain == nil {
					explain = &Explain{Kind: KindNoExplain}
				}
				return Decision{Valid: false, Explain: explain}
			}
			lastExplain = explain
		}

		next := NewFactStore()
		for _, e := range local.Entries() {
			if !e.Fact.Predicate.Public() {
				continue
			}
			// a public fact can still have been derived partly from
			// private inputs, so its proof is redacted again here and
			// its bindings stay behind: an env can hold values matched
			// out of private facts
			clone := *e
			clone.Proof = Redact(e.Proof)
			clone.Env = nil
			next.Put(&clone)
		}
		visible = next
	}

	decision := Decision{Valid: true}
	if opts.Explain {
		if !sawCheck {
			decision.Explain = &Explain{Kind: KindNoChecks}
		} else {
			decision.Explain = lastExplain
		}
	}
	return decision
}

// evalCheck runs a check's query against the store. The first consistent
// solution (in store insertion order) that passes the guard wins; its
// first query pattern is instantiated and looked up in the store so the
// explain points at the stored entry with its true origin.
func evalCheck(check *token.Check, store *FactStore) (bool, *Explain) {
	// an empty query is structurally invalid and token.Decode rejects it,
	// but a hand-built token can still carry one; it fails rather than
	// counting as a vacuously true conjunction
	if len(check.Query) == 0 {
		log.Warn().Str("check", check.ID).Msg("check has an empty query, failing it")
		return false, &Explain{Kind: KindCheck, CheckID: check.ID, Outcome: OutcomeFail}
	}
	for _, state := range EvalBody(check.Query, store.Facts()) {
		if !guardPasses(check.CompiledWhere, check.Where, check.ID, state.Env) {
			continue
		}
		explain := &Explain{Kind: KindCheck, CheckID: check.ID, Outcome: OutcomePass}
		if first, ok := Instantiate(check.Query[0], state.Env); ok {
			if entry, found := store.Get(first); found {
				explain.Because = entry
			}
		}
		if explain.Because == nil && len(state.Proof) > 0 {
			explain.Because = state.Proof[0]
		}
		return true, explain
	}
	return false, &Explain{
		Kind:    KindCheck,
		CheckID: check.ID,
		Outcome: OutcomeFail,
		Missing: check.Query,
	}
}
