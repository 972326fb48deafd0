package engine

import "github.com/sigil-dev/sigil/pkg/token"

// Origin tags how a fact entered the fact store.
type Origin string

const (
	// OriginAuthority marks a fact stated directly by a block.
	OriginAuthority Origin = "authority"
	// OriginDerived marks a fact produced by a rule firing.
	OriginDerived Origin = "derived"
)

// Entry is one node of a proof tree: a fact plus its provenance. Derived
// entries carry the rule id, the environment the head was instantiated
// under, and the (redacted) proof entries of the facts that produced it.
//
// Note that Unify always tags a freshly matched entry OriginAuthority,
// even when the matched fact was itself derived earlier; the true origin
// is recovered by looking the fact up in the fact store. Redaction and
// graph building depend on this two-layer behavior.
type Entry struct {
	Fact     token.Fact `json:"fact"`
	Origin   Origin     `json:"origin"`
	Rule     string     `json:"rule,omitempty"`
	Env      Env        `json:"env,omitempty"`
	Proof    []*Entry   `json:"proof,omitempty"`
	Redacted bool       `json:"redacted,omitempty"`
}

// redactionSentinel replaces a privately-namespaced fact in a proof
// tree, preserving the tree shape while discarding the content.
func redactionSentinel() *Entry {
	return &Entry{
		Fact:     token.NewFact("redacted/private-fact", token.Sym("redacted")),
		Origin:   OriginAuthority,
		Redacted: true,
	}
}

// ExplainKind discriminates the variants of an Explain node.
type ExplainKind string

const (
	// KindCheck explains a single check's pass or fail.
	KindCheck ExplainKind = "check"
	// KindNoChecks is the sentinel for a valid token containing zero
	// checks across all blocks.
	KindNoChecks ExplainKind = "no-checks"
	// KindNoExplain is the defensive fallback for a failing check whose
	// explain metadata was absent. It should not occur.
	KindNoExplain ExplainKind = "no-explain"
)

// CheckOutcome is the result of one check.
type CheckOutcome string

const (
	OutcomePass CheckOutcome = "pass"
	OutcomeFail CheckOutcome = "fail"
)

// Explain is the explainability node attached to a Decision. For a
// passing check, Because points at the stored entry of the fact that
// satisfied the first query pattern; for a failing check, Missing holds
// the unsatisfied query.
type Explain struct {
	Kind    ExplainKind  `json:"kind"`
	CheckID string       `json:"check_id,omitempty"`
	Outcome CheckOutcome `json:"outcome,omitempty"`
	Because *Entry       `json:"because,omitempty"`
	Missing []token.Fact `json:"missing,omitempty"`
}

// Decision is the outcome of evaluating a token.
type Decision struct {
	Valid   bool     `json:"valid"`
	Explain *Explain `json:"explain,omitempty"`
}
