package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/sigil/pkg/engine"
	"github.com/sigil-dev/sigil/pkg/token"
)

func passingExplain() *engine.Explain {
	return &engine.Explain{
		Kind:    engine.KindCheck,
		CheckID: "alice-can-read",
		Outcome: engine.OutcomePass,
		Because: &engine.Entry{
			Fact:   token.NewFact("can", token.Str("alice"), token.Sym("read"), token.Str("file-1")),
			Origin: engine.OriginDerived,
			Rule:   "can-from-right",
			Proof: []*engine.Entry{
				{Fact: token.NewFact("right", token.Str("alice"), token.Sym("read"), token.Str("file-1")), Origin: engine.OriginAuthority},
				{Fact: token.NewFact("owner", token.Str("alice"), token.Str("file-1")), Origin: engine.OriginAuthority},
			},
		},
	}
}

func TestToGraphPassingCheck(t *testing.T) {
	g, err := ToGraph(passingExplain())
	require.NoError(t, err)

	// check + derived + two authority facts
	require.Len(t, g.Nodes, 4)
	assert.Equal(t, KindCheck, g.Nodes[g.Root].Kind)

	kinds := map[Kind]int{}
	for _, n := range g.Nodes {
		kinds[n.Kind]++
	}
	assert.Equal(t, 1, kinds[KindCheck])
	assert.Equal(t, 1, kinds[KindDerivedFact])
	assert.Equal(t, 2, kinds[KindAuthorityFact])

	var derivedID int
	for id, n := range g.Nodes {
		if n.Kind == KindDerivedFact {
			derivedID = id
			assert.Equal(t, "can-from-right", n.Rule)
		}
	}

	becauseOutOfDerived := 0
	for _, e := range g.Edges {
		assert.Equal(t, EdgeBecause, e.Label)
		if e.From == derivedID {
			becauseOutOfDerived++
		}
	}
	assert.Equal(t, 2, becauseOutOfDerived, "derived fact fans out one because edge per proof entry")
	assert.Len(t, g.Edges, 3)
}

func TestToGraphDeterministic(t *testing.T) {
	first, err := ToGraph(passingExplain())
	require.NoError(t, err)
	second, err := ToGraph(passingExplain())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestToGraphFailingCheck(t *testing.T) {
	query := []token.Fact{token.NewFact("can", token.Str("alice"), token.Sym("write"), token.Str("file-1"))}
	g, err := ToGraph(&engine.Explain{
		Kind:    engine.KindCheck,
		CheckID: "alice-can-write",
		Outcome: engine.OutcomeFail,
		Missing: query,
	})
	require.NoError(t, err)

	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, EdgeMissing, g.Edges[0].Label)
	assert.Equal(t, KindMissingFact, g.Nodes[g.Edges[0].To].Kind)
}

func TestToGraphRedactedLeaf(t *testing.T) {
	g, err := ToGraph(&engine.Explain{
		Kind:    engine.KindCheck,
		CheckID: "flagged",
		Outcome: engine.OutcomePass,
		Because: &engine.Entry{
			Fact:   token.NewFact("public/flagged", token.Sym("yes")),
			Origin: engine.OriginDerived,
			Rule:   "flag",
			Proof: []*engine.Entry{
				{Fact: token.NewFact("redacted/private-fact", token.Sym("redacted")), Origin: engine.OriginAuthority, Redacted: true},
			},
		},
	})
	require.NoError(t, err)

	found := false
	for _, n := range g.Nodes {
		if n.Redacted {
			found = true
			assert.Equal(t, KindAuthorityFact, n.Kind)
		}
	}
	assert.True(t, found, "redacted sentinel must surface as a redacted authority leaf")
}

func TestToGraphContractViolations(t *testing.T) {
	tests := []struct {
		name    string
		explain *engine.Explain
	}{
		{name: "nil explain", explain: nil},
		{name: "no-checks sentinel", explain: &engine.Explain{Kind: engine.KindNoChecks}},
		{name: "no-explain sentinel", explain: &engine.Explain{Kind: engine.KindNoExplain}},
		{
			name:    "unknown outcome",
			explain: &engine.Explain{Kind: engine.KindCheck, CheckID: "x", Outcome: "maybe"},
		},
		{
			name: "passing check without because",
			explain: &engine.Explain{
				Kind: engine.KindCheck, CheckID: "x", Outcome: engine.OutcomePass,
			},
		},
		{
			name: "entry with unknown origin",
			explain: &engine.Explain{
				Kind: engine.KindCheck, CheckID: "x", Outcome: engine.OutcomePass,
				Because: &engine.Entry{Fact: token.NewFact("f", token.Sym("a")), Origin: "mystery"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToGraph(tt.explain)
			assert.Error(t, err)
		})
	}
}
