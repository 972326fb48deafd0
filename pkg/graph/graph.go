// Package graph turns an explain tree into a node/edge graph for
// inspection and visualization. The transform is pure and deterministic;
// it performs no logic evaluation and never touches cryptographic
// material.
package graph

import (
	"fmt"
	"strings"

	"github.com/sigil-dev/sigil/pkg/engine"
	"github.com/sigil-dev/sigil/pkg/token"
)

// Kind classifies a graph node.
type Kind string

const (
	KindCheck         Kind = "check"
	KindDerivedFact   Kind = "derived-fact"
	KindAuthorityFact Kind = "authority-fact"
	// KindMissingFact is the synthetic node built for a failing check's
	// unsatisfied query.
	KindMissingFact Kind = "missing-fact"
)

// Edge labels.
const (
	EdgeBecause = "because"
	EdgeMissing = "missing"
)

// Node is one vertex of the proof graph. IDs are assigned by a counter
// in depth-first visitation order starting at the root, so the same
// explain tree always yields the same graph.
type Node struct {
	ID       int    `json:"id"`
	Kind     Kind   `json:"kind"`
	Label    string `json:"label"`
	Rule     string `json:"rule,omitempty"`
	Redacted bool   `json:"redacted,omitempty"`
}

// Edge connects two nodes with a label.
type Edge struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Label string `json:"label"`
}

// Graph is the full proof graph.
type Graph struct {
	Root  int          `json:"root"`
	Nodes map[int]Node `json:"nodes"`
	Edges []Edge       `json:"edges"`
}

type builder struct {
	next  int
	graph *Graph
}

func (b *builder) addNode(n Node) int {
	n.ID = b.next
	b.next++
	b.graph.Nodes[n.ID] = n
	return n.ID
}

func (b *builder) addEdge(from, to int, label string) {
	b.graph.Edges = append(b.graph.Edges, Edge{From: from, To: to, Label: label})
}

// ToGraph converts an explain tree into a Graph. An explain shape the
// builder does not recognize is a broken core invariant and is reported
// as an error, never dropped.
func ToGraph(explain *engine.Explain) (*Graph, error) {
	if explain == nil {
		return nil, fmt.Errorf("graph: explain node is nil")
	}
	if explain.Kind != engine.KindCheck {
		return nil, fmt.Errorf("graph: explain kind %q carries no graphable content", string(explain.Kind))
	}

	b := &builder{graph: &Graph{Nodes: make(map[int]Node)}}
	root := b.addNode(Node{Kind: KindCheck, Label: checkLabel(explain)})
	b.graph.Root = root

	switch explain.Outcome {
	case engine.OutcomePass:
		if explain.Because == nil {
			return nil, fmt.Errorf("graph: passing check %q has no because entry", explain.CheckID)
		}
		child, err := b.addEntry(explain.Because)
		if err != nil {
			return nil, err
		}
		b.addEdge(root, child, EdgeBecause)
	case engine.OutcomeFail:
		missing := b.addNode(Node{Kind: KindMissingFact, Label: queryLabel(explain.Missing)})
		b.addEdge(root, missing, EdgeMissing)
	default:
		return nil, fmt.Errorf("graph: check %q has unrecognized outcome %q", explain.CheckID, string(explain.Outcome))
	}

	return b.graph, nil
}

// addEntry adds a proof entry and its children depth-first. A derived
// fact fans out one because-edge per entry in its proof list.
func (b *builder) addEntry(e *engine.Entry) (int, error) {
	switch e.Origin {
	case engine.OriginDerived:
		id := b.addNode(Node{Kind: KindDerivedFact, Label: e.Fact.String(), Rule: e.Rule})
		for _, child := range e.Proof {
			childID, err := b.addEntry(child)
			if err != nil {
				return 0, err
			}
			b.addEdge(id, childID, EdgeBecause)
		}
		return id, nil
	case engine.OriginAuthority:
		return b.addNode(Node{Kind: KindAuthorityFact, Label: e.Fact.String(), Redacted: e.Redacted}), nil
	default:
		return 0, fmt.Errorf("graph: proof entry for %s has unrecognized origin %q", e.Fact, string(e.Origin))
	}
}

func checkLabel(explain *engine.Explain) string {
	return fmt.Sprintf("check %s: %s", explain.CheckID, string(explain.Outcome))
}

func queryLabel(query []token.Fact) string {
	parts := make([]string, len(query))
	for i, p := range query {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}
