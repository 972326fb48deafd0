// Package token holds the capability-token data model: facts, rules and
// checks grouped into signed, hash-linked blocks, plus the chain
// construction and verification operations.
package token

import (
	"fmt"
	"strings"
)

// PublicNamespace is the predicate namespace that marks a fact as
// propagating across block boundaries. Any other namespace (or none)
// keeps the fact local to its block.
const PublicNamespace = "public"

// Predicate is a namespaced atom naming a relation. Visibility is a
// structural property of the namespace rather than string sniffing on the
// full name; the wire convention stays "public/name".
type Predicate struct {
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
}

// ParsePredicate splits a "namespace/name" identifier into a Predicate.
// Identifiers without a '/' have no namespace.
func ParsePredicate(s string) Predicate {
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		return Predicate{Namespace: s[:idx], Name: s[idx+1:]}
	}
	return Predicate{Name: s}
}

// Public reports whether facts with this predicate propagate to later
// blocks.
func (p Predicate) Public() bool {
	return p.Namespace == PublicNamespace
}

// PrivatelyNamespaced reports whether the predicate carries an explicit
// non-public namespace. Such facts are secret: their content is redacted
// out of any proof tree that leaves the block.
func (p Predicate) PrivatelyNamespaced() bool {
	return p.Namespace != "" && p.Namespace != PublicNamespace
}

func (p Predicate) String() string {
	if p.Namespace != "" {
		return p.Namespace + "/" + p.Name
	}
	return p.Name
}

// Fact is an ordered tuple (predicate, arg1, ..., argN). The same shape
// doubles as a pattern when argument positions hold variable terms.
type Fact struct {
	Predicate Predicate `json:"predicate"`
	Args      []Term    `json:"args"`
}

// NewFact builds a fact from a "namespace/name" predicate identifier and
// its argument terms.
func NewFact(predicate string, args ...Term) Fact {
	return Fact{Predicate: ParsePredicate(predicate), Args: args}
}

// Equal compares two facts structurally: predicate plus every argument.
func (f Fact) Equal(other Fact) bool {
	if f.Predicate != other.Predicate || len(f.Args) != len(other.Args) {
		return false
	}
	for i, a := range f.Args {
		if a != other.Args[i] {
			return false
		}
	}
	return true
}

// HasVariables reports whether any argument position is a logic variable.
func (f Fact) HasVariables() bool {
	for _, a := range f.Args {
		if a.IsVariable() {
			return true
		}
	}
	return false
}

// Key returns the canonical string form of the fact, used as a stable
// map key in fact stores.
func (f Fact) Key() string {
	return f.String()
}

// Validate rejects structurally malformed tuples. A fact with no
// predicate name or no arguments indicates a broken core invariant.
func (f Fact) Validate() error {
	if f.Predicate.Name == "" {
		return fmt.Errorf("token: fact has an empty predicate name")
	}
	if len(f.Args) == 0 {
		return fmt.Errorf("token: fact %q has no arguments", f.Predicate.String())
	}
	return nil
}

func (f Fact) String() string {
	parts := make([]string, 0, len(f.Args)+1)
	parts = append(parts, f.Predicate.String())
	for _, a := range f.Args {
		parts = append(parts, a.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
