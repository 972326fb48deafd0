package token

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rule is a single-step, non-recursive derivation: if every body pattern
// unifies jointly and consistently against the visible fact set, the head
// is instantiated as a new fact. Rules fire once per block, never to a
// fixpoint.
type Rule struct {
	// ID is a human-readable identifier carried into proof trees.
	ID string `json:"id"`

	// Head is the pattern instantiated for each consistent body solution.
	Head Fact `json:"head"`

	// Body is the ordered conjunction of patterns to satisfy.
	Body []Fact `json:"body"`

	// Where is an optional guard expression evaluated against the bound
	// environment after the body joins. Leaving this empty means no
	// guard. The source string is part of the hashed payload.
	Where string `json:"where,omitempty"`

	// CompiledWhere holds the pre-compiled form of Where for evaluation.
	CompiledWhere *vm.Program `json:"-" yaml:"-"`
}

// Check asserts that a non-empty consistent match for Query exists.
// Structurally it is a rule body with no head; a failing check
// invalidates the whole token.
type Check struct {
	ID    string `json:"id"`
	Query []Fact `json:"query"`

	// Where is an optional guard over the bound environment, as on Rule.
	Where string `json:"where,omitempty"`

	CompiledWhere *vm.Program `json:"-" yaml:"-"`
}

// Compile pre-compiles the rule's guard expression. Rules without a
// guard are left untouched.
func (r *Rule) Compile() error {
	if r.Where == "" {
		return nil
	}
	prog, err := compileWhere(r.Where)
	if err != nil {
		return fmt.Errorf("token: rule %q: %w", r.ID, err)
	}
	r.CompiledWhere = prog
	return nil
}

// Compile pre-compiles the check's guard expression.
func (c *Check) Compile() error {
	if c.Where == "" {
		return nil
	}
	prog, err := compileWhere(c.Where)
	if err != nil {
		return fmt.Errorf("token: check %q: %w", c.ID, err)
	}
	c.CompiledWhere = prog
	return nil
}

// Validate rejects structurally malformed rules.
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("token: rule has an empty id")
	}
	if err := r.Head.Validate(); err != nil {
		return fmt.Errorf("token: rule %q head: %w", r.ID, err)
	}
	if len(r.Body) == 0 {
		return fmt.Errorf("token: rule %q has an empty body", r.ID)
	}
	for i, p := range r.Body {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("token: rule %q body[%d]: %w", r.ID, i, err)
		}
	}
	return nil
}

// Validate rejects structurally malformed checks.
func (c Check) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("token: check has an empty id")
	}
	if len(c.Query) == 0 {
		return fmt.Errorf("token: check %q has an empty query", c.ID)
	}
	for i, p := range c.Query {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("token: check %q query[%d]: %w", c.ID, i, err)
		}
	}
	return nil
}

func compileWhere(code string) (*vm.Program, error) {
	// guards see only the bound variables, bindings are dynamic
	prog, err := expr.Compile(code, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid where expression %q: %w", code, err)
	}
	return prog, nil
}
