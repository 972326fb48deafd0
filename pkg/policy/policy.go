// Package policy loads human-authored block definitions (facts, rules,
// checks) from YAML and turns them into token contents. It supports a
// compact string shorthand next to the explicit form.
package policy

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/sigil-dev/sigil/pkg/token"
)

// Definition is one block's worth of authored content.
//
//	facts:
//	  - public/role alice :agent
//	  - right alice :read file-1
//	rules:
//	  - id: can-from-right
//	    head: can ?u ?a ?r
//	    body:
//	      - right ?u ?a ?r
//	checks:
//	  - id: alice-can-read
//	    query:
//	      - can alice :read file-1
type Definition struct {
	Facts  []FactDef  `yaml:"facts"`
	Rules  []RuleDef  `yaml:"rules"`
	Checks []CheckDef `yaml:"checks"`
}

// FactDef is a fact in either shorthand ("pred arg1 arg2") or explicit
// ({predicate: ..., args: [...]}) form.
type FactDef struct {
	Fact token.Fact
}

func (d *FactDef) UnmarshalYAML(unmarshal func(any) error) error {
	// shorthand form first
	var shorthand string
	if err := unmarshal(&shorthand); err == nil {
		fact, err := ParsePattern(shorthand)
		if err != nil {
			return err
		}
		d.Fact = fact
		return nil
	}

	// explicit form
	var explicit struct {
		Predicate string `yaml:"predicate"`
		Args      []any  `yaml:"args"`
	}
	if err := unmarshal(&explicit); err != nil {
		return fmt.Errorf("policy: fact must be a string or {predicate, args}: %w", err)
	}
	if explicit.Predicate == "" {
		return fmt.Errorf("policy: explicit fact is missing a predicate")
	}
	args := make([]token.Term, 0, len(explicit.Args))
	for i, raw := range explicit.Args {
		term, err := termFromScalar(raw)
		if err != nil {
			return fmt.Errorf("policy: fact %q arg[%d]: %w", explicit.Predicate, i, err)
		}
		args = append(args, term)
	}
	d.Fact = token.Fact{Predicate: token.ParsePredicate(explicit.Predicate), Args: args}
	return nil
}

// RuleDef is an authored derivation rule. Head and body patterns use the
// string shorthand.
type RuleDef struct {
	ID    string   `yaml:"id"`
	Head  string   `yaml:"head"`
	Body  []string `yaml:"body"`
	Where string   `yaml:"where"`
}

// CheckDef is an authored check.
type CheckDef struct {
	ID    string   `yaml:"id"`
	Query []string `yaml:"query"`
	Where string   `yaml:"where"`
}

// Contents parses the definition into token contents, validating
// structure and compiling guard expressions.
func (d *Definition) Contents() (token.Contents, error) {
	var contents token.Contents

	for _, f := range d.Facts {
		contents.Facts = append(contents.Facts, f.Fact)
	}

	for _, r := range d.Rules {
		head, err := ParsePattern(r.Head)
		if err != nil {
			return token.Contents{}, fmt.Errorf("policy: rule %q head: %w", r.ID, err)
		}
		body := make([]token.Fact, 0, len(r.Body))
		for i, p := range r.Body {
			pattern, err := ParsePattern(p)
			if err != nil {
				return token.Contents{}, fmt.Errorf("policy: rule %q body[%d]: %w", r.ID, i, err)
			}
			body = append(body, pattern)
		}
		contents.Rules = append(contents.Rules, token.Rule{ID: r.ID, Head: head, Body: body, Where: r.Where})
	}

	for _, c := range d.Checks {
		query := make([]token.Fact, 0, len(c.Query))
		for i, p := range c.Query {
			pattern, err := ParsePattern(p)
			if err != nil {
				return token.Contents{}, fmt.Errorf("policy: check %q query[%d]: %w", c.ID, i, err)
			}
			query = append(query, pattern)
		}
		contents.Checks = append(contents.Checks, token.Check{ID: c.ID, Query: query, Where: c.Where})
	}

	if err := contents.Validate(); err != nil {
		return token.Contents{}, err
	}
	return contents, nil
}

// Load reads a YAML block definition.
func Load(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("policy: failed to read definition: %w", err)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("policy: failed to parse definition: %w", err)
	}
	return &def, nil
}

// LoadFile reads a YAML block definition from a file.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("policy: failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
