package policy

import (
	"strings"
	"testing"

	"github.com/sigil-dev/sigil/pkg/token"
)

func TestParseTerm(t *testing.T) {
	tests := []struct {
		field string
		want  token.Term
	}{
		{"?u", token.Var("u")},
		{":read", token.Sym("read")},
		{"alice", token.Str("alice")},
		{`"file one"`, token.Str("file one")},
		{"42", token.Int(42)},
		{"-7", token.Int(-7)},
		{"true", token.Bool(true)},
		{"false", token.Bool(false)},
		// bare sigils are plain strings, not empty variables
		{"?", token.Str("?")},
		{":", token.Str(":")},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := ParseTerm(tt.field); got != tt.want {
				t.Errorf("ParseTerm(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestParsePattern(t *testing.T) {
	fact, err := ParsePattern("public/role alice :agent")
	if err != nil {
		t.Fatalf("ParsePattern() error: %v", err)
	}
	want := token.NewFact("public/role", token.Str("alice"), token.Sym("agent"))
	if !fact.Equal(want) {
		t.Errorf("ParsePattern() = %v, want %v", fact, want)
	}
	if !fact.Predicate.Public() {
		t.Error("public namespace must be recognized")
	}

	pattern, err := ParsePattern("right ?u :read \"file 1\"")
	if err != nil {
		t.Fatalf("ParsePattern() error: %v", err)
	}
	if !pattern.HasVariables() {
		t.Error("pattern must contain the ?u variable")
	}
	if pattern.Args[2] != token.Str("file 1") {
		t.Errorf("quoted argument = %v, want string with space", pattern.Args[2])
	}

	if _, err := ParsePattern("lonely"); err == nil {
		t.Error("a pattern without arguments must be rejected")
	}
	if _, err := ParsePattern(`broken "quote`); err == nil {
		t.Error("unterminated quote must be rejected")
	}
}

const sampleDefinition = `
facts:
  - public/role alice :agent
  - right alice :read file-1
  - predicate: age
    args: ["alice", 21]
rules:
  - id: can-from-right
    head: can ?u ?a ?r
    body:
      - right ?u ?a ?r
checks:
  - id: alice-can-read
    query:
      - can alice :read file-1
  - id: adult
    query:
      - age ?u ?n
    where: n >= 18
`

func TestLoadDefinition(t *testing.T) {
	def, err := Load(strings.NewReader(sampleDefinition))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	contents, err := def.Contents()
	if err != nil {
		t.Fatalf("Contents() error: %v", err)
	}

	if len(contents.Facts) != 3 {
		t.Fatalf("got %d facts, want 3", len(contents.Facts))
	}
	if !contents.Facts[0].Equal(token.NewFact("public/role", token.Str("alice"), token.Sym("agent"))) {
		t.Errorf("shorthand fact = %v", contents.Facts[0])
	}
	if !contents.Facts[2].Equal(token.NewFact("age", token.Str("alice"), token.Int(21))) {
		t.Errorf("explicit fact = %v", contents.Facts[2])
	}

	if len(contents.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(contents.Rules))
	}
	rule := contents.Rules[0]
	if rule.ID != "can-from-right" || !rule.Head.HasVariables() || len(rule.Body) != 1 {
		t.Errorf("rule = %+v", rule)
	}

	if len(contents.Checks) != 2 {
		t.Fatalf("got %d checks, want 2", len(contents.Checks))
	}
	if contents.Checks[1].CompiledWhere == nil {
		t.Error("where guard must be compiled by Contents()")
	}
}

func TestLoadRejectsBadDefinitions(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "fact with a variable",
			yaml: "facts:\n  - right ?u :read file-1\n",
		},
		{
			name: "rule with unparsable head",
			yaml: "rules:\n  - id: r\n    head: lonely\n    body:\n      - right ?u\n",
		},
		{
			name: "check with invalid where",
			yaml: "checks:\n  - id: c\n    query:\n      - right ?u\n    where: \"u ==\"\n",
		},
		{
			name: "explicit fact without predicate",
			yaml: "facts:\n  - args: [1, 2]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Load(strings.NewReader(tt.yaml))
			if err != nil {
				return // rejected at parse time is fine too
			}
			if _, err := def.Contents(); err == nil {
				t.Errorf("Contents() accepted a bad definition")
			}
		})
	}
}
