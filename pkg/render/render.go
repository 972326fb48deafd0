// Package render prints decisions and their proof trees for humans.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/list"

	"github.com/sigil-dev/sigil/pkg/engine"
)

// Decision writes a colorized summary of an evaluation decision,
// including the explain tree when present.
func Decision(w io.Writer, d engine.Decision) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if d.Valid {
		fmt.Fprintf(w, "%s %s\n", green("✔"), bold("authorized"))
	} else {
		fmt.Fprintf(w, "%s %s\n", red("✖"), bold("rejected"))
	}

	if d.Explain == nil {
		return
	}

	switch d.Explain.Kind {
	case engine.KindNoChecks:
		fmt.Fprintln(w, faint("token contains no checks"))
	case engine.KindNoExplain:
		fmt.Fprintln(w, faint("no explain metadata available"))
	case engine.KindCheck:
		writeCheck(w, d.Explain)
	}
}

func writeCheck(w io.Writer, explain *engine.Explain) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	icon := red("✖")
	if explain.Outcome == engine.OutcomePass {
		icon = green("✔")
	}
	fmt.Fprintf(w, "%s check %s\n", icon, bold(explain.CheckID))

	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedLight)

	if explain.Outcome == engine.OutcomePass && explain.Because != nil {
		appendEntry(l, explain.Because)
	}
	for _, missing := range explain.Missing {
		l.AppendItem(fmt.Sprintf("missing %s", missing))
	}

	if rendered := l.Render(); rendered != "" {
		fmt.Fprintln(w, rendered)
	}
}

func appendEntry(l list.Writer, e *engine.Entry) {
	faint := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	switch {
	case e.Redacted:
		l.AppendItem(faint("[redacted private fact]"))
	case e.Origin == engine.OriginDerived:
		l.AppendItem(fmt.Sprintf("%s %s", e.Fact, cyan("(rule "+e.Rule+")")))
	default:
		l.AppendItem(e.Fact.String())
	}

	if len(e.Proof) > 0 {
		l.Indent()
		for _, child := range e.Proof {
			appendEntry(l, child)
		}
		l.UnIndent()
	}
}
