package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/engine"
	"github.com/sigil-dev/sigil/pkg/graph"
	"github.com/sigil-dev/sigil/pkg/render"
	"github.com/sigil-dev/sigil/pkg/token"
)

var (
	evaluateTokenFile  string
	evaluatePubKeyFile string
	evaluateExplain    bool
	evaluateGraphOut   string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a verified token and explain the decision",
	Long: `Verifies the token's chain, then walks its blocks to decide whether the
	token grants authorization. With --explain the decision carries the proof
	of the last passing check (or the reason for the first failing one);
	--graph-out additionally writes the proof graph as JSON.`,
	Example: `  sigil evaluate --token token.json --pub issuer.pub --explain
  sigil evaluate -t token.json -p issuer.pub --explain --graph-out proof.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, err := loadPublicKey(evaluatePubKeyFile)
		if err != nil {
			return err
		}
		tok, err := readToken(evaluateTokenFile)
		if err != nil {
			return err
		}

		// integrity first; an unverified token is never evaluated
		if !token.VerifyChain(tok, pub) {
			return fmt.Errorf("chain verification failed, refusing to evaluate")
		}

		wantExplain := evaluateExplain || evaluateGraphOut != ""
		decision := engine.Evaluate(tok, engine.Options{Explain: wantExplain})
		render.Decision(os.Stdout, decision)

		if evaluateGraphOut != "" {
			g, err := graph.ToGraph(decision.Explain)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(g, "", "  ")
			if err != nil {
				return err
			}
			if err := writeOutput(evaluateGraphOut, data); err != nil {
				return err
			}
		}

		if !decision.Valid {
			return fmt.Errorf("token rejected")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVarP(&evaluateTokenFile, "token", "t", "", "Token file, or - for stdin (required)")
	evaluateCmd.Flags().StringVarP(&evaluatePubKeyFile, "pub", "p", "", "Issuer public key file (required)")
	evaluateCmd.Flags().BoolVar(&evaluateExplain, "explain", false, "Print the proof tree for the decision")
	evaluateCmd.Flags().StringVar(&evaluateGraphOut, "graph-out", "", "Write the proof graph as JSON to this file")
	_ = evaluateCmd.MarkFlagRequired("token")
	_ = evaluateCmd.MarkFlagRequired("pub")
}
