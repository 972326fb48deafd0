package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/engine"
	"github.com/sigil-dev/sigil/pkg/graph"
	"github.com/sigil-dev/sigil/pkg/token"
)

var (
	graphTokenFile  string
	graphPubKeyFile string
	graphOutFile    string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Emit the proof graph for a token's decision as JSON",
	Long: `Verifies the token's chain, evaluates it with explanation enabled and
	transforms the resulting proof tree into a node/edge graph. The graph
	covers the last passing check, or the first failing one with its
	unsatisfied query as a missing node.`,
	Example: `  sigil graph --token token.json --pub issuer.pub
  sigil graph -t token.json -p issuer.pub --out proof.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, err := loadPublicKey(graphPubKeyFile)
		if err != nil {
			return err
		}
		tok, err := readToken(graphTokenFile)
		if err != nil {
			return err
		}

		// integrity first; an unverified token is never evaluated
		if !token.VerifyChain(tok, pub) {
			return fmt.Errorf("chain verification failed, refusing to evaluate")
		}

		decision := engine.Evaluate(tok, engine.Options{Explain: true})
		g, err := graph.ToGraph(decision.Explain)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(graphOutFile, data)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVarP(&graphTokenFile, "token", "t", "", "Token file, or - for stdin (required)")
	graphCmd.Flags().StringVarP(&graphPubKeyFile, "pub", "p", "", "Issuer public key file (required)")
	graphCmd.Flags().StringVarP(&graphOutFile, "out", "o", "", "Output file for the graph JSON, defaults to stdout")
	_ = graphCmd.MarkFlagRequired("token")
	_ = graphCmd.MarkFlagRequired("pub")
}
