package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/policy"
	"github.com/sigil-dev/sigil/pkg/token"
)

var (
	issueKeyFile string
	issueOut     string
)

var issueCmd = &cobra.Command{
	Use:   "issue <policy.yaml>",
	Short: "Issue a new one-block token from a block definition",
	Long: `Builds the authority block of a new token from a YAML block definition
	(facts, rules, checks) and signs it with the issuer's private key.`,
	Example: `  sigil issue authority.yaml --key issuer.key --out token.json`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priv, err := loadPrivateKey(issueKeyFile)
		if err != nil {
			return err
		}

		def, err := policy.LoadFile(args[0])
		if err != nil {
			return err
		}
		contents, err := def.Contents()
		if err != nil {
			return err
		}

		tok, err := token.Issue(contents, priv)
		if err != nil {
			return err
		}

		log.Debug().
			Int("facts", len(contents.Facts)).
			Int("rules", len(contents.Rules)).
			Int("checks", len(contents.Checks)).
			Msg("issued authority block")

		data, err := tok.Encode()
		if err != nil {
			return err
		}
		return writeOutput(issueOut, data)
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)
	issueCmd.Flags().StringVarP(&issueKeyFile, "key", "k", "", "Issuer private key file (required)")
	issueCmd.Flags().StringVarP(&issueOut, "out", "o", "", "Output token file (default stdout)")
	_ = issueCmd.MarkFlagRequired("key")
}
