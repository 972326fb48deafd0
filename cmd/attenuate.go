package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/policy"
	"github.com/sigil-dev/sigil/pkg/token"
)

var (
	attenuateTokenFile string
	attenuateKeyFile   string
	attenuateOut       string
)

var attenuateCmd = &cobra.Command{
	Use:   "attenuate [policy.yaml]",
	Short: "Append a delegated block to an existing token",
	Long: `Appends one delegated block to a token. The block definition may be
	omitted, producing an empty block that only extends the chain.
	Attenuation never rewrites earlier blocks.`,
	Example: `  sigil attenuate restrict.yaml --token token.json --key issuer.key --out narrowed.json`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priv, err := loadPrivateKey(attenuateKeyFile)
		if err != nil {
			return err
		}

		tok, err := readToken(attenuateTokenFile)
		if err != nil {
			return err
		}

		var contents token.Contents
		if len(args) == 1 {
			def, err := policy.LoadFile(args[0])
			if err != nil {
				return err
			}
			if contents, err = def.Contents(); err != nil {
				return err
			}
		}

		attenuated, err := token.Attenuate(tok, contents, priv)
		if err != nil {
			return err
		}

		log.Debug().Int("blocks", len(attenuated.Blocks)).Msg("appended delegated block")

		data, err := attenuated.Encode()
		if err != nil {
			return err
		}
		return writeOutput(attenuateOut, data)
	},
}

func init() {
	rootCmd.AddCommand(attenuateCmd)
	attenuateCmd.Flags().StringVarP(&attenuateTokenFile, "token", "t", "", "Input token file, or - for stdin (required)")
	attenuateCmd.Flags().StringVarP(&attenuateKeyFile, "key", "k", "", "Issuer private key file (required)")
	attenuateCmd.Flags().StringVarP(&attenuateOut, "out", "o", "", "Output token file (default stdout)")
	_ = attenuateCmd.MarkFlagRequired("token")
	_ = attenuateCmd.MarkFlagRequired("key")
}
