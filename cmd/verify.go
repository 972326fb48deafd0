package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/token"
)

var (
	verifyTokenFile  string
	verifyPubKeyFile string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a token's chain integrity",
	Long: `Checks the hash links, recomputed digests and signatures of every
	block against the issuer's public key. A token that fails verification
	must never be evaluated.`,
	Example: `  sigil verify --token token.json --pub issuer.pub`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, err := loadPublicKey(verifyPubKeyFile)
		if err != nil {
			return err
		}
		tok, err := readToken(verifyTokenFile)
		if err != nil {
			return err
		}

		if !token.VerifyChain(tok, pub) {
			fmt.Printf("%s chain verification failed\n", color.RedString("✖"))
			return fmt.Errorf("token rejected")
		}
		fmt.Printf("%s chain verified (%d blocks)\n", color.GreenString("✔"), len(tok.Blocks))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyTokenFile, "token", "t", "", "Token file, or - for stdin (required)")
	verifyCmd.Flags().StringVarP(&verifyPubKeyFile, "pub", "p", "", "Issuer public key file (required)")
	_ = verifyCmd.MarkFlagRequired("token")
	_ = verifyCmd.MarkFlagRequired("pub")
}
