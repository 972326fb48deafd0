package cmd

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/keys"
)

var keygenOut string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an Ed25519 issuer key pair",
	Example: `  # Writes issuer.key (private) and issuer.pub (public)
  sigil keygen --out issuer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pair, err := keys.GenerateKeyPair()
		if err != nil {
			return err
		}

		privPath := keygenOut + ".key"
		pubPath := keygenOut + ".pub"

		if err := os.WriteFile(privPath, []byte(hex.EncodeToString(pair.PrivateKey)+"\n"), 0o600); err != nil {
			return fmt.Errorf("failed to write private key: %w", err)
		}
		if err := os.WriteFile(pubPath, []byte(pair.PublicKeyHex+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write public key: %w", err)
		}

		log.Info().Str("private", privPath).Str("public", pubPath).Msg("key pair written")
		fmt.Println(pair.PublicKeyHex)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVarP(&keygenOut, "out", "o", "sigil", "Output file prefix for the key pair")
}
