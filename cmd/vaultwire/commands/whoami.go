package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaultwire/internal/vault"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print this vault's identity and fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vault.Open(cfg.VaultDir)
			if err != nil {
				return err
			}
			fp, err := v.Fingerprint()
			if err != nil {
				return err
			}
			id := v.PublicIdentity()
			if jsonOut {
				return printJSON(map[string]any{
					"identity":    id,
					"fingerprint": fp,
					"vault_dir":   v.Dir(),
				})
			}
			fmt.Printf("Vault ID:       %s\n", id.VaultID)
			if id.Alias != "" {
				fmt.Printf("Alias:          %s\n", id.Alias)
			}
			fmt.Printf("Fingerprint:    %s\n", fp)
			fmt.Printf("Signing key:    %s\n", id.SigningPublicKey)
			fmt.Printf("Encryption key: %s\n", id.EncryptionPublicKey)
			return nil
		},
	}
}
