package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaultwire/internal/vault"
)

func initCmd() *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a vault with fresh signing and encryption keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vault.Create(cfg.VaultDir, alias)
			if err != nil {
				return err
			}
			fp, err := v.Fingerprint()
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(map[string]string{
					"vault_id":    v.VaultID(),
					"alias":       v.Alias(),
					"fingerprint": fp,
					"vault_dir":   v.Dir(),
				})
			}
			fmt.Printf("Vault created at %s\n", v.Dir())
			fmt.Printf("Vault ID:    %s\n", v.VaultID())
			if v.Alias() != "" {
				fmt.Printf("Alias:       %s\n", v.Alias())
			}
			fmt.Printf("Fingerprint: %s\n", fp)
			return nil
		},
	}
	cmd.Flags().StringVar(&alias, "alias", "", "human-readable name for this vault")
	return cmd
}
