package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register this vault with the relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			if alias == "" {
				alias = w.Vault.Alias()
			}
			if err := w.Messages.Register(cmd.Context(), alias); err != nil {
				return err
			}
			if jsonOut {
				return printJSON(map[string]string{
					"vault_id": w.Vault.VaultID(),
					"alias":    alias,
					"relay":    cfg.RelayURL,
				})
			}
			fmt.Printf("Registered %s with %s\n", w.Vault.VaultID(), cfg.RelayURL)
			if alias != "" {
				fmt.Printf("Alias: %s\n", alias)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&alias, "alias", "", "alias to claim on the relay (default: the vault's alias)")
	return cmd
}
