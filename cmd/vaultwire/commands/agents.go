package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func agentsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List agents registered on the relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			agents, err := w.Relay.ListAgents(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(agents)
			}
			if len(agents) == 0 {
				fmt.Println("No agents registered")
				return nil
			}
			for _, a := range agents {
				line := a.VaultID
				if a.Alias != "" {
					line = fmt.Sprintf("%s (%s)", a.Alias, a.VaultID)
				}
				if a.LastSeen != "" {
					line += " last seen " + a.LastSeen
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum agents to list")
	return cmd
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <alias-or-vault-id>",
		Short: "Resolve an alias or vault id to an agent record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			agent, err := w.Messages.ResolveRecipient(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(agent)
			}
			fmt.Printf("Vault ID:       %s\n", agent.VaultID)
			if agent.Alias != "" {
				fmt.Printf("Alias:          %s\n", agent.Alias)
			}
			fmt.Printf("Signing key:    %s\n", agent.SigningPublicKey)
			fmt.Printf("Encryption key: %s\n", agent.EncryptionPublicKey)
			return nil
		},
	}
}

func aliasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alias <name>",
		Short: "Claim or change this vault's alias on the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			name := args[0]
			if err := w.Relay.SetAlias(cmd.Context(), w.Vault.VaultID(), name); err != nil {
				return err
			}
			if state, ok := w.Vault.ServerState(cfg.RelayURL); ok {
				state.Alias = name
				if err := w.Vault.SetServerState(cfg.RelayURL, state); err != nil {
					logger.Warn().Err(err).Msg("failed to record alias locally")
				}
			}
			if jsonOut {
				return printJSON(map[string]string{"vault_id": w.Vault.VaultID(), "alias": name})
			}
			fmt.Printf("Alias %q now points at %s\n", name, w.Vault.VaultID())
			return nil
		},
	}
}
