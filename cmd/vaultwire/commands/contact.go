package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaultwire/internal/domain"
	"vaultwire/internal/vault"
)

func contactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage the contact allow-list and unknown-sender policy",
	}
	cmd.AddCommand(contactAddCmd(), contactRemoveCmd(), contactPolicyCmd())
	return cmd
}

func contactAddCmd() *cobra.Command {
	var (
		alias string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "add <vault-id>",
		Short: "Add or update a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vault.Open(cfg.VaultDir)
			if err != nil {
				return err
			}
			contact, err := v.AddContact(domain.Contact{
				VaultID: args[0],
				Alias:   alias,
				Notes:   notes,
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(contact)
			}
			fmt.Printf("Contact %s saved\n", contact.VaultID)
			return nil
		},
	}
	cmd.Flags().StringVar(&alias, "alias", "", "name to remember this contact by")
	cmd.Flags().StringVar(&notes, "notes", "", "freeform notes")
	return cmd
}

func contactRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <vault-id>",
		Short: "Remove a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vault.Open(cfg.VaultDir)
			if err != nil {
				return err
			}
			removed, err := v.RemoveContact(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no contact %s", args[0])
			}
			fmt.Printf("Contact %s removed\n", args[0])
			return nil
		},
	}
}

func contactPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policy <quarantine-unknown|accept-unknown>",
		Short: "Set how messages from unknown senders are handled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vault.Open(cfg.VaultDir)
			if err != nil {
				return err
			}
			switch args[0] {
			case "quarantine-unknown":
				err = v.SetQuarantineUnknown(true)
			case "accept-unknown":
				err = v.SetQuarantineUnknown(false)
			default:
				return fmt.Errorf("unknown policy %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Printf("Policy set to %s\n", args[0])
			return nil
		},
	}
}
