package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	messagesvc "vaultwire/internal/services/message"
)

func receiveCmd() *cobra.Command {
	var (
		limit     int
		noDecrypt bool
	)

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Fetch, verify, and acknowledge pending messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			results, err := w.Messages.Receive(cmd.Context(), messagesvc.ReceiveOptions{
				Limit:   limit,
				Decrypt: !noDecrypt,
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(results)
			}
			if len(results) == 0 {
				fmt.Println("No pending messages")
				return nil
			}
			for _, r := range results {
				printReceived(r)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum messages to fetch (0 = relay default)")
	cmd.Flags().BoolVar(&noDecrypt, "no-decrypt", false, "leave encrypted payloads sealed")
	return cmd
}

func printReceived(r messagesvc.Received) {
	from := r.Sender
	if r.SenderAlias != "" {
		from = fmt.Sprintf("%s (%s)", r.SenderAlias, r.Sender)
	}
	if r.Quarantined {
		fmt.Printf("QUARANTINED [%s] from %s: %s\n", r.QuarantineReason, from, r.MessageID)
		return
	}
	fmt.Printf("[%s] from %s intent=%s", r.MessageID, from, r.Message.Payload.Intent)
	if r.Decrypted {
		fmt.Print(" (decrypted)")
	}
	fmt.Println()
	if body, err := json.Marshal(r.Message.Payload.Body); err == nil {
		fmt.Printf("  %s\n", body)
	}
}
