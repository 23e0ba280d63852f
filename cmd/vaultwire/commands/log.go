package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaultwire/internal/vault"
)

func logCmd() *cobra.Command {
	var (
		quarantine     bool
		conversationID string
		conversations  bool
		limit          int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Inspect local history, quarantine, or relay conversation logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, b := range []bool{quarantine, conversationID != "", conversations} {
				if b {
					set++
				}
			}
			if set > 1 {
				return fmt.Errorf("--quarantine, --conversation, and --conversations are mutually exclusive")
			}

			switch {
			case quarantine:
				return showQuarantine(limit)
			case conversationID != "":
				return showConversation(cmd, conversationID)
			case conversations:
				return showConversations(cmd, limit)
			default:
				return showHistory(limit)
			}
		},
	}
	cmd.Flags().BoolVar(&quarantine, "quarantine", false, "show quarantined messages instead of history")
	cmd.Flags().StringVar(&conversationID, "conversation", "", "show the relay's log for one conversation id")
	cmd.Flags().BoolVar(&conversations, "conversations", false, "list this vault's conversations on the relay")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show (0 = all)")
	return cmd
}

func showHistory(limit int) error {
	v, err := vault.Open(cfg.VaultDir)
	if err != nil {
		return err
	}
	entries, err := v.History(limit)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("History is empty")
		return nil
	}
	for _, e := range entries {
		arrow := "->"
		peer := e.Message.Envelope.Recipient
		if e.Direction == vault.DirectionReceived {
			arrow = "<-"
			peer = e.Message.Envelope.Sender
		}
		fmt.Printf("%s %s %s [%s] intent=%s\n",
			e.SavedAt, arrow, peer, e.Message.Envelope.ID, e.Message.Payload.Intent)
	}
	return nil
}

func showQuarantine(limit int) error {
	v, err := vault.Open(cfg.VaultDir)
	if err != nil {
		return err
	}
	entries, err := v.QuarantineLog(limit)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("Quarantine is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s [%s] from %s id=%s\n",
			e.QuarantinedAt, e.Reason, e.Message.Envelope.Sender, e.Message.Envelope.ID)
	}
	return nil
}

func showConversation(cmd *cobra.Command, id string) error {
	w, err := wire()
	if err != nil {
		return err
	}
	log, err := w.Relay.ConversationLog(cmd.Context(), id)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(log)
	}
	c := log.Conversation
	fmt.Printf("Conversation %s: %s <-> %s (%d messages)\n",
		c.ID, c.ParticipantA, c.ParticipantB, c.MessageCount)
	for _, m := range log.Messages {
		fmt.Printf("%s %s -> %s [%s] intent=%s\n",
			m.ReceivedAt, m.Sender, m.Message.Envelope.Recipient,
			m.MessageID, m.Message.Payload.Intent)
	}
	return nil
}

func showConversations(cmd *cobra.Command, limit int) error {
	w, err := wire()
	if err != nil {
		return err
	}
	logs, err := w.Relay.AgentLogs(cmd.Context(), w.Vault.VaultID(), limit)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(logs)
	}
	if len(logs.Conversations) == 0 {
		fmt.Println("No conversations")
		return nil
	}
	for _, c := range logs.Conversations {
		fmt.Printf("%s: %s <-> %s (%d messages, last %s)\n",
			c.ID, c.ParticipantA, c.ParticipantB, c.MessageCount, c.LastMessageAt)
	}
	return nil
}
