package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vaultwire/internal/envelope"
	messagesvc "vaultwire/internal/services/message"
)

func sendCmd() *cobra.Command {
	var (
		to            string
		intent        string
		body          string
		bodyFile      string
		msgType       string
		correlationID string
		contentType   string
		ttl           int
		encrypt       bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Build, sign, and send a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}

			content, err := readBody(body, bodyFile)
			if err != nil {
				return err
			}

			recipient, err := w.Messages.ResolveRecipient(cmd.Context(), to)
			if err != nil {
				return err
			}

			if ttl == 0 {
				ttl = cfg.DefaultTTL
			}
			builder := envelope.NewBuilder().
				MessageType(envelope.MessageType(msgType)).
				Sender(w.Vault.VaultID()).
				Recipient(recipient.VaultID).
				Intent(intent).
				ContentType(contentType).
				TTL(ttl).
				Body(content)
			if correlationID != "" {
				builder = builder.CorrelationID(correlationID)
			}
			msg, err := builder.Build()
			if err != nil {
				return err
			}

			result, err := w.Messages.Send(cmd.Context(), msg, messagesvc.SendOptions{Encrypt: encrypt})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(result)
			}
			fmt.Printf("Sent %s to %s\n", result.MessageID, result.Recipient)
			if result.ConversationID != "" {
				fmt.Printf("Conversation: %s\n", result.ConversationID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient alias or vault id")
	cmd.Flags().StringVar(&intent, "intent", "", "what the message asks for or announces")
	cmd.Flags().StringVar(&body, "body", "", "payload body, JSON or plain text")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "read the payload body from a file (- for stdin)")
	cmd.Flags().StringVar(&msgType, "type", "request", "message type: request or notification")
	cmd.Flags().StringVar(&correlationID, "correlation-id", "", "id of the message this responds to")
	cmd.Flags().StringVar(&contentType, "content-type", "application/json", "payload content type")
	cmd.Flags().IntVar(&ttl, "ttl", 0, "seconds until the message expires (default from config)")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "encrypt the payload for the recipient before signing")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("intent")
	return cmd
}

// readBody resolves the payload body from --body or --body-file. Input that
// parses as JSON is sent as-is; anything else is wrapped as {"text": ...}.
func readBody(body, bodyFile string) (any, error) {
	if body != "" && bodyFile != "" {
		return nil, fmt.Errorf("--body and --body-file are mutually exclusive")
	}
	raw := []byte(body)
	if bodyFile != "" {
		var err error
		if bodyFile == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(bodyFile)
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("a message body is required (--body or --body-file)")
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		return parsed, nil
	}
	return map[string]any{"text": string(raw)}, nil
}
