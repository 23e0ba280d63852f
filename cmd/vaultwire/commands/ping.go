package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the relay is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire()
			if err != nil {
				return err
			}
			if err := w.Relay.Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("%s is healthy\n", cfg.RelayURL)
			return nil
		},
	}
}
