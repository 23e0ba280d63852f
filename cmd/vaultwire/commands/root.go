package commands

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"vaultwire/internal/app"
)

var (
	cfg    *app.Config
	logger zerolog.Logger

	vaultDir       string
	relayURL       string
	configPath     string
	timeoutSeconds int
	jsonOut        bool
	verbose        bool
)

func Execute() error {
	root := &cobra.Command{
		Use:           "vaultwire",
		Short:         "Signed agent-to-agent messaging through a relay",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			path := configPath
			if path == "" {
				path = app.DefaultConfigPath()
			}
			loaded, err := app.LoadConfig(path)
			if err != nil {
				return err
			}
			// Flags override file settings.
			if vaultDir != "" {
				loaded.VaultDir = vaultDir
			}
			if relayURL != "" {
				loaded.RelayURL = relayURL
			}
			if timeoutSeconds > 0 {
				loaded.TimeoutSeconds = timeoutSeconds
			}
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&vaultDir, "vault-dir", "", "vault directory (default ~/.vaultwire/vault)")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:5000)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.vaultwire/config.yaml)")
	root.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0, "relay call timeout in seconds")
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit machine-readable JSON")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		initCmd(),
		whoamiCmd(),
		pingCmd(),
		registerCmd(),
		sendCmd(),
		receiveCmd(),
		logCmd(),
		agentsCmd(),
		resolveCmd(),
		aliasCmd(),
		contactCmd(),
	)
	return root.Execute()
}

// wire builds the dependency graph around the opened vault. Commands that
// create the vault call vault.Create themselves and never get here.
func wire() (*app.Wire, error) {
	return app.NewWire(cfg, logger)
}

// printJSON writes v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
