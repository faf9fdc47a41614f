package cli

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// envDefaults seeds flag defaults from the environment.
type envDefaults struct {
	Port       string `env:"PORT"`
	ConfigPath string `env:"CONFIG_PATH" envDefault:"config/config.yaml"`
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var defaults envDefaults
	if err := env.Parse(&defaults); err != nil {
		log.Printf("read environment: %v", err)
	}

	cmd := &cobra.Command{
		Use:   "math-quiz",
		Short: "Timed arithmetic quiz for chat, served over Gorilla WebSocket",
	}

	cmd.PersistentFlags().StringVar(&port, "port", defaults.Port, "port to listen on (overrides server.port)")
	cmd.PersistentFlags().StringVar(&configPath, "config", defaults.ConfigPath, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
