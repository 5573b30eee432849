package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Flags shared by every subcommand.
var (
	configPath string // YAML tuning file
	dataDir    string // where file and sqlite backends keep state
	storeKind  string // persistence backend override
	dsn        string // postgres connection string
	logLevel   string // logrus level
)

// rootCmd is the base command for the CLI. Without a subcommand it starts
// the terminal game.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "devpet",
		Short:         "A virtual developer pet that lives in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: runPlay,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Tuning file (default <data-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "State directory (default ~/.config/devpet)")
	root.PersistentFlags().StringVar(&storeKind, "store", "", "Persistence backend: file, sqlite, postgres or memory")
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres connection string")
	root.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	root.AddCommand(
		newPlayCmd(),
		newStatusCmd(),
		newServeCmd(),
		newResetCmd(),
		newChaseCmd(),
	)
	return root
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "devpet:", err)
		os.Exit(1)
	}
}
