package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"devpet/internal/notify"
)

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Start over with a new pet",
		Long:  "Start over with a new pet. Stats, upgrades, achievements, counters and items are all cleared.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset erases all progress; pass --yes to confirm")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine, shutdown, err := openEngine(cmd.Context(), cfg, &notify.Recorder{})
			if err != nil {
				return err
			}
			defer shutdown()

			s, err := engine.Reset()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Say hello to %s!\n", s.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}
