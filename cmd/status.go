package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"devpet/internal/achievement"
	"devpet/internal/game"
	"devpet/internal/notify"
	"devpet/internal/pet"
	"devpet/internal/ui"
	"devpet/internal/upgrade"
)

func newStatusCmd() *cobra.Command {
	var (
		asJSON      bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the pet's current stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine, shutdown, err := openEngine(cmd.Context(), cfg, &notify.Recorder{})
			if err != nil {
				return err
			}
			defer shutdown()

			snap := engine.Snapshot()
			switch {
			case asJSON:
				return writeStatusJSON(cmd, snap, engine.Degraded())
			case interactive:
				return ui.DisplayStats(snap)
			default:
				fmt.Fprint(cmd.OutOrStdout(), ui.StatsCard(snap))
				if engine.Degraded() {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning: state could not be read or saved; see the log")
				}
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print stats as JSON")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Show the stats card full screen")
	return cmd
}

type statusView struct {
	Stats        pet.Stats            `json:"stats"`
	Upgrades     []upgrade.Saved      `json:"upgrades"`
	Achievements []string             `json:"achievements"`
	Counters     achievement.Counters `json:"counters"`
	Inventory    game.Inventory       `json:"inventory"`
	Degraded     bool                 `json:"degraded"`
}

func writeStatusJSON(cmd *cobra.Command, snap game.Context, degraded bool) error {
	view := statusView{
		Stats:        snap.Stats,
		Upgrades:     upgrade.ToSaved(snap.Upgrades),
		Achievements: achievement.UnlockedIDs(snap.Achievements),
		Counters:     snap.Counters,
		Inventory:    snap.Inventory,
		Degraded:     degraded,
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	return nil
}
