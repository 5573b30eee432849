package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"devpet/internal/clock"
	"devpet/internal/notify"
	"devpet/internal/ui"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open the terminal game (default)",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	restoreLog, err := logToFile(cfg.Store.Dir)
	if err != nil {
		return err
	}
	defer restoreLog()

	inbox := &notify.Recorder{}
	sink := notify.Multi{notify.Log{Logger: logrus.StandardLogger()}, inbox}

	engine, shutdown, err := openEngine(cmd.Context(), cfg, sink)
	if err != nil {
		return err
	}
	defer shutdown()

	program := tea.NewProgram(ui.NewModel(engine, inbox, clock.Real{}), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
