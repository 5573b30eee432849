package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"devpet/internal/chase"
	"devpet/internal/game"
	"devpet/internal/notify"
)

func newChaseCmd() *cobra.Command {
	names := make([]string, 0, len(chase.Targets))
	for name := range chase.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	return &cobra.Command{
		Use:       "chase [target]",
		Short:     "Play the chase mini-game (" + strings.Join(names, ", ") + ")",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "butterfly"
			if len(args) == 1 {
				target = args[0]
			}

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

			s, err := chase.Run(engine, target)
			if rej, ok := game.AsRejection(err); ok {
				fmt.Fprintln(cmd.OutOrStdout(), rej.Message)
				return nil
			}
			if err != nil {
				return err
			}

			for _, n := range inbox.Drain() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", n.Title, n.Body)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: level %d, $%d\n", s.Name, s.Level, s.Money)
			return nil
		},
	}
}
