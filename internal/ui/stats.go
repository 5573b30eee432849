package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"devpet/internal/game"
	"devpet/internal/pet"
)

// StatsModel is a simple Bubble Tea model for displaying stats
type StatsModel struct {
	Snapshot game.Context
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, tea.Quit
		}
	}
	return m, nil
}

func makeBar(value float64) string {
	filled := int(value) / 20
	var bar strings.Builder
	for i := 0; i < 5; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteString("░")
		}
	}
	return bar.String()
}

// View implements tea.Model
func (m StatsModel) View() string {
	return StatsCard(m.Snapshot) + "\nPress ESC, click, or any key to close..."
}

// StatsCard renders a boxed summary of the pet.
func StatsCard(c game.Context) string {
	s := c.Stats
	unlocked := 0
	for _, a := range c.Achievements {
		if a.IsUnlocked {
			unlocked++
		}
	}
	purchased := 0
	for _, u := range c.Upgrades {
		if u.Purchased() {
			purchased++
		}
	}

	var b strings.Builder
	b.WriteString("╔════════════════════════════════════╗\n")
	b.WriteString(fmt.Sprintf("║  %-34s║\n", s.Name))
	b.WriteString("╠════════════════════════════════════╣\n")
	b.WriteString(fmt.Sprintf("║  Status:  %-25s║\n", pet.GetStatusWithLabel(s)))
	b.WriteString(fmt.Sprintf("║  Level:   %-25s║\n", fmt.Sprintf("%d (%d/%d XP)", s.Level, s.Experience, s.XPToNextLevel())))
	b.WriteString(fmt.Sprintf("║  Money:   %-25s║\n", fmt.Sprintf("$%d", s.Money)))
	b.WriteString(fmt.Sprintf("║  Streak:  %-25s║\n", fmt.Sprintf("%d days", s.Streak)))
	b.WriteString("║                                    ║\n")
	b.WriteString(fmt.Sprintf("║  Hunger:    [%s] %3.0f%%           ║\n", makeBar(s.Hunger), s.Hunger))
	b.WriteString(fmt.Sprintf("║  Happiness: [%s] %3.0f%%           ║\n", makeBar(s.Happiness), s.Happiness))
	b.WriteString(fmt.Sprintf("║  Energy:    [%s] %3.0f%%           ║\n", makeBar(s.Energy), s.Energy))
	b.WriteString(fmt.Sprintf("║  Health:    [%s] %3.0f%%           ║\n", makeBar(s.Health), s.Health))
	b.WriteString("║                                    ║\n")
	b.WriteString(fmt.Sprintf("║  Upgrades:     %-20s║\n", fmt.Sprintf("%d/%d", purchased, len(c.Upgrades))))
	b.WriteString(fmt.Sprintf("║  Achievements: %-20s║\n", fmt.Sprintf("%d/%d", unlocked, len(c.Achievements))))
	b.WriteString("╚════════════════════════════════════╝\n")
	return b.String()
}

// DisplayStats shows the stats display
func DisplayStats(c game.Context) error {
	program := tea.NewProgram(StatsModel{Snapshot: c}, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running stats display: %w", err)
	}
	return nil
}
