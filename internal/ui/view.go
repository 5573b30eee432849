package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"devpet/internal/effect"
	"devpet/internal/game"
	"devpet/internal/pet"
	"devpet/internal/sim"
	"devpet/internal/upgrade"
)

var gameStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	stats   lipgloss.Style
	event   lipgloss.Style
	muted   lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF75B5")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(40),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(40),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	event: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFD700")),

	muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#777777")),
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}

	// Show animation if one is active
	if m.Animation.Active() {
		return m.renderAnimation()
	}

	switch m.Screen {
	case screenUpgrades:
		return m.renderUpgrades()
	case screenItems:
		return m.renderItems()
	}

	if m.Stats.IsDead {
		return m.deadView()
	}

	sections := []string{
		m.renderTitle(),
		"",
		m.renderStats(),
		"",
		m.renderStatus(),
	}

	if eventView := m.renderEvent(); eventView != "" {
		sections = append(sections, "", eventView)
	}

	if m.messageActive() {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}

	sections = append(sections,
		"",
		m.renderMenu(),
		"",
		gameStyles.status.Render("Use arrows to move • enter to select • q to quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitle() string {
	title := pet.GetStatus(m.Stats) + " " + m.Stats.Name
	if m.engine.Mode() == sim.FastForward {
		title += " ⏩"
	}
	if m.engine.Degraded() {
		title += " (unsaved)"
	}
	return gameStyles.title.Render(title)
}

func (m Model) renderStats() string {
	s := m.Stats
	stats := []struct {
		name, value string
	}{
		{"Level", fmt.Sprintf("%d (%d/%d XP)", s.Level, s.Experience, s.XPToNextLevel())},
		{"Money", fmt.Sprintf("$%d", s.Money)},
		{"Hunger", fmt.Sprintf("[%s] %3.0f%%", makeBar(s.Hunger), s.Hunger)},
		{"Happiness", fmt.Sprintf("[%s] %3.0f%%", makeBar(s.Happiness), s.Happiness)},
		{"Energy", fmt.Sprintf("[%s] %3.0f%%", makeBar(s.Energy), s.Energy)},
		{"Health", fmt.Sprintf("[%s] %3.0f%%", makeBar(s.Health), s.Health)},
		{"Streak", fmt.Sprintf("%d days", s.Streak)},
	}

	var lines []string
	for _, stat := range stats {
		lines = append(lines, fmt.Sprintf("%-10s %s", stat.name+":", stat.value))
	}

	return gameStyles.stats.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	return gameStyles.status.Render(fmt.Sprintf("Status: %s", pet.GetStatusWithLabel(m.Stats)))
}

func (m Model) renderEvent() string {
	pending, ev, ok := m.engine.PendingEvent()
	if !ok {
		return ""
	}
	lines := []string{
		gameStyles.event.Render(fmt.Sprintf("%s %s %s", ev.Emoji, m.Stats.Name, ev.Message)),
	}
	for i, c := range ev.Choices {
		lines = append(lines, fmt.Sprintf("  [%d] %s", i+1, c.Label))
	}
	left := pending.ExpiresAt.Sub(m.clock.Now()).Round(time.Second)
	if left < 0 {
		left = 0
	}
	lines = append(lines, gameStyles.muted.Render(fmt.Sprintf("  %s left to respond", left)))
	return strings.Join(lines, "\n")
}

func (m Model) menuLabels() []string {
	sleep := "Sleep"
	if m.Stats.Asleep() {
		sleep = "Wake up"
	}
	ff := "Fast-forward"
	if m.engine.Mode() == sim.FastForward {
		ff = "Stop fast-forward"
	}
	return []string{
		menuFeed:        "Feed",
		menuPlay:        "Play",
		menuWork:        "Work",
		menuSleep:       sleep,
		menuFastForward: ff,
		menuSpin:        "Spin",
		menuDailyBonus:  "Daily bonus",
		menuUpgrades:    "Upgrades",
		menuItems:       "Items",
		menuRevive:      "Revive",
		menuQuit:        "Quit",
	}
}

func (m Model) renderMenu() string {
	var menuItems []string

	for i, choice := range m.menuLabels() {
		cursor := " "
		if m.Choice == i {
			cursor = ">"
		}
		menuItems = append(menuItems, fmt.Sprintf("%s %s", cursor, choice))
	}

	return gameStyles.menuBox.Render(strings.Join(menuItems, "\n"))
}

func (m Model) renderUpgrades() string {
	ups := m.engine.Snapshot().Upgrades

	var rows []string
	for i, u := range ups {
		cursor := " "
		if m.ListChoice == i {
			cursor = ">"
		}
		rows = append(rows, cursor+" "+describeUpgrade(u))
	}

	return m.renderList("🛒 Upgrades", rows, "enter to buy • esc to go back")
}

func describeUpgrade(u upgrade.Upgrade) string {
	bonus := ""
	if u.Purchased() {
		bonus = " " + effect.FormatPercent(u.EffectiveBonus()) + " " + u.Category.Label()
	}
	switch {
	case !u.IsUnlocked:
		req := "locked"
		if u.Requirement != nil {
			req = u.Requirement.Describe()
		}
		return fmt.Sprintf("🔒 %s (%s)", u.Name, req)
	case u.Maxed():
		return fmt.Sprintf("%s Lv%d/%d MAX%s", u.Name, u.Level, u.MaxLevel, bonus)
	default:
		return fmt.Sprintf("%s Lv%d/%d $%d%s", u.Name, u.Level, u.MaxLevel, upgrade.CostOf(u), bonus)
	}
}

func (m Model) renderItems() string {
	inv := m.engine.Snapshot().Inventory

	var rows []string
	for i, it := range game.Items() {
		cursor := " "
		if m.ListChoice == i {
			cursor = ">"
		}
		rows = append(rows, fmt.Sprintf("%s %s %-14s $%-3d x%d", cursor, it.Emoji, it.Name, it.Price, inv[it.ID]))
	}

	return m.renderList("🎒 Items", rows, "enter to buy • u to use • esc to go back")
}

func (m Model) renderList(header string, rows []string, help string) string {
	sections := []string{
		gameStyles.title.Render(header),
		gameStyles.status.Render(fmt.Sprintf("Money: $%d", m.Stats.Money)),
		"",
		gameStyles.menuBox.Render(strings.Join(rows, "\n")),
	}
	if m.messageActive() {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}
	sections = append(sections, "", gameStyles.status.Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderAnimation() string {
	frame := m.Animation.View()

	animStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD700")).
		Bold(true).
		Padding(1, 2)

	sections := []string{
		m.renderTitle(),
		"",
		animStyle.Render(frame),
	}

	if m.messageActive() {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) deadView() string {
	sections := []string{
		gameStyles.title.Render(pet.StatusEmojiDead + " " + m.Stats.Name + " " + pet.StatusEmojiDead),
		"",
		gameStyles.status.Render("Your pet has passed away..."),
		gameStyles.status.Render(fmt.Sprintf("It reached level %d.", m.Stats.Level)),
	}
	if m.messageActive() {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}
	sections = append(sections,
		"",
		m.renderMenu(),
		"",
		gameStyles.status.Render("Choose Revive to bring it back • q to quit"),
	)
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}
