package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"devpet/internal/clock"
	"devpet/internal/config"
	"devpet/internal/game"
	"devpet/internal/notify"
	"devpet/internal/sim"
	"devpet/internal/store"
)

var testStart = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *clock.Mock) {
	t.Helper()
	cfg := config.Default()
	cfg.Actions.EventChance = 0
	clk := clock.NewMock(testStart)
	inbox := &notify.Recorder{}
	engine := game.New(game.Options{
		Config: cfg,
		Clock:  clk,
		Sink:   inbox,
		Writer: store.NewWriter(store.NewMemory(), 0),
		Rand:   func() float64 { return 1 },
	})
	return NewModel(engine, inbox, clk), clk
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func selectMenu(m Model, choice int) Model {
	m.Choice = choice
	return update(m, key("enter"))
}

func TestFeedFromMenu(t *testing.T) {
	m, _ := newTestModel(t)
	before := m.Stats.Hunger

	m = selectMenu(m, menuFeed)

	if m.Stats.Hunger <= before {
		t.Errorf("Expected hunger to rise above %.0f, got %.0f", before, m.Stats.Hunger)
	}
	if m.Animation.Type != AnimFeed {
		t.Errorf("Expected feed animation, got %v", m.Animation.Type)
	}
	if m.Message != "🍖 Yum!" {
		t.Errorf("Expected feed message, got %q", m.Message)
	}
}

func TestRejectedActionShowsMessage(t *testing.T) {
	m, _ := newTestModel(t)
	m = selectMenu(m, menuSleep)
	m.Animation = Animation{}

	m = selectMenu(m, menuFeed)

	if !strings.Contains(m.Message, "asleep") {
		t.Errorf("Expected asleep rejection, got %q", m.Message)
	}
	if m.Animation.Type != AnimNone {
		t.Error("Rejected action should not animate")
	}
}

func TestKeysIgnoredDuringAnimation(t *testing.T) {
	m, _ := newTestModel(t)
	m = selectMenu(m, menuFeed)
	hunger := m.Stats.Hunger

	m = selectMenu(m, menuFeed)

	if m.Stats.Hunger != hunger {
		t.Error("Expected input to be ignored while animating")
	}
}

func TestAnimationRunsToCompletion(t *testing.T) {
	m, _ := newTestModel(t)
	m = selectMenu(m, menuPlay)
	id := m.Animation.id

	for i := 0; i < len(sequences[AnimPlay].cels); i++ {
		m = update(m, animTickMsg{id: id})
	}

	if m.Animation.Active() {
		t.Errorf("Expected animation to finish, got frame %d", m.Animation.Frame)
	}
}

func TestStaleAnimationTickDropped(t *testing.T) {
	m, _ := newTestModel(t)
	m = selectMenu(m, menuPlay)

	m = update(m, animTickMsg{id: m.Animation.id - 1})

	if m.Animation.Frame != 0 {
		t.Errorf("Expected stale tick to be ignored, frame is %d", m.Animation.Frame)
	}
}

func TestTickAdvancesEngine(t *testing.T) {
	m, clk := newTestModel(t)
	before := m.Stats.Hunger

	clk.Advance(2 * time.Hour)
	m = update(m, tickMsg{gen: m.tickGen})

	if m.Stats.Hunger >= before {
		t.Errorf("Expected hunger to decay from %.0f, got %.0f", before, m.Stats.Hunger)
	}
}

func TestStaleTickDropped(t *testing.T) {
	m, clk := newTestModel(t)
	before := m.Stats.Hunger
	m.tickGen = 3

	clk.Advance(2 * time.Hour)
	m = update(m, tickMsg{gen: 2})

	if m.Stats.Hunger != before {
		t.Error("Expected tick from an old generation to be dropped")
	}
}

func TestModeChangeRearmsTick(t *testing.T) {
	m, _ := newTestModel(t)
	m = selectMenu(m, menuSleep)
	m.Animation = Animation{}
	gen := m.tickGen

	m.Choice = menuFastForward
	next, cmd := m.Update(key("enter"))
	m = next.(Model)

	if m.engine.Mode() != sim.FastForward {
		t.Fatalf("Expected fast-forward, got %v", m.engine.Mode())
	}
	if m.tickGen != gen+1 {
		t.Errorf("Expected tick generation %d, got %d", gen+1, m.tickGen)
	}
	if cmd == nil {
		t.Error("Expected a new tick command after mode change")
	}
}

func TestNoticesBecomeMessages(t *testing.T) {
	m, _ := newTestModel(t)

	m = selectMenu(m, menuDailyBonus)

	if !strings.Contains(m.Message, "Daily bonus") {
		t.Errorf("Expected daily bonus notice, got %q", m.Message)
	}
	if len(m.inbox.Notices()) != 0 {
		t.Error("Expected inbox to be drained")
	}
}

func TestEventChoiceKeysWithoutEvent(t *testing.T) {
	m, _ := newTestModel(t)
	before := m.Stats

	m = update(m, key("1"))

	if m.Stats != before {
		t.Error("Choice key without a pending event should do nothing")
	}
}

func TestUpgradeScreen(t *testing.T) {
	m, _ := newTestModel(t)
	m = selectMenu(m, menuUpgrades)
	if m.Screen != screenUpgrades {
		t.Fatalf("Expected upgrades screen, got %v", m.Screen)
	}
	if !strings.Contains(m.View(), "Upgrades") {
		t.Error("Expected upgrades header in view")
	}

	money := m.Stats.Money
	m = update(m, key("enter"))
	if m.Stats.Money >= money {
		t.Errorf("Expected first upgrade to be bought, money still %d", m.Stats.Money)
	}

	m = update(m, key("esc"))
	if m.Screen != screenMain {
		t.Error("Expected esc to return to the main screen")
	}
}

func TestItemScreenBuyAndUse(t *testing.T) {
	m, _ := newTestModel(t)
	m = selectMenu(m, menuItems)

	m = update(m, key("enter"))
	id := game.Items()[0].ID
	if got := m.engine.Snapshot().Inventory[id]; got != 1 {
		t.Fatalf("Expected one %s, got %d", id, got)
	}

	m = update(m, key("u"))
	if got := m.engine.Snapshot().Inventory[id]; got != 0 {
		t.Errorf("Expected %s to be used up, got %d", id, got)
	}
}

func TestDeadViewAndRevive(t *testing.T) {
	m, clk := newTestModel(t)
	clk.Advance(100 * time.Hour)
	m = update(m, tickMsg{gen: m.tickGen})

	if !m.Stats.IsDead {
		t.Fatal("Expected pet to starve")
	}
	if !strings.Contains(m.View(), "passed away") {
		t.Error("Expected dead view")
	}

	m = selectMenu(m, menuRevive)
	if m.Stats.IsDead {
		t.Error("Expected revive to bring the pet back")
	}
	if m.Animation.Type != AnimRevive {
		t.Errorf("Expected revive animation, got %v", m.Animation.Type)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(key("q"))
	if !next.(Model).Quitting {
		t.Error("Expected quitting")
	}
	if cmd == nil {
		t.Error("Expected quit command")
	}
	if next.View() != "Thanks for playing!\n" {
		t.Error("Expected goodbye view")
	}
}

func TestStatsCard(t *testing.T) {
	m, _ := newTestModel(t)
	card := StatsCard(m.engine.Snapshot())
	for _, want := range []string{m.Stats.Name, "Level:", "Hunger:", "Achievements:"} {
		if !strings.Contains(card, want) {
			t.Errorf("Expected stats card to contain %q", want)
		}
	}
}

func TestMakeBar(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "░░░░░"},
		{39.9, "█░░░░"},
		{100, "█████"},
	}
	for _, tt := range tests {
		if got := makeBar(tt.value); got != tt.expected {
			t.Errorf("makeBar(%v) = %q, want %q", tt.value, got, tt.expected)
		}
	}
}
