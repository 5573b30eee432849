package ui

import (
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"devpet/internal/clock"
	"devpet/internal/game"
	"devpet/internal/notify"
	"devpet/internal/pet"
	"devpet/internal/sim"
)

type screen int

const (
	screenMain screen = iota
	screenUpgrades
	screenItems
)

const messageDuration = 3 * time.Second

// Main menu entries, in display order.
const (
	menuFeed = iota
	menuPlay
	menuWork
	menuSleep
	menuFastForward
	menuSpin
	menuDailyBonus
	menuUpgrades
	menuItems
	menuRevive
	menuQuit
	menuCount
)

// Model represents the game screen. All state lives in the engine; the model
// only keeps a copy of the last stats it rendered.
type Model struct {
	engine *game.Engine
	inbox  *notify.Recorder
	clock  clock.Clock

	Stats          pet.Stats
	Choice         int
	ListChoice     int
	Screen         screen
	Quitting       bool
	Message        string
	MessageExpires time.Time
	Animation      Animation

	// tick generation; bumped whenever the scheduler mode changes so a tick
	// armed with the old interval is dropped
	tickGen int
	mode    sim.Mode

	animSeq int
}

type tickMsg struct {
	gen int
}

type animTickMsg struct {
	id int
}

// NewModel creates a model over engine. inbox must be one of the sinks the
// engine announces to; its notices are shown as toasts.
func NewModel(engine *game.Engine, inbox *notify.Recorder, c clock.Clock) Model {
	if c == nil {
		c = clock.Real{}
	}
	return Model{
		engine: engine,
		inbox:  inbox,
		clock:  c,
		Stats:  engine.Stats(),
		mode:   engine.Mode(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(m.engine.Interval(), func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func animTick(a Animation) tea.Cmd {
	return tea.Tick(a.Pace(), func(time.Time) tea.Msg {
		return animTickMsg{id: a.id}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While an animation is playing, ignore inputs except quit keys
		if m.Animation.Active() {
			switch msg.String() {
			case "ctrl+c", "q":
				m.Quitting = true
				return m, tea.Quit
			default:
				return m, nil
			}
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.Screen {
		case screenUpgrades, screenItems:
			cmd = m.updateList(msg)
		default:
			cmd = m.updateMain(msg)
		}

	case tickMsg:
		// Drop ticks armed before the last mode change
		if msg.gen != m.tickGen {
			return m, nil
		}
		m.engine.Tick(m.clock.Now())
		cmd = m.tick()

	case animTickMsg:
		// Drop ticks left over from an animation that was replaced
		if !m.Animation.Active() || m.Animation.id != msg.id {
			return m, nil
		}

		m.Animation.Frame++
		if m.Animation.Done() {
			m.Animation = Animation{}
			return m, nil
		}

		return m, animTick(m.Animation)
	}

	m.refresh()
	if mode := m.engine.Mode(); mode != m.mode {
		m.mode = mode
		m.tickGen++
		cmd = tea.Batch(cmd, m.tick())
	}
	return m, cmd
}

func (m *Model) updateMain(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "up", "k":
		if m.Choice > 0 {
			m.Choice--
		}
	case "down", "j":
		if m.Choice < menuCount-1 {
			m.Choice++
		}
	case "1", "2", "3", "4":
		m.resolveEvent(int(key[0] - '1'))
	case "enter", " ":
		return m.selectMain()
	}
	return nil
}

func (m *Model) selectMain() tea.Cmd {
	switch m.Choice {
	case menuFeed:
		return m.perform(AnimFeed, "🍖 Yum!", m.engine.Feed)
	case menuPlay:
		return m.perform(AnimPlay, "🎾 Wheee!", m.engine.Play)
	case menuWork:
		return m.perform(AnimWork, "💼 Shipped it!", m.engine.Work)
	case menuSleep:
		if m.Stats.IsAwake {
			return m.perform(AnimSleep, "", m.engine.ToggleSleep)
		}
		return m.perform(AnimNone, "☀️ Good morning!", m.engine.ToggleSleep)
	case menuFastForward:
		m.perform(AnimNone, "", m.engine.ToggleFastForward)
		if m.engine.Mode() == sim.FastForward {
			m.setMessage("⏩ Fast-forwarding sleep")
		}
	case menuSpin:
		score := rand.Intn(game.MaxScore + 1)
		return m.perform(AnimPlay, "🌀 Wheee!", func() (pet.Stats, error) {
			return m.engine.PlayMiniGame(game.MiniGameSpin, score)
		})
	case menuDailyBonus:
		return m.perform(AnimNone, "", m.engine.ClaimDailyBonus)
	case menuUpgrades:
		m.Screen = screenUpgrades
		m.ListChoice = 0
	case menuItems:
		m.Screen = screenItems
		m.ListChoice = 0
	case menuRevive:
		return m.perform(AnimRevive, "", m.engine.Revive)
	case menuQuit:
		m.Quitting = true
		return tea.Quit
	}
	return nil
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	n := m.listLen()
	switch msg.String() {
	case "esc", "b":
		m.Screen = screenMain
	case "up", "k":
		if m.ListChoice > 0 {
			m.ListChoice--
		}
	case "down", "j":
		if m.ListChoice < n-1 {
			m.ListChoice++
		}
	case "enter", " ":
		if m.ListChoice >= n {
			return nil
		}
		if m.Screen == screenUpgrades {
			id := m.engine.Snapshot().Upgrades[m.ListChoice].ID
			m.perform(AnimNone, "", func() (pet.Stats, error) {
				return m.engine.PurchaseUpgrade(id)
			})
			return nil
		}
		id := game.Items()[m.ListChoice].ID
		m.perform(AnimNone, "", func() (pet.Stats, error) {
			return m.engine.BuyItem(id)
		})
	case "u":
		if m.Screen == screenItems && m.ListChoice < n {
			id := game.Items()[m.ListChoice].ID
			return m.perform(AnimFeed, "", func() (pet.Stats, error) {
				return m.engine.UseItem(id)
			})
		}
	}
	return nil
}

func (m Model) listLen() int {
	if m.Screen == screenUpgrades {
		return len(m.engine.Snapshot().Upgrades)
	}
	return len(game.Items())
}

func (m *Model) resolveEvent(choice int) {
	pending, _, ok := m.engine.PendingEvent()
	if !ok {
		return
	}
	m.perform(AnimNone, "", func() (pet.Stats, error) {
		return m.engine.ResolveEvent(pending.ID, choice)
	})
}

// perform runs an engine action. A rejection becomes the toast; success
// starts anim and shows okMsg unless the engine announced something itself.
func (m *Model) perform(anim AnimationType, okMsg string, action func() (pet.Stats, error)) tea.Cmd {
	stats, err := action()
	m.Stats = stats
	if err != nil {
		if rej, ok := game.AsRejection(err); ok {
			m.setMessage(rej.Message)
		} else {
			logrus.WithError(err).Error("Action failed")
			m.setMessage("Something went wrong")
		}
		return nil
	}
	if okMsg != "" {
		m.setMessage(okMsg)
	}
	if anim == AnimNone {
		return nil
	}
	m.startAnimation(anim)
	return animTick(m.Animation)
}

// refresh pulls the latest stats and turns fresh notices into the toast.
func (m *Model) refresh() {
	m.Stats = m.engine.Stats()
	if m.inbox == nil {
		return
	}
	notices := m.inbox.Drain()
	if len(notices) == 0 {
		return
	}
	last := notices[len(notices)-1]
	text := last.Title
	if last.Body != "" {
		text += ": " + last.Body
	}
	m.setMessage(text)
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = m.clock.Now().Add(messageDuration)
}

func (m *Model) startAnimation(animType AnimationType) {
	m.animSeq++
	m.Animation = Animation{Type: animType, id: m.animSeq}
}

func (m Model) messageActive() bool {
	return m.Message != "" && m.clock.Now().Before(m.MessageExpires)
}
