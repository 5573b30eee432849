// Package chase is the chase mini-game: the pet runs after a target across
// the terminal and the run is scored when it ends.
package chase

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"devpet/internal/game"
	"devpet/internal/pet"
)

const (
	tickInterval   = 70 * time.Millisecond
	minVisibleRows = 6

	petSpeed         = 10.0 // columns per second
	petVerticalSpeed = 6.0  // rows per second

	escapeScore   = 10
	minCatchScore = 30
)

const (
	emojiExcited   = "😻"
	emojiTired     = "😴"
	emojiEnergetic = "😼"
	emojiHungry    = "🙀"
	emojiSad       = "😿"
	emojiHappy     = "😸"
	emojiNeutral   = "😺"
)

// getChaseEmoji returns the appropriate emoji for the pet during chase based on its state
func getChaseEmoji(s pet.Stats, distX, distY int) string {
	if absInt(distX) <= 3 && absInt(distY) <= 1 {
		return emojiExcited
	}
	if s.Hunger < pet.LowStatThreshold {
		return emojiHungry
	}
	if s.Energy < pet.LowStatThreshold {
		return emojiTired
	} else if s.Energy > 80 {
		return emojiEnergetic
	}
	if s.Happiness < pet.LowStatThreshold {
		return emojiSad
	} else if s.Happiness > 80 {
		return emojiHappy
	}
	return emojiNeutral
}

// Target defines what the pet can chase
type Target struct {
	Emoji string
	Name  string
	Speed float64 // columns per second
}

// Available targets (extensible)
var Targets = map[string]Target{
	"butterfly": {Emoji: "🦋", Name: "butterfly", Speed: 8},
	"ball":      {Emoji: "⚽", Name: "ball", Speed: 6},
	"mouse":     {Emoji: "🐁", Name: "mouse", Speed: 12},
}

// Model is the Bubble Tea model for chase animation
type Model struct {
	Stats          pet.Stats
	Target         Target
	TermWidth      int
	TermHeight     int
	PetPosX        float64
	PetPosY        float64
	TargetPosX     float64
	TargetPosY     float64
	LastUpdateTime time.Time
	ElapsedTime    float64 // seconds
	Caught         bool
	Escaped        bool
}

type animTickMsg time.Time

// Player is the part of the engine a chase reports to.
type Player interface {
	Stats() pet.Stats
	PlayMiniGame(kind string, score int) (pet.Stats, error)
}

// Run plays one chase after targetName and reports the score. Quitting
// before the run ends records nothing.
func Run(p Player, targetName string) (pet.Stats, error) {
	target, ok := Targets[targetName]
	if !ok {
		return p.Stats(), fmt.Errorf("unknown chase target %q", targetName)
	}

	model := Model{
		Stats:      p.Stats(),
		Target:     target,
		TargetPosX: 5,
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return p.Stats(), fmt.Errorf("chase animation: %w", err)
	}
	return finish(p, final.(Model))
}

// finish records a run that ended on its own.
func finish(p Player, m Model) (pet.Stats, error) {
	if !m.Caught && !m.Escaped {
		return p.Stats(), nil
	}

	logrus.WithFields(logrus.Fields{
		"target":  m.Target.Name,
		"caught":  m.Caught,
		"seconds": m.ElapsedTime,
		"score":   m.Score(),
	}).Info("Chase finished")
	return p.PlayMiniGame(game.MiniGameChase, m.Score())
}

// Score rates a finished run. A catch scores higher the faster it came; an
// escaped target earns a consolation score.
func (m Model) Score() int {
	switch {
	case m.Caught:
		score := game.MaxScore - int(m.ElapsedTime*5)
		if score < minCatchScore {
			score = minCatchScore
		}
		return score
	case m.Escaped:
		return escapeScore
	default:
		return 0
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tick(),
		tea.EnterAltScreen,
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.TermWidth = msg.Width
		m.TermHeight = msg.Height
		m.clampPositions()
		return m, nil

	case animTickMsg:
		now := time.Time(msg)
		dt := 0.0
		if !m.LastUpdateTime.IsZero() {
			dt = now.Sub(m.LastUpdateTime).Seconds()
		}
		m.LastUpdateTime = now
		m.ElapsedTime += dt

		if m.TermWidth == 0 || m.TermHeight == 0 {
			return m, tick()
		}

		// Target drifts right and flutters along a sine wave
		m.TargetPosX += m.Target.Speed * dt
		if m.TargetPosX >= float64(m.maxX()) {
			m.Escaped = true
			return m, tea.Quit
		}

		height := float64(m.visibleRows())
		amplitude := height / 3.0
		centerY := height / 2.0
		frequency := 0.2
		m.TargetPosY = centerY + amplitude*math.Sin(m.TargetPosX*frequency)
		m.clampPositions()

		// Pet follows in 2D space
		distX := m.TargetPosX - m.PetPosX
		distY := m.TargetPosY - m.PetPosY
		if distX > 3 {
			m.PetPosX += petSpeed * dt
		}
		if distY > 1 {
			m.PetPosY += petVerticalSpeed * dt
		} else if distY < -1 {
			m.PetPosY -= petVerticalSpeed * dt
		}
		m.clampPositions()

		if math.Abs(m.TargetPosX-m.PetPosX) <= 1 && math.Abs(m.TargetPosY-m.PetPosY) < 1 {
			m.Caught = true
			return m, tea.Quit
		}

		return m, tick()
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if m.TermWidth == 0 || m.TermHeight == 0 {
		return "Initializing..."
	}

	rows := m.visibleRows()

	petX, petY := int(m.PetPosX), int(m.PetPosY)
	targetX, targetY := int(m.TargetPosX), int(m.TargetPosY)
	petEmoji := getChaseEmoji(m.Stats, targetX-petX, targetY-petY)

	grid := make([][]rune, rows-1)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", m.TermWidth))
	}

	place := func(x, y int, emoji string) {
		if y < 0 || y >= len(grid) || x < 0 || x >= m.TermWidth-2 {
			return
		}
		for i, r := range []rune(emoji) {
			if x+i < m.TermWidth {
				grid[y][x+i] = r
			}
		}
	}
	place(targetX, targetY, m.Target.Emoji)
	place(petX, petY, petEmoji)

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}

	result.WriteString("\nPress any key to exit")

	return result.String()
}

func (m *Model) clampPositions() {
	rows := m.visibleRows()
	if rows < 1 {
		return
	}

	maxX := float64(m.maxX())
	m.PetPosX = math.Max(0, math.Min(m.PetPosX, maxX))
	m.TargetPosX = math.Max(0, math.Min(m.TargetPosX, maxX))

	maxY := float64(rows - 1)
	m.PetPosY = math.Max(0, math.Min(m.PetPosY, maxY))
	m.TargetPosY = math.Max(0, math.Min(m.TargetPosY, maxY))
}

func (m Model) visibleRows() int {
	if m.TermHeight <= 0 {
		return 0
	}
	rows := m.TermHeight - 2 // leave space for instruction
	if rows < minVisibleRows {
		rows = minVisibleRows
	}
	return rows
}

func (m Model) maxX() int {
	if m.TermWidth <= 2 {
		return 0
	}
	return m.TermWidth - 2
}
