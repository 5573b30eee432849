package ui

import (
	"strings"
	"time"
)

// AnimationType selects the sequence played after an action.
type AnimationType int

const (
	AnimNone AnimationType = iota
	AnimFeed
	AnimPlay
	AnimWork
	AnimSleep
	AnimRevive
)

const defaultPace = 200 * time.Millisecond

// cel is one frame: an optional prop beside the pet's face and a sound
// effect printed under them.
type cel struct {
	prop string
	face string
	sfx  string
}

func (c cel) render() string {
	var b strings.Builder
	b.WriteString("\n   ")
	if c.prop != "" {
		b.WriteString(c.prop)
		b.WriteString("  ")
	}
	b.WriteString(c.face)
	b.WriteString("\n")
	if c.sfx != "" {
		b.WriteString("     *" + c.sfx + "*\n")
	}
	return b.String()
}

type sequence struct {
	pace time.Duration
	cels []cel
}

var sequences = map[AnimationType]sequence{
	AnimFeed: {cels: []cel{
		{prop: "🍖", face: "😺"},
		{prop: "🍖", face: "😸", sfx: "nom"},
		{prop: "🦴", face: "😋", sfx: "munch"},
		{face: "😻"},
	}},
	AnimPlay: {pace: 150 * time.Millisecond, cels: []cel{
		{prop: "🎾", face: "😺"},
		{prop: " 🎾", face: "😸"},
		{prop: "  🎾", face: "🙀", sfx: "boing"},
		{prop: " 🎾", face: "😸"},
		{face: "😹", sfx: "catch!"},
	}},
	AnimWork: {pace: 250 * time.Millisecond, cels: []cel{
		{prop: "⌨️", face: "😺"},
		{prop: "⌨️", face: "😼", sfx: "clack"},
		{prop: "⌨️", face: "😾", sfx: "clack clack"},
		{prop: "💰", face: "😸", sfx: "+$"},
	}},
	AnimSleep: {pace: 300 * time.Millisecond, cels: []cel{
		{prop: "🛏️", face: "😺"},
		{prop: "🛏️", face: "😪", sfx: "z"},
		{prop: "🛏️", face: "😴", sfx: "z z"},
		{prop: "🛏️", face: "😴", sfx: "z z z"},
	}},
	AnimRevive: {pace: 250 * time.Millisecond, cels: []cel{
		{face: "💀"},
		{prop: "💖", face: "💀"},
		{prop: "💖", face: "😿"},
		{prop: "✨", face: "😺"},
		{prop: "✨", face: "😸", sfx: "back!"},
	}},
}

// Animation is the sequence on screen. id tells its ticks apart from
// those of an animation it replaced.
type Animation struct {
	Type  AnimationType
	Frame int
	id    int
}

func (a Animation) Active() bool {
	return a.Type != AnimNone
}

// View renders the current frame. Past the end it holds the last one.
func (a Animation) View() string {
	cels := sequences[a.Type].cels
	if len(cels) == 0 {
		return ""
	}
	return cels[min(a.Frame, len(cels)-1)].render()
}

// Done reports whether every frame has been shown.
func (a Animation) Done() bool {
	return a.Frame >= len(sequences[a.Type].cels)
}

// Pace is how long each frame stays up.
func (a Animation) Pace() time.Duration {
	if p := sequences[a.Type].pace; p > 0 {
		return p
	}
	return defaultPace
}
