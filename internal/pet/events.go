package pet

import (
	"time"
)

// Event type constants
const (
	EventChasing        = "chasing"
	EventFoundSomething = "found"
	EventScared         = "scared"
	EventDaydreaming    = "daydreaming"
	EventAteSomething   = "ate_something"
	EventZoomies        = "zoomies"
	EventCuddles        = "cuddles"
	EventBugReport      = "bug_report"
	EventHackathon      = "hackathon"
)

// EffectKind tags what an Effect does. Effects are data so events can be
// stored, inspected and tested without running callbacks.
type EffectKind string

const (
	EffectAdjustStats EffectKind = "adjust_stats"
	EffectGrantXP     EffectKind = "grant_xp"
	EffectGrantMoney  EffectKind = "grant_money"
	EffectSleep       EffectKind = "sleep"
	EffectWake        EffectKind = "wake"
)

// Effect is one mutation requested by an event choice.
type Effect struct {
	Kind   EffectKind `json:"kind"`
	Delta  Delta      `json:"delta,omitempty"`
	Amount int        `json:"amount,omitempty"`
}

// Adjust builds an EffectAdjustStats effect.
func Adjust(d Delta) Effect {
	return Effect{Kind: EffectAdjustStats, Delta: d}
}

// GrantXP builds an EffectGrantXP effect.
func GrantXP(amount int) Effect {
	return Effect{Kind: EffectGrantXP, Amount: amount}
}

// GrantMoney builds an EffectGrantMoney effect.
func GrantMoney(amount int) Effect {
	return Effect{Kind: EffectGrantMoney, Amount: amount}
}

// Choice is one way the player can respond to an event.
type Choice struct {
	Label   string   `json:"label"`
	Message string   `json:"message"`
	Effects []Effect `json:"effects"`
}

// Event describes a random life event and how it can be resolved.
type Event struct {
	Type      string             `json:"type"`
	Emoji     string             `json:"emoji"`
	Message   string             `json:"message"`
	Duration  time.Duration      `json:"duration"`
	Chance    float64            `json:"chance"`
	Condition func(s Stats) bool `json:"-"`
	Choices   []Choice           `json:"choices"`
	OnIgnored []Effect           `json:"on_ignored,omitempty"`
}

// PendingEvent is an event waiting for the player's choice.
type PendingEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the event can no longer be answered at now.
func (p PendingEvent) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Events returns all possible events with their properties
func Events() []Event {
	return []Event{
		{
			Type:     EventChasing,
			Emoji:    "🦋",
			Message:  "is chasing a butterfly!",
			Duration: 10 * time.Minute,
			Chance:   0.15,
			Condition: func(s Stats) bool {
				return s.IsAwake && s.Energy > 30
			},
			Choices: []Choice{
				{Label: "Watch together", Message: "🎉 You watched together! (+10 happiness)", Effects: []Effect{
					Adjust(Delta{Happiness: 10, Energy: -5}),
				}},
				{Label: "Keep working", Message: "The butterfly flew away."},
			},
		},
		{
			Type:     EventFoundSomething,
			Emoji:    "🎁",
			Message:  "found something under the desk!",
			Duration: 15 * time.Minute,
			Chance:   0.1,
			Condition: func(s Stats) bool {
				return s.IsAwake && s.Energy > 20
			},
			Choices: []Choice{
				{Label: "Check it out", Message: "🍪 It was a tasty treat! (+20 hunger)", Effects: []Effect{
					Adjust(Delta{Hunger: 20}),
				}},
				{Label: "Throw it away", Message: "🗑️ Probably for the best.", Effects: []Effect{
					Adjust(Delta{Happiness: -5}),
				}},
			},
			OnIgnored: []Effect{Adjust(Delta{Health: -10})},
		},
		{
			Type:     EventScared,
			Emoji:    "⚡",
			Message:  "is scared of the server alarm!",
			Duration: 5 * time.Minute,
			Chance:   0.08,
			Condition: func(s Stats) bool {
				return s.IsAwake && s.Happiness < 70
			},
			Choices: []Choice{
				{Label: "Comfort", Message: "🤗 You comforted them! (+20 happiness)", Effects: []Effect{
					Adjust(Delta{Happiness: 20}),
				}},
			},
			OnIgnored: []Effect{Adjust(Delta{Happiness: -15})},
		},
		{
			Type:     EventDaydreaming,
			Emoji:    "💭",
			Message:  "is daydreaming about a rewrite...",
			Duration: 8 * time.Minute,
			Chance:   0.12,
			Condition: func(s Stats) bool {
				return s.IsAwake && s.Happiness > 50 && s.Energy > 40
			},
			Choices: []Choice{
				{Label: "Listen", Message: "💭 Planning world domination (cutely)...", Effects: []Effect{
					GrantXP(5),
				}},
			},
		},
		{
			Type:     EventAteSomething,
			Emoji:    "🤢",
			Message:  "ate something weird!",
			Duration: 10 * time.Minute,
			Chance:   0.05,
			Condition: func(s Stats) bool {
				return s.IsAwake && s.Hunger < 50
			},
			Choices: []Choice{
				{Label: "Give medicine", Message: "💊 Just in time! (-5 health only)", Effects: []Effect{
					Adjust(Delta{Health: -5}),
				}},
			},
			OnIgnored: []Effect{Adjust(Delta{Health: -20})},
		},
		{
			Type:     EventZoomies,
			Emoji:    "💨",
			Message:  "has the zoomies!",
			Duration: 3 * time.Minute,
			Chance:   0.1,
			Condition: func(s Stats) bool {
				return s.IsAwake && s.Energy > 70
			},
			Choices: []Choice{
				{Label: "Join in", Message: "🏃 Exhausting but fun! (+15 happiness, -20 energy)", Effects: []Effect{
					Adjust(Delta{Happiness: 15, Energy: -20}),
				}},
			},
			OnIgnored: []Effect{Adjust(Delta{Happiness: 5, Energy: -15})},
		},
		{
			Type:     EventCuddles,
			Emoji:    "🥺",
			Message:  "wants cuddles!",
			Duration: 10 * time.Minute,
			Chance:   0.12,
			Condition: func(s Stats) bool {
				return s.IsAwake && s.Happiness < 50
			},
			Choices: []Choice{
				{Label: "Cuddle", Message: "💕 So cozy! (+25 happiness, +5 energy)", Effects: []Effect{
					Adjust(Delta{Happiness: 25, Energy: 5}),
				}},
				{Label: "Send to bed", Message: "😴 Off to bed.", Effects: []Effect{
					{Kind: EffectSleep},
				}},
			},
			OnIgnored: []Effect{Adjust(Delta{Happiness: -10})},
		},
		{
			Type:     EventBugReport,
			Emoji:    "🐛",
			Message:  "got paged about a production bug!",
			Duration: 20 * time.Minute,
			Chance:   0.06,
			Condition: func(s Stats) bool {
				return s.IsAwake && s.Energy > 25
			},
			Choices: []Choice{
				{Label: "Fix it", Message: "🔧 Bug squashed! (+$40, +20 XP)", Effects: []Effect{
					Adjust(Delta{Energy: -15, Happiness: -5}),
					GrantMoney(40),
					GrantXP(20),
				}},
				{Label: "Escalate", Message: "📟 Someone else's problem now."},
			},
			OnIgnored: []Effect{Adjust(Delta{Happiness: -10})},
		},
		{
			Type:     EventHackathon,
			Emoji:    "🏆",
			Message:  "was invited to an all-night hackathon!",
			Duration: 30 * time.Minute,
			Chance:   0.03,
			Condition: func(s Stats) bool {
				return s.IsAwake && s.Energy > 60 && s.Level >= 2
			},
			Choices: []Choice{
				{Label: "Go", Message: "🏆 Third place! (+$100, +50 XP)", Effects: []Effect{
					Adjust(Delta{Energy: -40, Hunger: -20, Happiness: 10}),
					GrantMoney(100),
					GrantXP(50),
				}},
				{Label: "Sleep instead", Message: "🛌 Rest is productive too.", Effects: []Effect{
					{Kind: EffectSleep},
				}},
			},
		},
	}
}

// EventByType returns the definition for a given event type
func EventByType(eventType string) (Event, bool) {
	for _, def := range Events() {
		if def.Type == eventType {
			return def, true
		}
	}
	return Event{}, false
}

// RollEvent picks the first eligible event whose chance roll succeeds.
// Dead or sleeping pets get no events.
func RollEvent(s Stats, roll func() float64) (Event, bool) {
	if s.IsDead || s.Asleep() {
		return Event{}, false
	}
	for _, def := range Events() {
		if def.Condition(s) && roll() < def.Chance {
			return def, true
		}
	}
	return Event{}, false
}
