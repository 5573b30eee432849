package game

import (
	"time"

	"devpet/internal/achievement"
	"devpet/internal/pet"
	"devpet/internal/upgrade"
)

// Inventory counts owned items by id.
type Inventory map[string]int

// Context is everything the engine owns for one save. Actions never mutate
// the live Context; they build a new one and the engine swaps it in whole.
type Context struct {
	Stats        pet.Stats
	Upgrades     []upgrade.Upgrade
	Achievements []achievement.Achievement
	Counters     achievement.Counters
	Inventory    Inventory
	Pending      *pet.PendingEvent
}

// NewContext returns a fresh save anchored at now.
func NewContext(now time.Time) Context {
	return Context{
		Stats:        pet.NewStats(now),
		Upgrades:     upgrade.Defaults(),
		Achievements: achievement.Defaults(),
		Inventory:    Inventory{},
	}
}

// Clone returns a deep copy.
func (c Context) Clone() Context {
	out := c
	out.Upgrades = upgrade.Clone(c.Upgrades)
	out.Achievements = make([]achievement.Achievement, len(c.Achievements))
	copy(out.Achievements, c.Achievements)
	out.Inventory = make(Inventory, len(c.Inventory))
	for k, v := range c.Inventory {
		out.Inventory[k] = v
	}
	if c.Pending != nil {
		p := *c.Pending
		out.Pending = &p
	}
	return out
}

func (c Context) progress() upgrade.Progress {
	return upgrade.Progress{Level: c.Stats.Level, Money: c.Stats.Money}
}
