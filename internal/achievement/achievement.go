// Package achievement evaluates which achievements the current state
// satisfies. Evaluation is a pure function; unlocking is one-way and owned by
// the caller.
package achievement

import (
	"sort"

	"devpet/internal/pet"
	"devpet/internal/upgrade"
)

// Counters are cumulative totals tracked alongside the stats.
type Counters struct {
	TotalMoneyEarned int    `json:"total_money_earned"`
	DizzyCount       int    `json:"dizzy_count"`
	WorkSessions     int    `json:"work_sessions"`
	MiniGamesPlayed  int    `json:"mini_games_played"`
	Revives          int    `json:"revives"`
	EventsResolved   int    `json:"events_resolved"`
	LastDailyBonus   string `json:"last_daily_bonus,omitempty"` // YYYY-MM-DD
}

// Achievement is the persisted unlock state of one definition.
type Achievement struct {
	ID         string `json:"id"`
	IsUnlocked bool   `json:"is_unlocked"`
}

// Definition describes an achievement and its threshold condition.
type Definition struct {
	ID          string
	Title       string
	Description string
	Check       func(s pet.Stats, ups []upgrade.Upgrade, c Counters) bool
}

func levelAtLeast(n int) func(pet.Stats, []upgrade.Upgrade, Counters) bool {
	return func(s pet.Stats, _ []upgrade.Upgrade, _ Counters) bool { return s.Level >= n }
}

func earnedAtLeast(n int) func(pet.Stats, []upgrade.Upgrade, Counters) bool {
	return func(_ pet.Stats, _ []upgrade.Upgrade, c Counters) bool { return c.TotalMoneyEarned >= n }
}

func streakAtLeast(n int) func(pet.Stats, []upgrade.Upgrade, Counters) bool {
	return func(s pet.Stats, _ []upgrade.Upgrade, _ Counters) bool { return s.Streak >= n }
}

// Definitions returns every achievement in display order.
func Definitions() []Definition {
	return []Definition{
		{ID: "hello_world", Title: "Hello, World", Description: "Reach level 2", Check: levelAtLeast(2)},
		{ID: "junior_dev", Title: "Junior Dev", Description: "Reach level 5", Check: levelAtLeast(5)},
		{ID: "senior_dev", Title: "Senior Dev", Description: "Reach level 10", Check: levelAtLeast(10)},
		{ID: "first_paycheck", Title: "First Paycheck", Description: "Earn $100 in total", Check: earnedAtLeast(100)},
		{ID: "side_hustle", Title: "Side Hustle", Description: "Earn $1,000 in total", Check: earnedAtLeast(1000)},
		{ID: "unicorn", Title: "Unicorn", Description: "Earn $10,000 in total", Check: earnedAtLeast(10000)},
		{ID: "regular", Title: "Regular", Description: "Keep a 3 day streak", Check: streakAtLeast(3)},
		{ID: "dedicated", Title: "Dedicated", Description: "Keep a 7 day streak", Check: streakAtLeast(7)},
		{
			ID: "pure_joy", Title: "Pure Joy", Description: "Reach 100 happiness",
			Check: func(s pet.Stats, _ []upgrade.Upgrade, _ Counters) bool { return s.Happiness >= pet.MaxStat },
		},
		{
			ID: "spinning_head", Title: "Spinning Head", Description: "Get dizzy 5 times",
			Check: func(_ pet.Stats, _ []upgrade.Upgrade, c Counters) bool { return c.DizzyCount >= 5 },
		},
		{
			ID: "work_life_balance", Title: "Work/Life Balance", Description: "All stats above 90 at once",
			Check: func(s pet.Stats, _ []upgrade.Upgrade, _ Counters) bool {
				return !s.IsDead && s.AllAbove(pet.HighStatThreshold)
			},
		},
		{
			ID: "first_upgrade", Title: "Desk Setup", Description: "Buy your first upgrade",
			Check: func(_ pet.Stats, ups []upgrade.Upgrade, _ Counters) bool {
				for _, u := range ups {
					if u.Purchased() {
						return true
					}
				}
				return false
			},
		},
		{
			ID: "maxed_out", Title: "Maxed Out", Description: "Max out any upgrade",
			Check: func(_ pet.Stats, ups []upgrade.Upgrade, _ Counters) bool {
				for _, u := range ups {
					if u.Maxed() {
						return true
					}
				}
				return false
			},
		},
	}
}

// Lookup returns the definition for id.
func Lookup(id string) (Definition, bool) {
	for _, d := range Definitions() {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Defaults returns every achievement, locked.
func Defaults() []Achievement {
	defs := Definitions()
	out := make([]Achievement, 0, len(defs))
	for _, d := range defs {
		out = append(out, Achievement{ID: d.ID})
	}
	return out
}

// Evaluate returns the set of achievement ids whose condition currently
// holds.
func Evaluate(s pet.Stats, ups []upgrade.Upgrade, c Counters) map[string]bool {
	satisfied := make(map[string]bool)
	for _, d := range Definitions() {
		if d.Check(s, ups, c) {
			satisfied[d.ID] = true
		}
	}
	return satisfied
}

// Diff returns the satisfied ids that are not yet unlocked, in definition
// order.
func Diff(current []Achievement, satisfied map[string]bool) []string {
	unlocked := make(map[string]bool, len(current))
	for _, a := range current {
		if a.IsUnlocked {
			unlocked[a.ID] = true
		}
	}

	var fresh []string
	for _, d := range Definitions() {
		if satisfied[d.ID] && !unlocked[d.ID] {
			fresh = append(fresh, d.ID)
		}
	}
	return fresh
}

// Unlock marks ids unlocked and returns the new list. Already unlocked
// entries are never touched.
func Unlock(current []Achievement, ids []string) []Achievement {
	next := make([]Achievement, len(current))
	copy(next, current)
	for _, id := range ids {
		for i := range next {
			if next[i].ID == id {
				next[i].IsUnlocked = true
			}
		}
	}
	return next
}

// Merge overlays saved unlocks onto the definitions. Unknown saved ids are
// dropped; definitions missing from the save stay locked.
func Merge(saved []Achievement) []Achievement {
	unlocked := make(map[string]bool, len(saved))
	for _, a := range saved {
		if a.IsUnlocked {
			unlocked[a.ID] = true
		}
	}
	out := Defaults()
	for i := range out {
		out[i].IsUnlocked = unlocked[out[i].ID]
	}
	return out
}

// UnlockedIDs lists unlocked ids, sorted.
func UnlockedIDs(current []Achievement) []string {
	var ids []string
	for _, a := range current {
		if a.IsUnlocked {
			ids = append(ids, a.ID)
		}
	}
	sort.Strings(ids)
	return ids
}
