package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devpet/internal/pet"
	"devpet/internal/upgrade"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestEvaluateFreshSave(t *testing.T) {
	got := Evaluate(pet.NewStats(testNow), upgrade.Defaults(), Counters{})
	assert.Empty(t, got)
}

func TestEvaluateThresholds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*pet.Stats, []upgrade.Upgrade, *Counters)
		wantIDs []string
	}{
		{
			name:    "level 5",
			mutate:  func(s *pet.Stats, _ []upgrade.Upgrade, _ *Counters) { s.Level = 5 },
			wantIDs: []string{"hello_world", "junior_dev"},
		},
		{
			name:    "money earned",
			mutate:  func(_ *pet.Stats, _ []upgrade.Upgrade, c *Counters) { c.TotalMoneyEarned = 1500 },
			wantIDs: []string{"first_paycheck", "side_hustle"},
		},
		{
			name:    "streak",
			mutate:  func(s *pet.Stats, _ []upgrade.Upgrade, _ *Counters) { s.Streak = 7 },
			wantIDs: []string{"regular", "dedicated"},
		},
		{
			name:    "dizzy",
			mutate:  func(_ *pet.Stats, _ []upgrade.Upgrade, c *Counters) { c.DizzyCount = 5 },
			wantIDs: []string{"spinning_head"},
		},
		{
			name: "all stats high",
			mutate: func(s *pet.Stats, _ []upgrade.Upgrade, _ *Counters) {
				s.Hunger, s.Happiness, s.Energy, s.Health = 95, 91, 99, 100
			},
			wantIDs: []string{"work_life_balance"},
		},
		{
			name: "happiness full",
			mutate: func(s *pet.Stats, _ []upgrade.Upgrade, _ *Counters) {
				s.Happiness = 100
			},
			wantIDs: []string{"pure_joy"},
		},
		{
			name: "upgrades",
			mutate: func(_ *pet.Stats, ups []upgrade.Upgrade, _ *Counters) {
				ups[upgrade.Find(ups, "standing_desk")].Level = 3
			},
			wantIDs: []string{"first_upgrade", "maxed_out"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := pet.NewStats(testNow)
			ups := upgrade.Defaults()
			var c Counters
			tt.mutate(&s, ups, &c)

			got := Evaluate(s, ups, c)
			var ids []string
			for id := range got {
				ids = append(ids, id)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestDiffAndUnlockAreMonotonic(t *testing.T) {
	current := Defaults()
	satisfied := map[string]bool{"hello_world": true, "first_paycheck": true}

	fresh := Diff(current, satisfied)
	require.Equal(t, []string{"hello_world", "first_paycheck"}, fresh)

	current = Unlock(current, fresh)
	assert.Equal(t, []string{"first_paycheck", "hello_world"}, UnlockedIDs(current))

	// same state again: nothing new
	assert.Empty(t, Diff(current, satisfied))

	// condition no longer holds: still unlocked
	assert.Empty(t, Diff(current, map[string]bool{}))
	assert.Len(t, UnlockedIDs(current), 2)
}

func TestMerge(t *testing.T) {
	saved := []Achievement{
		{ID: "hello_world", IsUnlocked: true},
		{ID: "retired_badge", IsUnlocked: true},
		{ID: "regular", IsUnlocked: false},
	}

	merged := Merge(saved)
	assert.Len(t, merged, len(Definitions()))
	assert.Equal(t, []string{"hello_world"}, UnlockedIDs(merged))
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("senior_dev")
	require.True(t, ok)
	assert.Equal(t, "Senior Dev", d.Title)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}
