// Package upgrade owns the purchasable upgrade tree: cost curve, purchase
// rules and unlock prerequisites.
package upgrade

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"devpet/internal/effect"
)

// CostGrowth is the per-level cost multiplier.
const CostGrowth = 1.5

var (
	ErrNotFound          = errors.New("upgrade not found")
	ErrLocked            = errors.New("upgrade is locked")
	ErrMaxLevel          = errors.New("upgrade is already at max level")
	ErrInsufficientFunds = errors.New("not enough money")
)

// RequirementKind selects which progress value gates an upgrade.
type RequirementKind string

const (
	RequireLevel   RequirementKind = "level"
	RequireMoney   RequirementKind = "money"
	RequireUpgrade RequirementKind = "upgrade"
)

// Requirement is the unlock condition of a locked upgrade.
type Requirement struct {
	Kind         RequirementKind `json:"kind"`
	Level        int             `json:"level,omitempty"`
	Money        int             `json:"money,omitempty"`
	UpgradeID    string          `json:"upgrade_id,omitempty"`
	UpgradeLevel int             `json:"upgrade_level,omitempty"`
}

// Describe renders the requirement for display.
func (r Requirement) Describe() string {
	switch r.Kind {
	case RequireLevel:
		return fmt.Sprintf("Reach level %d", r.Level)
	case RequireMoney:
		return fmt.Sprintf("Hold $%d", r.Money)
	case RequireUpgrade:
		return fmt.Sprintf("%s level %d", r.UpgradeID, r.UpgradeLevel)
	default:
		return "Unknown requirement"
	}
}

// Progress is the slice of pet state unlock checks read.
type Progress struct {
	Level int
	Money int
}

// Upgrade is one entry in the upgrade tree.
type Upgrade struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    effect.Category `json:"category"`
	Level       int             `json:"level"`
	MaxLevel    int             `json:"max_level"`
	BaseCost    int             `json:"base_cost"`
	BaseValue   float64         `json:"base_value"`
	Increment   float64         `json:"increment"`
	IsUnlocked  bool            `json:"is_unlocked"`
	Requirement *Requirement    `json:"requirement,omitempty"`
}

// EffectCategory implements effect.Source.
func (u Upgrade) EffectCategory() effect.Category {
	return u.Category
}

// EffectiveBonus implements effect.Source: BaseValue + Increment*(Level-1)
// for purchased upgrades, zero otherwise.
func (u Upgrade) EffectiveBonus() float64 {
	if u.Level < 1 {
		return 0
	}
	return u.BaseValue + u.Increment*float64(u.Level-1)
}

// Purchased reports whether the upgrade has been bought at least once.
func (u Upgrade) Purchased() bool {
	return u.Level > 0
}

// Maxed reports whether the upgrade is at its cap.
func (u Upgrade) Maxed() bool {
	return u.Level >= u.MaxLevel
}

// CostOf returns floor(BaseCost * 1.5^Level), or zero once maxed.
func CostOf(u Upgrade) int {
	if u.Maxed() {
		return 0
	}
	return int(math.Floor(float64(u.BaseCost) * math.Pow(CostGrowth, float64(u.Level))))
}

// Find returns the index of the upgrade with the given id, or -1.
func Find(upgrades []Upgrade, id string) int {
	for i, u := range upgrades {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// Clone copies the slice so callers can mutate it without aliasing.
func Clone(upgrades []Upgrade) []Upgrade {
	out := make([]Upgrade, len(upgrades))
	copy(out, upgrades)
	return out
}

// Purchase buys one level of the upgrade. It returns the new upgrade list and
// the remaining money. On error the inputs are returned unchanged.
func Purchase(upgrades []Upgrade, id string, money int) ([]Upgrade, int, error) {
	idx := Find(upgrades, id)
	if idx < 0 {
		return upgrades, money, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	u := upgrades[idx]
	if !u.IsUnlocked {
		return upgrades, money, fmt.Errorf("%w: %s", ErrLocked, id)
	}
	if u.Maxed() {
		return upgrades, money, fmt.Errorf("%w: %s", ErrMaxLevel, id)
	}

	cost := CostOf(u)
	if money < cost {
		return upgrades, money, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientFunds, id, cost, money)
	}

	next := Clone(upgrades)
	next[idx].Level++

	logrus.WithFields(logrus.Fields{
		"upgrade":       id,
		"upgrade_level": next[idx].Level,
		"cost":          cost,
	}).Info("Upgrade purchased")

	return next, money - cost, nil
}

// CheckUnlocks unlocks every locked upgrade whose requirement is satisfied.
// Requirements only ever become true, so repeated calls are idempotent.
func CheckUnlocks(upgrades []Upgrade, progress Progress) []Upgrade {
	var next []Upgrade
	for i, u := range upgrades {
		if u.IsUnlocked || !satisfied(u.Requirement, upgrades, progress) {
			continue
		}
		if next == nil {
			next = Clone(upgrades)
		}
		next[i].IsUnlocked = true
		logrus.WithField("upgrade", u.ID).Info("Upgrade unlocked")
	}
	if next == nil {
		return upgrades
	}
	// an unlock can satisfy another upgrade's prerequisite only after a
	// purchase, so a single pass is enough
	return next
}

// NewlyUnlocked lists ids unlocked in after but not in before.
func NewlyUnlocked(before, after []Upgrade) []Upgrade {
	var out []Upgrade
	for _, u := range after {
		idx := Find(before, u.ID)
		if u.IsUnlocked && (idx < 0 || !before[idx].IsUnlocked) {
			out = append(out, u)
		}
	}
	return out
}

func satisfied(req *Requirement, upgrades []Upgrade, progress Progress) bool {
	if req == nil {
		return true
	}
	switch req.Kind {
	case RequireLevel:
		return progress.Level >= req.Level
	case RequireMoney:
		return progress.Money >= req.Money
	case RequireUpgrade:
		idx := Find(upgrades, req.UpgradeID)
		return idx >= 0 && upgrades[idx].Level >= req.UpgradeLevel
	default:
		return false
	}
}
