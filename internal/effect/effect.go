// Package effect composes per-upgrade percentage bonuses into the multipliers
// and reductions the simulation applies.
package effect

import (
	"fmt"
	"math"
)

// Category is the kind of stat an upgrade bonus applies to.
type Category string

const (
	MoneyMultiplier    Category = "money_multiplier"
	XPMultiplier       Category = "xp_multiplier"
	EnergyEfficiency   Category = "energy_efficiency"
	HungerEfficiency   Category = "hunger_efficiency"
	HappinessGain      Category = "happiness_gain"
	HealthRegeneration Category = "health_regeneration"
)

// Categories lists every effect category in display order.
var Categories = []Category{
	MoneyMultiplier,
	XPMultiplier,
	EnergyEfficiency,
	HungerEfficiency,
	HappinessGain,
	HealthRegeneration,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns a short human readable name.
func (c Category) Label() string {
	switch c {
	case MoneyMultiplier:
		return "Money"
	case XPMultiplier:
		return "XP"
	case EnergyEfficiency:
		return "Energy efficiency"
	case HungerEfficiency:
		return "Hunger efficiency"
	case HappinessGain:
		return "Happiness"
	case HealthRegeneration:
		return "Health regen"
	default:
		return string(c)
	}
}

// Source is anything contributing a bonus to a category.
type Source interface {
	EffectCategory() Category
	EffectiveBonus() float64
}

// TotalBonus sums the bonus of every source in the category. Sources at
// level 0 report a zero bonus and contribute nothing.
func TotalBonus[S Source](category Category, sources []S) float64 {
	total := 0.0
	for _, s := range sources {
		if s.EffectCategory() != category {
			continue
		}
		total += s.EffectiveBonus()
	}
	return total
}

// Multiplier returns 1 + TotalBonus for multiplicative gains.
func Multiplier[S Source](category Category, sources []S) float64 {
	return 1 + TotalBonus(category, sources)
}

// EffectiveReduction returns 1 - min(TotalBonus, cap) for cost reductions.
func EffectiveReduction[S Source](category Category, sources []S, cap float64) float64 {
	return 1 - math.Min(TotalBonus(category, sources), cap)
}

// ReducedCost scales a base cost by reduction and never drops below floor.
func ReducedCost(base, reduction, floor float64) float64 {
	cost := base * reduction
	if cost < floor {
		return floor
	}
	return cost
}

// FormatPercent renders a bonus as "+15%".
func FormatPercent(bonus float64) string {
	return fmt.Sprintf("+%.0f%%", bonus*100)
}
