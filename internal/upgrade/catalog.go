package upgrade

import "devpet/internal/effect"

// Defaults returns the full upgrade tree at level 0.
func Defaults() []Upgrade {
	return []Upgrade{
		{
			ID:         "keyboard",
			Name:       "Mechanical Keyboard",
			Category:   effect.MoneyMultiplier,
			MaxLevel:   10,
			BaseCost:   200,
			BaseValue:  0.10,
			Increment:  0.05,
			IsUnlocked: true,
		},
		{
			ID:         "coffee_machine",
			Name:       "Coffee Machine",
			Category:   effect.EnergyEfficiency,
			MaxLevel:   5,
			BaseCost:   150,
			BaseValue:  0.10,
			Increment:  0.05,
			IsUnlocked: true,
		},
		{
			ID:         "snack_drawer",
			Name:       "Snack Drawer",
			Category:   effect.HungerEfficiency,
			MaxLevel:   5,
			BaseCost:   120,
			BaseValue:  0.10,
			Increment:  0.05,
			IsUnlocked: true,
		},
		{
			ID:          "rubber_duck",
			Name:        "Rubber Duck",
			Category:    effect.HappinessGain,
			MaxLevel:    5,
			BaseCost:    250,
			BaseValue:   0.10,
			Increment:   0.10,
			Requirement: &Requirement{Kind: RequireMoney, Money: 500},
		},
		{
			ID:          "monitor",
			Name:        "4K Monitor",
			Category:    effect.XPMultiplier,
			MaxLevel:    5,
			BaseCost:    300,
			BaseValue:   0.10,
			Increment:   0.10,
			Requirement: &Requirement{Kind: RequireLevel, Level: 3},
		},
		{
			ID:          "ergonomic_chair",
			Name:        "Ergonomic Chair",
			Category:    effect.HealthRegeneration,
			MaxLevel:    5,
			BaseCost:    400,
			BaseValue:   0.20,
			Increment:   0.10,
			Requirement: &Requirement{Kind: RequireLevel, Level: 4},
		},
		{
			ID:          "second_monitor",
			Name:        "Second Monitor",
			Category:    effect.MoneyMultiplier,
			MaxLevel:    5,
			BaseCost:    800,
			BaseValue:   0.15,
			Increment:   0.10,
			Requirement: &Requirement{Kind: RequireUpgrade, UpgradeID: "keyboard", UpgradeLevel: 3},
		},
		{
			ID:          "standing_desk",
			Name:        "Standing Desk",
			Category:    effect.EnergyEfficiency,
			MaxLevel:    3,
			BaseCost:    600,
			BaseValue:   0.05,
			Increment:   0.05,
			Requirement: &Requirement{Kind: RequireLevel, Level: 6},
		},
	}
}

// Saved is the persisted form of an upgrade. Costs and values always come
// from the catalog so balance changes apply to existing saves.
type Saved struct {
	ID         string `json:"id"`
	Level      int    `json:"level"`
	IsUnlocked bool   `json:"is_unlocked"`
}

// ToSaved strips an upgrade list down to its persisted form.
func ToSaved(upgrades []Upgrade) []Saved {
	out := make([]Saved, 0, len(upgrades))
	for _, u := range upgrades {
		out = append(out, Saved{ID: u.ID, Level: u.Level, IsUnlocked: u.IsUnlocked})
	}
	return out
}

// Merge overlays saved progress onto the catalog. Catalog entries missing
// from the save keep their defaults; saved ids no longer in the catalog are
// dropped. Saved levels are clamped to the catalog's max level.
func Merge(catalog []Upgrade, saved []Saved) []Upgrade {
	out := Clone(catalog)
	for _, s := range saved {
		idx := Find(out, s.ID)
		if idx < 0 {
			continue
		}
		level := s.Level
		if level < 0 {
			level = 0
		}
		if level > out[idx].MaxLevel {
			level = out[idx].MaxLevel
		}
		out[idx].Level = level
		out[idx].IsUnlocked = out[idx].IsUnlocked || s.IsUnlocked
	}
	return out
}
