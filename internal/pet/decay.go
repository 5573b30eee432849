package pet

import (
	"time"

	"github.com/sirupsen/logrus"

	"devpet/internal/effect"
	"devpet/internal/upgrade"
)

// Rates are the per-hour decay and recovery rates.
type Rates struct {
	SleepEnergyRegen    float64 `yaml:"sleep_energy_regen"`
	SleepHungerDecay    float64 `yaml:"sleep_hunger_decay"`
	AwakeHungerDecay    float64 `yaml:"awake_hunger_decay"`
	AwakeEnergyDecay    float64 `yaml:"awake_energy_decay"`
	AwakeHappinessDecay float64 `yaml:"awake_happiness_decay"`
	CriticalHealthDrain float64 `yaml:"critical_health_drain"`
	EfficiencyCap       float64 `yaml:"efficiency_cap"`
}

// DefaultRates returns the stock balance.
func DefaultRates() Rates {
	return Rates{
		SleepEnergyRegen:    40,
		SleepHungerDecay:    1,
		AwakeHungerDecay:    4,
		AwakeEnergyDecay:    3,
		AwakeHappinessDecay: 2,
		CriticalHealthDrain: 4,
		EfficiencyCap:       0.75,
	}
}

// Decay advances s by elapsed and anchors the result at now. The second
// return value is true only on the call where health first reaches zero.
func Decay(s Stats, elapsed time.Duration, now time.Time, upgrades []upgrade.Upgrade, r Rates) (Stats, bool) {
	s.LastUpdated = now
	if s.IsDead || elapsed <= 0 {
		return s, false
	}

	hours := elapsed.Hours()

	if s.Asleep() {
		regen := effect.Multiplier(effect.EnergyEfficiency, upgrades)
		s.Energy = Clamp(s.Energy + hours*r.SleepEnergyRegen*regen)
		s.Hunger = Clamp(s.Hunger - hours*r.SleepHungerDecay)
		logrus.WithFields(logrus.Fields{
			"hours":  hours,
			"energy": s.Energy,
			"hunger": s.Hunger,
		}).Debug("Sleep decay applied")
		return s, false
	}

	energyReduction := effect.EffectiveReduction(effect.EnergyEfficiency, upgrades, r.EfficiencyCap)
	hungerReduction := effect.EffectiveReduction(effect.HungerEfficiency, upgrades, r.EfficiencyCap)

	s.Hunger = Clamp(s.Hunger - hours*r.AwakeHungerDecay*hungerReduction)
	s.Energy = Clamp(s.Energy - hours*r.AwakeEnergyDecay*energyReduction)
	s.Happiness = Clamp(s.Happiness - hours*r.AwakeHappinessDecay)

	healthDelta := 0.0
	if s.Hunger < CriticalStatThreshold {
		healthDelta -= hours * r.CriticalHealthDrain
	}
	if s.Energy < CriticalStatThreshold {
		healthDelta -= hours * r.CriticalHealthDrain
	}

	before := s.Health
	s.Health = Clamp(s.Health + healthDelta)

	logrus.WithFields(logrus.Fields{
		"hours":     hours,
		"hunger":    s.Hunger,
		"energy":    s.Energy,
		"happiness": s.Happiness,
		"health":    s.Health,
	}).Debug("Awake decay applied")

	if before > 0 && s.Health <= 0 {
		s.Health = MinStat
		s.IsDead = true
		logrus.WithField("hours", hours).Warn("Pet died")
		return s, true
	}
	return s, false
}
