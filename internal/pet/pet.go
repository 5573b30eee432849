package pet

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Stats is the pet's full well-being snapshot. It is a plain value: engine
// calls take a Stats and return a new one.
type Stats struct {
	Name        string    `json:"name"`
	Hunger      float64   `json:"hunger"`
	Happiness   float64   `json:"happiness"`
	Energy      float64   `json:"energy"`
	Health      float64   `json:"health"`
	Money       int       `json:"money"`
	Experience  int       `json:"experience"`
	Level       int       `json:"level"`
	Streak      int       `json:"streak"`
	IsAwake     bool      `json:"is_awake"`
	IsDizzy     bool      `json:"is_dizzy"`
	IsDead      bool      `json:"is_dead"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewStats creates a fresh pet anchored at now.
func NewStats(now time.Time) Stats {
	return Stats{
		Name:        DefaultPetName,
		Hunger:      DefaultHunger,
		Happiness:   DefaultHappiness,
		Energy:      DefaultEnergy,
		Health:      DefaultHealth,
		Money:       DefaultMoney,
		Level:       StartingLevel,
		IsAwake:     true,
		LastUpdated: now,
	}
}

// Asleep reports whether the pet is sleeping.
func (s Stats) Asleep() bool {
	return !s.IsAwake
}

// XPToNextLevel returns the experience needed to reach the next level.
func (s Stats) XPToNextLevel() int {
	return s.Level * XPPerLevel
}

// AllAbove reports whether hunger, happiness, energy and health all exceed v.
func (s Stats) AllAbove(v float64) bool {
	return s.Hunger > v && s.Happiness > v && s.Energy > v && s.Health > v
}

// Sanitize repairs values that escaped their bounds. A repair means a
// computation is wrong somewhere, so it is logged.
func (s Stats) Sanitize() Stats {
	repair := func(field string, v float64) float64 {
		if math.IsNaN(v) {
			logrus.WithField("field", field).Warn("Stat was NaN, resetting to minimum")
			return MinStat
		}
		c := Clamp(v)
		if c != v {
			logrus.WithFields(logrus.Fields{"field": field, "value": v}).Warn("Stat out of range, clamping")
		}
		return c
	}
	s.Hunger = repair("hunger", s.Hunger)
	s.Happiness = repair("happiness", s.Happiness)
	s.Energy = repair("energy", s.Energy)
	s.Health = repair("health", s.Health)

	if s.Money < 0 {
		logrus.WithField("money", s.Money).Warn("Negative money, clamping")
		s.Money = 0
	}
	if s.Experience < 0 {
		s.Experience = 0
	}
	if s.Streak < 0 {
		s.Streak = 0
	}
	if s.Level < StartingLevel {
		s.Level = StartingLevel
	}
	if s.IsDead {
		s.Health = MinStat
	}
	return s
}

// Delta is a one-shot adjustment to the bounded stats.
type Delta struct {
	Hunger    float64 `json:"hunger,omitempty"`
	Happiness float64 `json:"happiness,omitempty"`
	Energy    float64 `json:"energy,omitempty"`
	Health    float64 `json:"health,omitempty"`
}

// Apply adds the delta and clamps the result.
func (d Delta) Apply(s Stats) Stats {
	s.Hunger = Clamp(s.Hunger + d.Hunger)
	s.Happiness = Clamp(s.Happiness + d.Happiness)
	s.Energy = Clamp(s.Energy + d.Energy)
	s.Health = Clamp(s.Health + d.Health)
	return s
}

// Clamp bounds v to [MinStat, MaxStat].
func Clamp(v float64) float64 {
	return math.Max(MinStat, math.Min(v, MaxStat))
}
