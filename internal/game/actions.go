package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"devpet/internal/effect"
	"devpet/internal/pet"
	"devpet/internal/sim"
	"devpet/internal/upgrade"
)

// Mini-game kinds accepted by PlayMiniGame.
const (
	MiniGameChase  = "chase"
	MiniGameTyping = "typing"
	MiniGameSpin   = "spin"
)

// MaxScore is the best score a mini-game can report.
const MaxScore = 100

// MaxExperienceGrant caps a single GainExperience call so one grant can't
// level the pet forever while the engine is locked.
const MaxExperienceGrant = 100_000

// MiniGames lists the accepted mini-game kinds.
var MiniGames = []string{MiniGameChase, MiniGameTyping, MiniGameSpin}

// act runs fn inside a transaction. A rejection drops everything fn did,
// but the elapsed time settled before it still commits.
func (e *Engine) act(name string, fn func(t *tx) error) (pet.Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	t := e.begin(now)
	if err := fn(t); err != nil {
		logrus.WithFields(logrus.Fields{"action": name, "reason": err}).Info("Action rejected")
		if settled := e.begin(now); settled.settled {
			e.commit(settled)
		}
		return e.ctx.Stats, err
	}
	e.commit(t)
	logrus.WithField("action", name).Debug("Action applied")
	return e.ctx.Stats, nil
}

func requireAlive(t *tx) error {
	if t.Stats.IsDead {
		return reject(RejectValidation, ErrDead, "%s can't do anything until revived.", t.Stats.Name)
	}
	return nil
}

// requireActive guards actions that need an awake, steady pet.
func requireActive(t *tx) error {
	if err := requireAlive(t); err != nil {
		return err
	}
	if t.Stats.Asleep() {
		return reject(RejectValidation, ErrAsleep, "%s is asleep.", t.Stats.Name)
	}
	if t.Stats.IsDizzy {
		return reject(RejectValidation, ErrDizzy, "%s is too dizzy. A nap will help.", t.Stats.Name)
	}
	return nil
}

func (e *Engine) energyCost(t *tx, base float64) float64 {
	reduction := effect.EffectiveReduction(effect.EnergyEfficiency, t.Upgrades, e.cfg.Rates.EfficiencyCap)
	return effect.ReducedCost(base, reduction, e.cfg.Effects.EnergyCostFloor)
}

func (e *Engine) hungerCost(t *tx, base float64) float64 {
	reduction := effect.EffectiveReduction(effect.HungerEfficiency, t.Upgrades, e.cfg.Rates.EfficiencyCap)
	return effect.ReducedCost(base, reduction, 0)
}

func (e *Engine) spendEnergy(t *tx, base float64) error {
	cost := e.energyCost(t, base)
	if t.Stats.Energy < cost {
		return reject(RejectInsufficient, ErrNoEnergy, "%s is too tired (needs %.0f energy).", t.Stats.Name, cost)
	}
	t.Stats.Energy -= cost
	return nil
}

func scaled(base int, mult float64) int {
	return int(math.Floor(float64(base) * mult))
}

func (e *Engine) cheerUp(t *tx, base float64) {
	t.Stats.Happiness = pet.Clamp(t.Stats.Happiness + base*effect.Multiplier(effect.HappinessGain, t.Upgrades))
}

func (e *Engine) makeDizzy(t *tx) {
	if t.Stats.IsDizzy {
		return
	}
	t.Stats.IsDizzy = true
	t.Counters.DizzyCount++
	t.announce(pet.StatusEmojiDizzy+" "+t.Stats.Name+" is dizzy", "Let them sleep it off.")
}

// gainExperience adds raw experience and levels up as many times as it
// covers.
func (e *Engine) gainExperience(t *tx, amount int) {
	if amount <= 0 {
		return
	}
	t.Stats.Experience += amount
	for t.Stats.Experience >= t.Stats.XPToNextLevel() {
		t.Stats.Experience -= t.Stats.XPToNextLevel()
		t.Stats.Level++
		t.announce("🎉 Level up!", fmt.Sprintf("%s reached level %d.", t.Stats.Name, t.Stats.Level))
		logrus.WithField("pet_level", t.Stats.Level).Info("Level up")
	}
}

func (e *Engine) earn(t *tx, amount int) {
	if amount <= 0 {
		return
	}
	t.Stats.Money = addCapped(t.Stats.Money, amount)
	t.Counters.TotalMoneyEarned = addCapped(t.Counters.TotalMoneyEarned, amount)
}

// addCapped adds two non-negative ints, stopping at math.MaxInt.
func addCapped(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

// Feed fills the pet up. Refused when it is dead, asleep or already full.
func (e *Engine) Feed() (pet.Stats, error) {
	return e.act("feed", func(t *tx) error {
		if err := requireAlive(t); err != nil {
			return err
		}
		if t.Stats.Asleep() {
			return reject(RejectValidation, ErrAsleep, "%s is asleep.", t.Stats.Name)
		}
		a := e.cfg.Actions
		if t.Stats.Hunger >= a.FeedMaxHunger {
			return reject(RejectValidation, ErrFull, "%s is not hungry.", t.Stats.Name)
		}
		t.Stats.Hunger = pet.Clamp(t.Stats.Hunger + a.FeedHunger)
		t.Stats.Health = pet.Clamp(t.Stats.Health + a.FeedHealth*effect.Multiplier(effect.HealthRegeneration, t.Upgrades))
		e.cheerUp(t, a.FeedHappiness)
		return nil
	})
}

// Play spends energy for happiness and experience. Playing into low energy
// makes the pet dizzy.
func (e *Engine) Play() (pet.Stats, error) {
	return e.act("play", func(t *tx) error {
		if err := requireActive(t); err != nil {
			return err
		}
		a := e.cfg.Actions
		if err := e.spendEnergy(t, a.PlayEnergy); err != nil {
			return err
		}
		t.Stats.Hunger = pet.Clamp(t.Stats.Hunger - e.hungerCost(t, a.PlayHunger))
		e.cheerUp(t, a.PlayHappiness)
		e.gainExperience(t, scaled(a.PlayXP, effect.Multiplier(effect.XPMultiplier, t.Upgrades)))
		if t.Stats.Energy < pet.DizzyEnergyThreshold {
			e.makeDizzy(t)
		}
		return nil
	})
}

// Work earns money scaled by level and the money multiplier.
func (e *Engine) Work() (pet.Stats, error) {
	return e.act("work", func(t *tx) error {
		if err := requireActive(t); err != nil {
			return err
		}
		a := e.cfg.Actions
		if err := e.spendEnergy(t, a.WorkEnergy); err != nil {
			return err
		}
		t.Stats.Hunger = pet.Clamp(t.Stats.Hunger - e.hungerCost(t, a.WorkHunger))
		t.Stats.Happiness = pet.Clamp(t.Stats.Happiness - a.WorkHappiness)

		pay := scaled(a.WorkPay*t.Stats.Level, effect.Multiplier(effect.MoneyMultiplier, t.Upgrades))
		e.earn(t, pay)
		e.gainExperience(t, scaled(a.WorkXP, effect.Multiplier(effect.XPMultiplier, t.Upgrades)))
		t.Counters.WorkSessions++
		return nil
	})
}

// ToggleSleep puts the pet to bed or wakes it. Sleeping clears dizziness.
func (e *Engine) ToggleSleep() (pet.Stats, error) {
	return e.act("toggle_sleep", func(t *tx) error {
		if err := requireAlive(t); err != nil {
			return err
		}
		if t.Stats.IsAwake {
			t.Stats.IsAwake = false
			t.Stats.IsDizzy = false
		} else {
			t.Stats.IsAwake = true
		}
		return nil
	})
}

// ToggleFastForward flips the scheduler mode. Turning it on needs a
// sleeping, living pet; it turns itself off when the pet wakes or dies.
func (e *Engine) ToggleFastForward() (pet.Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.ctx.Stats
	if e.sched.Mode() == sim.FastForward {
		e.setMode(sim.Normal)
		return s, nil
	}
	if s.IsDead {
		return s, reject(RejectValidation, ErrDead, "%s can't do anything until revived.", s.Name)
	}
	if !s.Asleep() {
		return s, reject(RejectValidation, ErrNotAsleep, "Fast-forward only works while %s sleeps.", s.Name)
	}
	e.setMode(sim.FastForward)
	return s, nil
}

// Revive brings a dead pet back with partial stats.
func (e *Engine) Revive() (pet.Stats, error) {
	return e.act("revive", func(t *tx) error {
		if !t.Stats.IsDead {
			return reject(RejectValidation, ErrNotDead, "%s is alive and well.", t.Stats.Name)
		}
		a := e.cfg.Actions
		t.Stats.IsDead = false
		t.Stats.IsAwake = true
		t.Stats.IsDizzy = false
		t.Stats.Health = pet.Clamp(a.ReviveHealth * effect.Multiplier(effect.HealthRegeneration, t.Upgrades))
		t.Stats.Hunger = math.Max(t.Stats.Hunger, a.ReviveStats)
		t.Stats.Energy = math.Max(t.Stats.Energy, a.ReviveStats)
		t.Stats.Happiness = math.Max(t.Stats.Happiness, a.ReviveStats)
		t.Stats.LastUpdated = t.now
		t.Counters.Revives++
		t.announce("💖 "+t.Stats.Name+" is back!", "Take better care this time.")
		return nil
	})
}

// PurchaseUpgrade buys one level of the upgrade id.
func (e *Engine) PurchaseUpgrade(id string) (pet.Stats, error) {
	return e.act("purchase_upgrade", func(t *tx) error {
		if err := requireAlive(t); err != nil {
			return err
		}
		ups, money, err := upgrade.Purchase(t.Upgrades, id, t.Stats.Money)
		switch {
		case errors.Is(err, upgrade.ErrInsufficientFunds):
			u := t.Upgrades[upgrade.Find(t.Upgrades, id)]
			return reject(RejectInsufficient, err, "%s costs $%d, you have $%d.", u.Name, upgrade.CostOf(u), t.Stats.Money)
		case errors.Is(err, upgrade.ErrNotFound):
			return reject(RejectValidation, err, "There is no upgrade called %q.", id)
		case errors.Is(err, upgrade.ErrLocked):
			u := t.Upgrades[upgrade.Find(t.Upgrades, id)]
			if u.Requirement == nil {
				return reject(RejectValidation, err, "%s is locked.", u.Name)
			}
			return reject(RejectValidation, err, "%s is locked: %s.", u.Name, u.Requirement.Describe())
		case errors.Is(err, upgrade.ErrMaxLevel):
			return reject(RejectValidation, err, "That upgrade is already maxed out.")
		case err != nil:
			return reject(RejectValidation, err, "Purchase failed.")
		}

		t.Upgrades = ups
		t.Stats.Money = money
		u := ups[upgrade.Find(ups, id)]
		t.announce("🛒 "+u.Name, fmt.Sprintf("Level %d: %s %s", u.Level, effect.FormatPercent(u.EffectiveBonus()), u.Category.Label()))
		return nil
	})
}

// GainExperience grants raw experience.
func (e *Engine) GainExperience(amount int) (pet.Stats, error) {
	return e.act("gain_experience", func(t *tx) error {
		if amount < 0 {
			return reject(RejectValidation, ErrBadAmount, "Experience can't be negative.")
		}
		if amount > MaxExperienceGrant {
			return reject(RejectValidation, ErrBadAmount, "At most %d experience at a time.", MaxExperienceGrant)
		}
		if err := requireAlive(t); err != nil {
			return err
		}
		e.gainExperience(t, amount)
		return nil
	})
}

// EarnMoney grants raw money and counts it as earned.
func (e *Engine) EarnMoney(amount int) (pet.Stats, error) {
	return e.act("earn_money", func(t *tx) error {
		if amount < 0 {
			return reject(RejectValidation, ErrBadAmount, "Money can't be negative.")
		}
		if err := requireAlive(t); err != nil {
			return err
		}
		if amount > math.MaxInt-t.Stats.Money {
			return reject(RejectValidation, ErrBadAmount, "%s can't hold that much money.", t.Stats.Name)
		}
		e.earn(t, amount)
		return nil
	})
}

// PlayMiniGame records a finished mini-game. Rewards scale with score,
// which must be within [0, MaxScore]. Spinning always leaves the pet dizzy.
func (e *Engine) PlayMiniGame(kind string, score int) (pet.Stats, error) {
	return e.act("mini_game", func(t *tx) error {
		switch kind {
		case MiniGameChase, MiniGameTyping, MiniGameSpin:
		default:
			return reject(RejectValidation, ErrUnknownGame, "There is no mini-game called %q.", kind)
		}
		if score < 0 || score > MaxScore {
			return reject(RejectValidation, ErrBadAmount, "Score must be between 0 and %d.", MaxScore)
		}
		if err := requireActive(t); err != nil {
			return err
		}
		a := e.cfg.Actions
		if err := e.spendEnergy(t, a.MiniGameEnergy); err != nil {
			return err
		}

		e.cheerUp(t, a.MiniGameHappiness)
		e.gainExperience(t, scaled(score/5, effect.Multiplier(effect.XPMultiplier, t.Upgrades)))
		e.earn(t, scaled(score/2, effect.Multiplier(effect.MoneyMultiplier, t.Upgrades)))
		t.Counters.MiniGamesPlayed++

		if kind == MiniGameSpin || t.Stats.Energy < pet.DizzyEnergyThreshold {
			e.makeDizzy(t)
		}
		return nil
	})
}

const dayLayout = "2006-01-02"

// ClaimDailyBonus pays the once-a-day bonus. Claiming on consecutive
// calendar days grows the streak; missing a day resets it to 1.
func (e *Engine) ClaimDailyBonus() (pet.Stats, error) {
	return e.act("daily_bonus", func(t *tx) error {
		if err := requireAlive(t); err != nil {
			return err
		}
		today := t.now.UTC().Format(dayLayout)
		if t.Counters.LastDailyBonus == today {
			return reject(RejectValidation, ErrAlreadyClaimed, "Already claimed today. Come back tomorrow!")
		}
		if t.Counters.LastDailyBonus == t.now.UTC().AddDate(0, 0, -1).Format(dayLayout) {
			t.Stats.Streak++
		} else {
			t.Stats.Streak = 1
		}
		t.Counters.LastDailyBonus = today

		a := e.cfg.Actions
		reward := a.DailyBonusBase + a.DailyBonusPerStreak*t.Stats.Streak
		e.earn(t, reward)
		t.announce("🎁 Daily bonus", fmt.Sprintf("+$%d (streak %d)", reward, t.Stats.Streak))
		return nil
	})
}

// Reset starts over with a fresh save. Upgrades, achievements, counters and
// the inventory are cleared too.
func (e *Engine) Reset() (pet.Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setMode(sim.Normal)
	now := e.clock.Now()
	t := &tx{Context: NewContext(now), now: now}
	e.ctx = t.Context.Clone()
	e.commit(t)
	logrus.Info("Save reset")
	return e.ctx.Stats, nil
}
