package game

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"devpet/internal/pet"
	"devpet/internal/sim"
)

// tickEvents expires the pending event and, when real time was simulated
// in normal mode, may roll a new one.
func (e *Engine) tickEvents(t *tx, rolled bool) {
	if p := t.Pending; p != nil && p.Expired(t.now) {
		def, ok := pet.EventByType(p.Type)
		t.Pending = nil
		if ok && len(def.OnIgnored) > 0 && !t.Stats.IsDead {
			e.applyEffects(t, def.OnIgnored)
			t.announce(def.Emoji+" Missed it", t.Stats.Name+" "+def.Message+" Nobody answered.")
		}
		logrus.WithFields(logrus.Fields{"event": p.Type, "id": p.ID}).Info("Event expired")
	}

	chance := e.cfg.Actions.EventChance
	if !rolled || t.Pending != nil || chance <= 0 || e.sched.Mode() != sim.Normal {
		return
	}
	def, ok := pet.RollEvent(t.Stats, func() float64 { return e.rand() / chance })
	if !ok {
		return
	}

	t.Pending = &pet.PendingEvent{
		ID:        uuid.NewString(),
		Type:      def.Type,
		StartedAt: t.now,
		ExpiresAt: t.now.Add(def.Duration),
	}
	labels := make([]string, len(def.Choices))
	for i, c := range def.Choices {
		labels[i] = c.Label
	}
	t.announce(def.Emoji+" "+t.Stats.Name+" "+def.Message, strings.Join(labels, " / "))
	logrus.WithFields(logrus.Fields{"event": def.Type, "id": t.Pending.ID}).Info("Event started")
}

// applyEffects interprets tagged event effects against t.
func (e *Engine) applyEffects(t *tx, effects []pet.Effect) {
	for _, fx := range effects {
		switch fx.Kind {
		case pet.EffectAdjustStats:
			t.Stats = fx.Delta.Apply(t.Stats)
		case pet.EffectGrantXP:
			e.gainExperience(t, fx.Amount)
		case pet.EffectGrantMoney:
			e.earn(t, fx.Amount)
		case pet.EffectSleep:
			t.Stats.IsAwake = false
			t.Stats.IsDizzy = false
		case pet.EffectWake:
			t.Stats.IsAwake = true
		default:
			logrus.WithField("kind", fx.Kind).Warn("Unknown effect kind, skipping")
		}
	}
}

// PendingEvent returns the event awaiting a choice, if any.
func (e *Engine) PendingEvent() (pet.PendingEvent, pet.Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx.Pending == nil {
		return pet.PendingEvent{}, pet.Event{}, false
	}
	def, ok := pet.EventByType(e.ctx.Pending.Type)
	if !ok {
		return pet.PendingEvent{}, pet.Event{}, false
	}
	return *e.ctx.Pending, def, true
}

// ResolveEvent answers the pending event with the choice at index choice.
func (e *Engine) ResolveEvent(id string, choice int) (pet.Stats, error) {
	return e.act("resolve_event", func(t *tx) error {
		p := t.Pending
		if p == nil || p.ID != id {
			return reject(RejectValidation, ErrNoEvent, "There is nothing to answer.")
		}
		if p.Expired(t.now) {
			return reject(RejectValidation, ErrEventExpired, "Too late, the moment has passed.")
		}
		def, ok := pet.EventByType(p.Type)
		if !ok {
			return reject(RejectValidation, ErrNoEvent, "There is nothing to answer.")
		}
		if choice < 0 || choice >= len(def.Choices) {
			return reject(RejectValidation, ErrBadChoice, "That is not one of the options.")
		}

		c := def.Choices[choice]
		e.applyEffects(t, c.Effects)
		t.Pending = nil
		t.Counters.EventsResolved++
		t.announce(def.Emoji+" "+c.Label, c.Message)
		return nil
	})
}
