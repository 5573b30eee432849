package game

import (
	"sort"

	"devpet/internal/pet"
)

// Item is a consumable sold in the shop.
type Item struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Emoji   string       `json:"emoji"`
	Price   int          `json:"price"`
	Effects []pet.Effect `json:"effects"`
}

// Items returns the shop catalog.
func Items() []Item {
	return []Item{
		{ID: "coffee", Name: "Coffee", Emoji: "☕", Price: 30, Effects: []pet.Effect{
			pet.Adjust(pet.Delta{Energy: 25, Happiness: 2}),
		}},
		{ID: "pizza", Name: "Pizza", Emoji: "🍕", Price: 45, Effects: []pet.Effect{
			pet.Adjust(pet.Delta{Hunger: 40, Happiness: 5}),
		}},
		{ID: "energy_drink", Name: "Energy Drink", Emoji: "🥤", Price: 60, Effects: []pet.Effect{
			pet.Adjust(pet.Delta{Energy: 40, Health: -5}),
		}},
		{ID: "first_aid", Name: "First Aid Kit", Emoji: "🩹", Price: 80, Effects: []pet.Effect{
			pet.Adjust(pet.Delta{Health: 30}),
		}},
		{ID: "plushie", Name: "Plushie", Emoji: "🧸", Price: 70, Effects: []pet.Effect{
			pet.Adjust(pet.Delta{Happiness: 30}),
		}},
	}
}

// LookupItem finds an item by id.
func LookupItem(id string) (Item, bool) {
	for _, it := range Items() {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// IDs lists owned item ids, sorted.
func (inv Inventory) IDs() []string {
	ids := make([]string, 0, len(inv))
	for id, n := range inv {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// BuyItem spends money on one unit of item id.
func (e *Engine) BuyItem(id string) (pet.Stats, error) {
	return e.act("buy_item", func(t *tx) error {
		it, ok := LookupItem(id)
		if !ok {
			return reject(RejectValidation, ErrUnknownItem, "The shop doesn't sell %q.", id)
		}
		if err := requireAlive(t); err != nil {
			return err
		}
		if t.Stats.Money < it.Price {
			return reject(RejectInsufficient, ErrNoMoney, "%s costs $%d, you have $%d.", it.Name, it.Price, t.Stats.Money)
		}
		t.Stats.Money -= it.Price
		t.Inventory[id]++
		return nil
	})
}

// UseItem consumes one unit of item id and applies its effects.
func (e *Engine) UseItem(id string) (pet.Stats, error) {
	return e.act("use_item", func(t *tx) error {
		it, ok := LookupItem(id)
		if !ok {
			return reject(RejectValidation, ErrUnknownItem, "There is no item called %q.", id)
		}
		if t.Inventory[id] <= 0 {
			return reject(RejectValidation, ErrNoItem, "You don't have any %s.", it.Name)
		}
		if err := requireAlive(t); err != nil {
			return err
		}
		if t.Stats.Asleep() {
			return reject(RejectValidation, ErrAsleep, "%s is asleep.", t.Stats.Name)
		}

		e.applyEffects(t, it.Effects)
		t.Inventory[id]--
		if t.Inventory[id] == 0 {
			delete(t.Inventory, id)
		}
		t.announce(it.Emoji+" "+it.Name, "Used one.")
		return nil
	})
}
