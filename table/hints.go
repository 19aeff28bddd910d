package table

import (
	"fmt"
	"math"
	"sort"
)

// Hint is one valid set among the cards on the table.
type Hint struct {
	Cards    []Card  `json:"cards"`
	Slots    []Slot  `json:"slots"`
	Features [][]int `json:"features"`
}

func (h Hint) String() string {
	return fmt.Sprintf("Hint: Set found: slots: %v features: %v", h.Slots, h.Features)
}

// Hints logs and returns every set currently on the table.
func (t *Table) Hints() []Hint {
	if t.matcher == nil {
		t.logger.Warn().Msg("No matcher configured. Cannot compute hints.")
		return nil
	}

	t.lock.RLock()
	cards := t.grid.cards()
	slotOf := make(map[Card]Slot, len(cards))
	for _, card := range cards {
		slot, _ := t.grid.slotOf(card)
		slotOf[card] = slot
	}
	t.lock.RUnlock()

	hints := make([]Hint, 0)
	for _, set := range t.matcher.FindSets(cards, math.MaxInt32) {
		slots := make([]Slot, 0, len(set))
		for _, card := range set {
			slots = append(slots, slotOf[card])
		}
		sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
		hint := Hint{
			Cards:    set,
			Slots:    slots,
			Features: t.matcher.CardsToFeatures(set),
		}
		t.logger.Info().Msg(hint.String())
		hints = append(hints, hint)
	}
	return hints
}
