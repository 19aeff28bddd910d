package table

import (
	"fmt"

	mapset "github.com/deckarep/golang-set"
)

// Slot is a position on the table, in [0, tableSize).
type Slot int

// Card is a card id, in [0, deckSize).
type Card int

// cell holds an optional index. The zero value is empty.
type cell struct {
	value int
	ok    bool
}

func someCell(v int) cell {
	return cell{value: v, ok: true}
}

// grid keeps the slot<->card bijection and the pool of open slots.
// It does no locking; Table serializes access to it.
type grid struct {
	slotToCard []cell
	cardToSlot []cell

	// openSlots keeps insertion order, openSet answers membership.
	openSlots []Slot
	openSet   mapset.Set
}

func newGrid(tableSize int, deckSize int) *grid {
	g := &grid{
		slotToCard: make([]cell, tableSize),
		cardToSlot: make([]cell, deckSize),
		openSlots:  make([]Slot, 0, tableSize),
		openSet:    mapset.NewThreadUnsafeSet(),
	}
	for i := 0; i < tableSize; i++ {
		g.pushOpen(Slot(i))
	}
	return g
}

func (g *grid) tableSize() int {
	return len(g.slotToCard)
}

func (g *grid) deckSize() int {
	return len(g.cardToSlot)
}

func (g *grid) checkSlot(slot Slot) error {
	if slot < 0 || int(slot) >= g.tableSize() {
		return OutOfRangeError{What: "slot", Value: int(slot), Limit: g.tableSize()}
	}
	return nil
}

func (g *grid) checkCard(card Card) error {
	if card < 0 || int(card) >= g.deckSize() {
		return OutOfRangeError{What: "card", Value: int(card), Limit: g.deckSize()}
	}
	return nil
}

func (g *grid) cardAt(slot Slot) (Card, bool) {
	if g.checkSlot(slot) != nil {
		return 0, false
	}
	c := g.slotToCard[slot]
	return Card(c.value), c.ok
}

func (g *grid) slotOf(card Card) (Slot, bool) {
	if g.checkCard(card) != nil {
		return 0, false
	}
	c := g.cardToSlot[card]
	return Slot(c.value), c.ok
}

func (g *grid) place(card Card, slot Slot) error {
	if err := g.checkSlot(slot); err != nil {
		return err
	}
	if err := g.checkCard(card); err != nil {
		return err
	}
	if existing, ok := g.cardAt(slot); ok {
		return SlotOccupiedError{Slot: slot, Card: existing}
	}
	if at, ok := g.slotOf(card); ok {
		return CardOnTableError{Card: card, Slot: at}
	}

	g.slotToCard[slot] = someCell(int(card))
	g.cardToSlot[card] = someCell(int(slot))
	g.takeOpen(slot)
	return nil
}

// clear empties the slot in both directions. The caller returns the slot
// to the open pool with pushOpen.
func (g *grid) clear(slot Slot) (Card, error) {
	if err := g.checkSlot(slot); err != nil {
		return 0, err
	}
	card, ok := g.cardAt(slot)
	if !ok {
		return 0, SlotEmptyError{Slot: slot}
	}
	g.slotToCard[slot] = cell{}
	g.cardToSlot[card] = cell{}
	return card, nil
}

func (g *grid) pushOpen(slot Slot) {
	if g.openSet.Add(slot) {
		g.openSlots = append(g.openSlots, slot)
	}
}

func (g *grid) takeOpen(slot Slot) {
	if !g.openSet.Contains(slot) {
		return
	}
	g.openSet.Remove(slot)
	for i, s := range g.openSlots {
		if s == slot {
			g.openSlots = append(g.openSlots[:i], g.openSlots[i+1:]...)
			break
		}
	}
}

func (g *grid) nextOpen() (Slot, bool) {
	if len(g.openSlots) == 0 {
		return 0, false
	}
	return g.openSlots[0], true
}

func (g *grid) open() []Slot {
	slots := make([]Slot, len(g.openSlots))
	copy(slots, g.openSlots)
	return slots
}

func (g *grid) count() int {
	cards := 0
	for _, c := range g.slotToCard {
		if c.ok {
			cards++
		}
	}
	return cards
}

// cards returns the cards on the table in slot order.
func (g *grid) cards() []Card {
	cards := make([]Card, 0, g.tableSize())
	for _, c := range g.slotToCard {
		if c.ok {
			cards = append(cards, Card(c.value))
		}
	}
	return cards
}

// reorderOpen replaces the pool order. order must hold exactly the open slots.
func (g *grid) reorderOpen(order []Slot) error {
	if len(order) != g.openSet.Cardinality() {
		return InvariantError{Msg: fmt.Sprintf("Open slot order has %d entries, expected %d", len(order), g.openSet.Cardinality())}
	}
	seen := mapset.NewThreadUnsafeSet()
	for _, s := range order {
		if !g.openSet.Contains(s) || !seen.Add(s) {
			return InvariantError{Msg: fmt.Sprintf("Slot %d is not open or listed twice", s)}
		}
	}
	g.openSlots = append(g.openSlots[:0], order...)
	return nil
}

func (g *grid) validate() error {
	for s, c := range g.slotToCard {
		if !c.ok {
			if !g.openSet.Contains(Slot(s)) {
				return InvariantError{Msg: fmt.Sprintf("Empty slot %d is missing from the open pool", s)}
			}
			continue
		}
		if c.value < 0 || c.value >= g.deckSize() {
			return InvariantError{Msg: fmt.Sprintf("Slot %d holds invalid card %d", s, c.value)}
		}
		back := g.cardToSlot[c.value]
		if !back.ok || back.value != s {
			return InvariantError{Msg: fmt.Sprintf("Slot %d holds card %d but the card maps to %+v", s, c.value, back)}
		}
		if g.openSet.Contains(Slot(s)) {
			return InvariantError{Msg: fmt.Sprintf("Occupied slot %d is in the open pool", s)}
		}
	}
	for card, c := range g.cardToSlot {
		if !c.ok {
			continue
		}
		if c.value < 0 || c.value >= g.tableSize() {
			return InvariantError{Msg: fmt.Sprintf("Card %d maps to invalid slot %d", card, c.value)}
		}
		forward := g.slotToCard[c.value]
		if !forward.ok || forward.value != card {
			return InvariantError{Msg: fmt.Sprintf("Card %d maps to slot %d but the slot holds %+v", card, c.value, forward)}
		}
	}
	if len(g.openSlots) != g.openSet.Cardinality() {
		return InvariantError{Msg: fmt.Sprintf("Open pool order has %d entries, set has %d", len(g.openSlots), g.openSet.Cardinality())}
	}
	seen := mapset.NewThreadUnsafeSet()
	for _, s := range g.openSlots {
		if !g.openSet.Contains(s) || !seen.Add(s) {
			return InvariantError{Msg: fmt.Sprintf("Open pool order lists slot %d twice or outside the pool", s)}
		}
	}
	return nil
}
