package table

import "fmt"

// tokenMatrix holds featureSize optional slots per player. A removed token
// leaves a hole that the next placement fills first.
type tokenMatrix struct {
	cells [][]cell
}

func newTokenMatrix(players int, featureSize int) *tokenMatrix {
	cells := make([][]cell, players)
	for i := range cells {
		cells[i] = make([]cell, featureSize)
	}
	return &tokenMatrix{cells: cells}
}

func (m *tokenMatrix) players() int {
	return len(m.cells)
}

func (m *tokenMatrix) checkPlayer(player int) error {
	if player < 0 || player >= m.players() {
		return OutOfRangeError{What: "player", Value: player, Limit: m.players()}
	}
	return nil
}

func (m *tokenMatrix) has(player int, slot Slot) bool {
	for _, c := range m.cells[player] {
		if c.ok && Slot(c.value) == slot {
			return true
		}
	}
	return false
}

func (m *tokenMatrix) full(player int) bool {
	for _, c := range m.cells[player] {
		if !c.ok {
			return false
		}
	}
	return true
}

// place returns false when the player is at capacity or already has a token on the slot.
func (m *tokenMatrix) place(player int, slot Slot) bool {
	if m.has(player, slot) {
		return false
	}
	row := m.cells[player]
	for i := range row {
		if !row[i].ok {
			row[i] = someCell(int(slot))
			return true
		}
	}
	return false
}

func (m *tokenMatrix) remove(player int, slot Slot) bool {
	row := m.cells[player]
	for i := range row {
		if row[i].ok && Slot(row[i].value) == slot {
			row[i] = cell{}
			return true
		}
	}
	return false
}

// clearPlayer returns the cleared slots in position order.
func (m *tokenMatrix) clearPlayer(player int) []Slot {
	row := m.cells[player]
	cleared := make([]Slot, 0, len(row))
	for i := range row {
		if row[i].ok {
			cleared = append(cleared, Slot(row[i].value))
			row[i] = cell{}
		}
	}
	return cleared
}

func (m *tokenMatrix) clearSlot(slot Slot) int {
	removed := 0
	for p := range m.cells {
		if m.remove(p, slot) {
			removed++
		}
	}
	return removed
}

func (m *tokenMatrix) clearAll() int {
	removed := 0
	for p := range m.cells {
		removed += len(m.clearPlayer(p))
	}
	return removed
}

func (m *tokenMatrix) slots(player int) []Slot {
	slots := make([]Slot, 0, len(m.cells[player]))
	for _, c := range m.cells[player] {
		if c.ok {
			slots = append(slots, Slot(c.value))
		}
	}
	return slots
}

func (m *tokenMatrix) set(player int, position int, slot Slot) {
	m.cells[player][position] = someCell(int(slot))
}

func (m *tokenMatrix) positions(player int) []*Slot {
	positions := make([]*Slot, len(m.cells[player]))
	for i, c := range m.cells[player] {
		if c.ok {
			s := Slot(c.value)
			positions[i] = &s
		}
	}
	return positions
}

// validate checks that every token sits on an occupied slot and that no
// player holds two tokens on the same slot.
func (m *tokenMatrix) validate(g *grid) error {
	for p, row := range m.cells {
		seen := make(map[int]bool, len(row))
		for _, c := range row {
			if !c.ok {
				continue
			}
			if seen[c.value] {
				return InvariantError{Msg: fmt.Sprintf("Player %d has two tokens on slot %d", p, c.value)}
			}
			seen[c.value] = true
			if _, occupied := g.cardAt(Slot(c.value)); !occupied {
				return InvariantError{Msg: fmt.Sprintf("Player %d has a token on slot %d which has no card", p, c.value)}
			}
		}
	}
	return nil
}
