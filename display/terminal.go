package display

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	"voyager.com/settable/table"
)

// Terminal keeps its own copy of the grid and redraws it with pterm after
// every change.
type Terminal struct {
	out     io.Writer
	columns int

	lock   sync.Mutex
	cards  []*table.Card
	tokens []map[int]bool
}

// NewTerminal draws to stdout when out is nil.
func NewTerminal(tableSize int, columns int, out io.Writer) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	if columns <= 0 {
		columns = 4
	}
	tokens := make([]map[int]bool, tableSize)
	for i := range tokens {
		tokens[i] = make(map[int]bool)
	}
	return &Terminal{
		out:     out,
		columns: columns,
		cards:   make([]*table.Card, tableSize),
		tokens:  tokens,
	}
}

func (t *Terminal) valid(slot table.Slot) bool {
	return slot >= 0 && int(slot) < len(t.cards)
}

func (t *Terminal) PlaceCard(card table.Card, slot table.Slot) {
	t.update(func() {
		if t.valid(slot) {
			t.cards[slot] = &card
		}
	})
}

func (t *Terminal) RemoveCard(slot table.Slot) {
	t.update(func() {
		if t.valid(slot) {
			t.cards[slot] = nil
		}
	})
}

func (t *Terminal) PlaceToken(player int, slot table.Slot) {
	t.update(func() {
		if t.valid(slot) {
			t.tokens[slot][player] = true
		}
	})
}

func (t *Terminal) RemoveToken(player int, slot table.Slot) {
	t.update(func() {
		if t.valid(slot) {
			delete(t.tokens[slot], player)
		}
	})
}

func (t *Terminal) RemoveAllTokens() {
	t.update(func() {
		for i := range t.tokens {
			t.tokens[i] = make(map[int]bool)
		}
	})
}

func (t *Terminal) RemoveSlotTokens(slot table.Slot) {
	t.update(func() {
		if t.valid(slot) {
			t.tokens[slot] = make(map[int]bool)
		}
	})
}

func (t *Terminal) update(change func()) {
	t.lock.Lock()
	defer t.lock.Unlock()
	change()
	rendered, err := t.render()
	if err != nil {
		return
	}
	fmt.Fprintln(t.out, rendered)
}

// Render returns the current grid.
func (t *Terminal) Render() (string, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.render()
}

func (t *Terminal) render() (string, error) {
	data := pterm.TableData{}
	row := []string{}
	for slot := range t.cards {
		row = append(row, t.cellText(slot))
		if len(row) == t.columns {
			data = append(data, row)
			row = []string{}
		}
	}
	if len(row) > 0 {
		for len(row) < t.columns {
			row = append(row, "")
		}
		data = append(data, row)
	}
	return pterm.DefaultTable.WithBoxed().WithData(data).Srender()
}

func (t *Terminal) cellText(slot int) string {
	if t.cards[slot] == nil {
		return fmt.Sprintf("%2d: --", slot)
	}
	text := fmt.Sprintf("%2d: %02d", slot, *t.cards[slot])
	if len(t.tokens[slot]) == 0 {
		return text
	}
	players := make([]int, 0, len(t.tokens[slot]))
	for p := range t.tokens[slot] {
		players = append(players, p)
	}
	sort.Ints(players)
	marks := make([]string, len(players))
	for i, p := range players {
		marks[i] = fmt.Sprintf("P%d", p)
	}
	return text + " [" + strings.Join(marks, " ") + "]"
}
