package table

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type SlotCard struct {
	Slot Slot `json:"slot"`
	Card Card `json:"card"`
}

// Snapshot is a point-in-time copy of a table, used for persistence and
// inspection. Tokens[player][position] is nil for an unused position.
type Snapshot struct {
	Code      string     `json:"code"`
	Config    Config     `json:"config"`
	Cards     []SlotCard `json:"cards"`
	OpenSlots []Slot     `json:"openSlots"`
	Tokens    [][]*Slot  `json:"tokens"`
}

func (t *Table) Snapshot() *Snapshot {
	t.lock.RLock()
	defer t.lock.RUnlock()

	cards := make([]SlotCard, 0, t.grid.tableSize())
	for s := 0; s < t.grid.tableSize(); s++ {
		if card, ok := t.grid.cardAt(Slot(s)); ok {
			cards = append(cards, SlotCard{Slot: Slot(s), Card: card})
		}
	}
	tokens := make([][]*Slot, t.tokens.players())
	for p := range tokens {
		tokens[p] = t.tokens.positions(p)
	}
	return &Snapshot{
		Code:      t.code,
		Config:    t.config,
		Cards:     cards,
		OpenSlots: t.grid.open(),
		Tokens:    tokens,
	}
}

func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	err := json.Unmarshal(data, &snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to decode table snapshot")
	}
	return &snapshot, nil
}

// NewTableFromSnapshot rebuilds a table and replays its cards and tokens
// to the display. No placement delay is applied.
func NewTableFromSnapshot(snapshot *Snapshot, display Display, matcher Matcher) (*Table, error) {
	t, err := NewTable(snapshot.Code, snapshot.Config, display, matcher)
	if err != nil {
		return nil, err
	}

	for _, sc := range snapshot.Cards {
		err = t.grid.place(sc.Card, sc.Slot)
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid card in snapshot %s", snapshot.Code)
		}
	}
	if snapshot.OpenSlots != nil {
		err = t.grid.reorderOpen(snapshot.OpenSlots)
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid open slots in snapshot %s", snapshot.Code)
		}
	}

	if len(snapshot.Tokens) > t.tokens.players() {
		return nil, fmt.Errorf("Snapshot %s has tokens for %d players, table has %d", snapshot.Code, len(snapshot.Tokens), t.tokens.players())
	}
	for p, positions := range snapshot.Tokens {
		if len(positions) > t.config.FeatureSize {
			return nil, fmt.Errorf("Snapshot %s has %d tokens for player %d, feature size is %d", snapshot.Code, len(positions), p, t.config.FeatureSize)
		}
		for i, slot := range positions {
			if slot == nil {
				continue
			}
			if err := t.grid.checkSlot(*slot); err != nil {
				return nil, errors.Wrapf(err, "Invalid token in snapshot %s", snapshot.Code)
			}
			t.tokens.set(p, i, *slot)
		}
	}

	err = t.validate()
	if err != nil {
		return nil, errors.Wrapf(err, "Snapshot %s is inconsistent", snapshot.Code)
	}

	for _, sc := range snapshot.Cards {
		t.display.PlaceCard(sc.Card, sc.Slot)
	}
	for p := range snapshot.Tokens {
		for _, slot := range t.tokens.slots(p) {
			t.display.PlaceToken(p, slot)
		}
	}
	return t, nil
}
