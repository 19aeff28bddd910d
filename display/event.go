package display

import (
	jsoniter "github.com/json-iterator/go"
	"voyager.com/settable/table"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	PlaceCard        string = "PLACE_CARD"
	RemoveCard       string = "REMOVE_CARD"
	PlaceToken       string = "PLACE_TOKEN"
	RemoveToken      string = "REMOVE_TOKEN"
	RemoveAllTokens  string = "REMOVE_ALL_TOKENS"
	RemoveSlotTokens string = "REMOVE_SLOT_TOKENS"
)

// Event is the wire form of a table change. Fields that do not apply to the
// event type are omitted.
type Event struct {
	Type   string      `json:"type"`
	Table  string      `json:"table"`
	Card   *table.Card `json:"card,omitempty"`
	Slot   *table.Slot `json:"slot,omitempty"`
	Player *int        `json:"player,omitempty"`
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalEvent(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher receives table events.
type Publisher interface {
	Publish(event Event)
}

// EventDisplay turns Display notifications into Events for a Publisher.
type EventDisplay struct {
	code      string
	publisher Publisher
}

func NewEventDisplay(code string, publisher Publisher) *EventDisplay {
	return &EventDisplay{code: code, publisher: publisher}
}

func (d *EventDisplay) PlaceCard(card table.Card, slot table.Slot) {
	d.publisher.Publish(Event{Type: PlaceCard, Table: d.code, Card: &card, Slot: &slot})
}

func (d *EventDisplay) RemoveCard(slot table.Slot) {
	d.publisher.Publish(Event{Type: RemoveCard, Table: d.code, Slot: &slot})
}

func (d *EventDisplay) PlaceToken(player int, slot table.Slot) {
	d.publisher.Publish(Event{Type: PlaceToken, Table: d.code, Slot: &slot, Player: &player})
}

func (d *EventDisplay) RemoveToken(player int, slot table.Slot) {
	d.publisher.Publish(Event{Type: RemoveToken, Table: d.code, Slot: &slot, Player: &player})
}

func (d *EventDisplay) RemoveAllTokens() {
	d.publisher.Publish(Event{Type: RemoveAllTokens, Table: d.code})
}

func (d *EventDisplay) RemoveSlotTokens(slot table.Slot) {
	d.publisher.Publish(Event{Type: RemoveSlotTokens, Table: d.code, Slot: &slot})
}
