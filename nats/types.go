package nats

import "voyager.com/settable/table"

const (
	ActionPlace  string = "PLACE"
	ActionRemove string = "REMOVE"
	ActionClear  string = "CLEAR"
)

// PlayerAction is sent by a remote player on the table's player subject.
type PlayerAction struct {
	Player int        `json:"player"`
	Slot   table.Slot `json:"slot"`
	Action string     `json:"action"`
}

type ActionResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
