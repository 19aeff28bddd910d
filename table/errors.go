package table

import "fmt"

type OutOfRangeError struct {
	What  string
	Value int
	Limit int
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("Invalid %s [%d]. Must be in [0, %d)", e.What, e.Value, e.Limit)
}

type SlotOccupiedError struct {
	Slot Slot
	Card Card
}

func (e SlotOccupiedError) Error() string {
	return fmt.Sprintf("Slot %d is already holding card %d", e.Slot, e.Card)
}

type SlotEmptyError struct {
	Slot Slot
}

func (e SlotEmptyError) Error() string {
	return fmt.Sprintf("Slot %d has no card", e.Slot)
}

type CardOnTableError struct {
	Card Card
	Slot Slot
}

func (e CardOnTableError) Error() string {
	return fmt.Sprintf("Card %d is already on the table at slot %d", e.Card, e.Slot)
}

type InvariantError struct {
	Msg string
}

func (e InvariantError) Error() string {
	return e.Msg
}

// ActiveTableError is returned when a round is started or restored under a
// code that already has an active table.
type ActiveTableError struct {
	Code string
}

func (e ActiveTableError) Error() string {
	return fmt.Sprintf("Table %s is already active", e.Code)
}
