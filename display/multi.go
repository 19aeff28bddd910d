package display

import "voyager.com/settable/table"

// Multi forwards every notification to each display in order.
type Multi []table.Display

func (m Multi) PlaceCard(card table.Card, slot table.Slot) {
	for _, d := range m {
		d.PlaceCard(card, slot)
	}
}

func (m Multi) RemoveCard(slot table.Slot) {
	for _, d := range m {
		d.RemoveCard(slot)
	}
}

func (m Multi) PlaceToken(player int, slot table.Slot) {
	for _, d := range m {
		d.PlaceToken(player, slot)
	}
}

func (m Multi) RemoveToken(player int, slot table.Slot) {
	for _, d := range m {
		d.RemoveToken(player, slot)
	}
}

func (m Multi) RemoveAllTokens() {
	for _, d := range m {
		d.RemoveAllTokens()
	}
}

func (m Multi) RemoveSlotTokens(slot table.Slot) {
	for _, d := range m {
		d.RemoveSlotTokens(slot)
	}
}
