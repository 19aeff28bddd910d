package table

// Display mirrors table changes for the players. Table calls it while
// holding its lock, so implementations must not call back into the Table.
type Display interface {
	PlaceCard(card Card, slot Slot)
	RemoveCard(slot Slot)
	PlaceToken(player int, slot Slot)
	RemoveToken(player int, slot Slot)
	RemoveAllTokens()
	RemoveSlotTokens(slot Slot)
}

// Matcher knows the rules of the game. It is only used for hints.
type Matcher interface {
	FindSets(cards []Card, limit int) [][]Card
	CardsToFeatures(cards []Card) [][]int
}

type NoopDisplay struct{}

func (NoopDisplay) PlaceCard(card Card, slot Slot)    {}
func (NoopDisplay) RemoveCard(slot Slot)              {}
func (NoopDisplay) PlaceToken(player int, slot Slot)  {}
func (NoopDisplay) RemoveToken(player int, slot Slot) {}
func (NoopDisplay) RemoveAllTokens()                  {}
func (NoopDisplay) RemoveSlotTokens(slot Slot)        {}
