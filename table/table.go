package table

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"voyager.com/settable/logging"
	"voyager.com/settable/util"
)

var tableLogger = logging.GetZeroLogger("table::table", nil)

/**
Table is the state visible to all players: which card sits in which slot
and which slots each player has marked with a token.

Invariants, held whenever the lock is free:
  - slotToCard[s] == c  iff  cardToSlot[c] == s
  - the open pool is exactly the set of empty slots
  - every token references an occupied slot, at most once per player
**/
type Table struct {
	code    string
	config  Config
	display Display
	matcher Matcher
	logger  zerolog.Logger

	lock   sync.RWMutex
	grid   *grid
	tokens *tokenMatrix
}

// NewTable creates an empty table for one round. display may be nil.
func NewTable(code string, config Config, display Display, matcher Matcher) (*Table, error) {
	err := config.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create table")
	}
	if display == nil {
		display = NoopDisplay{}
	}
	return &Table{
		code:    code,
		config:  config,
		display: display,
		matcher: matcher,
		logger:  logging.ForTable(tableLogger, code),
		grid:    newGrid(config.TableSize, config.DeckSize),
		tokens:  newTokenMatrix(config.Players, config.FeatureSize),
	}, nil
}

func (t *Table) Code() string {
	return t.code
}

func (t *Table) Config() Config {
	return t.config
}

// lockForPlacement applies the placement delay and takes the write lock.
// By default the delay runs before the lock is taken.
func (t *Table) lockForPlacement() {
	delay := t.config.PlacementDelay()
	if t.config.HoldLockDuringDelay {
		t.lock.Lock()
		time.Sleep(delay)
		return
	}
	time.Sleep(delay)
	t.lock.Lock()
}

// PlaceCard puts card into an empty slot.
func (t *Table) PlaceCard(card Card, slot Slot) error {
	t.lockForPlacement()
	defer t.lock.Unlock()

	err := t.grid.place(card, slot)
	if err != nil {
		t.logger.Warn().Int(logging.CardKey, int(card)).Int(logging.SlotKey, int(slot)).Msgf("Failed to place card: %v", err)
		return err
	}
	t.display.PlaceCard(card, slot)
	util.Metrics.CardPlaced()
	t.logger.Debug().Int(logging.CardKey, int(card)).Int(logging.SlotKey, int(slot)).Msg("Card placed")
	return nil
}

// RemoveCard takes the card out of slot together with every token on it,
// and returns the slot to the open pool.
func (t *Table) RemoveCard(slot Slot) (Card, error) {
	t.lockForPlacement()
	defer t.lock.Unlock()

	card, err := t.grid.clear(slot)
	if err != nil {
		t.logger.Warn().Int(logging.SlotKey, int(slot)).Msgf("Failed to remove card: %v", err)
		return 0, err
	}
	t.removeSlotTokens(slot)
	t.grid.pushOpen(slot)
	t.display.RemoveCard(slot)
	util.Metrics.CardRemoved()
	t.logger.Debug().Int(logging.CardKey, int(card)).Int(logging.SlotKey, int(slot)).Msg("Card removed")
	return card, nil
}

// PlaceToken puts one of the player's tokens on slot. It returns false
// without an error when the player has no free token or already has one
// on the slot. A full token set is checked before the slot.
func (t *Table) PlaceToken(player int, slot Slot) (bool, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.tokens.checkPlayer(player); err != nil {
		return false, err
	}
	if err := t.grid.checkSlot(slot); err != nil {
		return false, err
	}
	if t.tokens.full(player) {
		return false, nil
	}
	if _, ok := t.grid.cardAt(slot); !ok {
		return false, SlotEmptyError{Slot: slot}
	}
	if !t.tokens.place(player, slot) {
		return false, nil
	}
	t.display.PlaceToken(player, slot)
	util.Metrics.TokenPlaced()
	return true, nil
}

// RemoveToken returns true iff the player had a token on slot.
func (t *Table) RemoveToken(player int, slot Slot) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.tokens.checkPlayer(player) != nil {
		return false
	}
	if !t.tokens.remove(player, slot) {
		return false
	}
	t.display.RemoveToken(player, slot)
	util.Metrics.TokensRemoved(1)
	return true
}

func (t *Table) RemoveAllTokens() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.display.RemoveAllTokens()
	removed := t.tokens.clearAll()
	util.Metrics.AllTokensCleared()
	util.Metrics.TokensRemoved(removed)
	t.logger.Debug().Msgf("Removed all tokens (%d)", removed)
}

// RemovePlayerTokens clears the player's tokens, notifying the display
// for each one.
func (t *Table) RemovePlayerTokens(player int) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.tokens.checkPlayer(player); err != nil {
		return err
	}
	cleared := t.tokens.clearPlayer(player)
	for _, slot := range cleared {
		t.display.RemoveToken(player, slot)
	}
	util.Metrics.TokensRemoved(len(cleared))
	return nil
}

func (t *Table) RemoveSlotTokens(slot Slot) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.grid.checkSlot(slot); err != nil {
		return err
	}
	t.removeSlotTokens(slot)
	return nil
}

func (t *Table) removeSlotTokens(slot Slot) {
	t.display.RemoveSlotTokens(slot)
	removed := t.tokens.clearSlot(slot)
	util.Metrics.SlotTokensCleared()
	util.Metrics.TokensRemoved(removed)
}

// CountCards returns the number of occupied slots.
func (t *Table) CountCards() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.grid.count()
}

func (t *Table) CardAt(slot Slot) (Card, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.grid.cardAt(slot)
}

func (t *Table) SlotOf(card Card) (Slot, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.grid.slotOf(card)
}

// OpenSlots returns the empty slots, oldest first.
func (t *Table) OpenSlots() []Slot {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.grid.open()
}

func (t *Table) NextOpenSlot() (Slot, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.grid.nextOpen()
}

// Cards returns the cards on the table in slot order.
func (t *Table) Cards() []Card {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.grid.cards()
}

// Tokens returns the slots the player has tokens on, in placement position order.
// It returns nil for an unknown player.
func (t *Table) Tokens(player int) []Slot {
	t.lock.RLock()
	defer t.lock.RUnlock()
	if t.tokens.checkPlayer(player) != nil {
		return nil
	}
	return t.tokens.slots(player)
}

// Validate checks the table invariants.
func (t *Table) Validate() error {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.validate()
}

func (t *Table) validate() error {
	if err := t.grid.validate(); err != nil {
		return err
	}
	return t.tokens.validate(t.grid)
}
