package table

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDisplay struct {
	lock   sync.Mutex
	events []string
}

func (d *recordingDisplay) record(format string, args ...interface{}) {
	d.lock.Lock()
	d.events = append(d.events, fmt.Sprintf(format, args...))
	d.lock.Unlock()
}

func (d *recordingDisplay) PlaceCard(card Card, slot Slot)    { d.record("placeCard %d %d", card, slot) }
func (d *recordingDisplay) RemoveCard(slot Slot)              { d.record("removeCard %d", slot) }
func (d *recordingDisplay) PlaceToken(player int, slot Slot)  { d.record("placeToken %d %d", player, slot) }
func (d *recordingDisplay) RemoveToken(player int, slot Slot) { d.record("removeToken %d %d", player, slot) }
func (d *recordingDisplay) RemoveAllTokens()                  { d.record("removeAllTokens") }
func (d *recordingDisplay) RemoveSlotTokens(slot Slot)        { d.record("removeSlotTokens %d", slot) }

func (d *recordingDisplay) take() []string {
	d.lock.Lock()
	defer d.lock.Unlock()
	events := d.events
	d.events = nil
	return events
}

func testConfig() Config {
	config := DefaultConfig()
	config.TableDelayMillis = 0
	return config
}

func newTestTable(t *testing.T) (*Table, *recordingDisplay) {
	display := &recordingDisplay{}
	table, err := NewTable("test", testConfig(), display, nil)
	require.NoError(t, err)
	return table, display
}

func placeCards(t *testing.T, table *Table, cardsBySlot map[Slot]Card) {
	for slot, card := range cardsBySlot {
		require.NoError(t, table.PlaceCard(card, slot))
	}
}

func TestNewTableIsEmpty(t *testing.T) {
	table, _ := newTestTable(t)
	assert.Equal(t, 0, table.CountCards())
	assert.Len(t, table.OpenSlots(), 12)
	for p := 0; p < 2; p++ {
		assert.Empty(t, table.Tokens(p))
	}
	assert.NoError(t, table.Validate())
}

func TestNewTableInvalidConfig(t *testing.T) {
	config := testConfig()
	config.FeatureSize = 0
	_, err := NewTable("bad", config, nil, nil)
	assert.Error(t, err)
}

func TestScenario(t *testing.T) {
	table, _ := newTestTable(t)
	require.NoError(t, table.PlaceCard(5, 0))
	require.NoError(t, table.PlaceCard(9, 1))
	require.NoError(t, table.PlaceCard(14, 2))

	for _, slot := range []Slot{0, 1, 2} {
		placed, err := table.PlaceToken(0, slot)
		require.NoError(t, err)
		require.True(t, placed)
	}

	placed, err := table.PlaceToken(0, 3)
	assert.NoError(t, err)
	assert.False(t, placed)
	assert.Equal(t, []Slot{0, 1, 2}, table.Tokens(0))

	card, err := table.RemoveCard(1)
	require.NoError(t, err)
	assert.Equal(t, Card(9), card)
	assert.Equal(t, []Slot{0, 2}, table.Tokens(0))
	assert.Equal(t, 2, table.CountCards())
	assert.NoError(t, table.Validate())
}

func TestPlaceRemoveRoundTrip(t *testing.T) {
	table, display := newTestTable(t)
	before := table.Snapshot()

	require.NoError(t, table.PlaceCard(42, 7))
	card, ok := table.CardAt(7)
	assert.True(t, ok)
	assert.Equal(t, Card(42), card)
	slot, ok := table.SlotOf(42)
	assert.True(t, ok)
	assert.Equal(t, Slot(7), slot)
	assert.NotContains(t, table.OpenSlots(), Slot(7))

	removed, err := table.RemoveCard(7)
	require.NoError(t, err)
	assert.Equal(t, Card(42), removed)
	_, ok = table.CardAt(7)
	assert.False(t, ok)
	_, ok = table.SlotOf(42)
	assert.False(t, ok)
	assert.Contains(t, table.OpenSlots(), Slot(7))

	after := table.Snapshot()
	if !cmp.Equal(before.Cards, after.Cards) {
		t.Errorf("cards differ: %s", cmp.Diff(before.Cards, after.Cards))
	}
	assert.ElementsMatch(t, before.OpenSlots, after.OpenSlots)

	expected := []string{"placeCard 42 7", "removeSlotTokens 7", "removeCard 7"}
	if diff := cmp.Diff(expected, display.take()); diff != "" {
		t.Errorf("display events mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceCardPreconditions(t *testing.T) {
	table, display := newTestTable(t)
	require.NoError(t, table.PlaceCard(3, 0))
	display.take()

	testCases := []struct {
		name     string
		card     Card
		slot     Slot
		expected error
	}{
		{name: "occupied slot", card: 4, slot: 0, expected: SlotOccupiedError{Slot: 0, Card: 3}},
		{name: "card on table", card: 3, slot: 1, expected: CardOnTableError{Card: 3, Slot: 0}},
		{name: "negative slot", card: 4, slot: -1, expected: OutOfRangeError{What: "slot", Value: -1, Limit: 12}},
		{name: "slot too large", card: 4, slot: 12, expected: OutOfRangeError{What: "slot", Value: 12, Limit: 12}},
		{name: "card too large", card: 81, slot: 1, expected: OutOfRangeError{What: "card", Value: 81, Limit: 81}},
	}

	for _, tc := range testCases {
		err := table.PlaceCard(tc.card, tc.slot)
		assert.Equal(t, tc.expected, err, tc.name)
	}
	assert.Empty(t, display.take())
	assert.Equal(t, 1, table.CountCards())
	assert.NoError(t, table.Validate())
}

func TestRemoveCardPreconditions(t *testing.T) {
	table, _ := newTestTable(t)
	_, err := table.RemoveCard(4)
	assert.Equal(t, SlotEmptyError{Slot: 4}, err)
	_, err = table.RemoveCard(20)
	assert.IsType(t, OutOfRangeError{}, err)
	assert.Len(t, table.OpenSlots(), 12)
}

func TestTokenCapacity(t *testing.T) {
	table, display := newTestTable(t)
	placeCards(t, table, map[Slot]Card{0: 1, 1: 2, 2: 3, 3: 4})
	display.take()

	for _, slot := range []Slot{3, 1, 0} {
		placed, err := table.PlaceToken(1, slot)
		require.NoError(t, err)
		require.True(t, placed)
	}
	placed, err := table.PlaceToken(1, 2)
	assert.NoError(t, err)
	assert.False(t, placed)
	assert.Equal(t, []Slot{3, 1, 0}, table.Tokens(1))

	// a freed position is refilled first
	assert.True(t, table.RemoveToken(1, 1))
	placed, err = table.PlaceToken(1, 2)
	assert.NoError(t, err)
	assert.True(t, placed)
	assert.Equal(t, []Slot{3, 2, 0}, table.Tokens(1))

	expected := []string{
		"placeToken 1 3", "placeToken 1 1", "placeToken 1 0",
		"removeToken 1 1", "placeToken 1 2",
	}
	if diff := cmp.Diff(expected, display.take()); diff != "" {
		t.Errorf("display events mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceTokenRejects(t *testing.T) {
	table, display := newTestTable(t)
	require.NoError(t, table.PlaceCard(10, 5))
	display.take()

	placed, err := table.PlaceToken(0, 5)
	require.NoError(t, err)
	require.True(t, placed)

	// duplicate token on the same slot
	placed, err = table.PlaceToken(0, 5)
	assert.NoError(t, err)
	assert.False(t, placed)

	placed, err = table.PlaceToken(0, 6)
	assert.Equal(t, SlotEmptyError{Slot: 6}, err)
	assert.False(t, placed)

	_, err = table.PlaceToken(2, 5)
	assert.Equal(t, OutOfRangeError{What: "player", Value: 2, Limit: 2}, err)

	_, err = table.PlaceToken(0, 99)
	assert.IsType(t, OutOfRangeError{}, err)

	assert.Equal(t, []string{"placeToken 0 5"}, display.take())
	assert.Equal(t, []Slot{5}, table.Tokens(0))
}

func TestRemoveToken(t *testing.T) {
	table, display := newTestTable(t)
	require.NoError(t, table.PlaceCard(10, 5))
	_, err := table.PlaceToken(1, 5)
	require.NoError(t, err)
	display.take()

	assert.False(t, table.RemoveToken(0, 5))
	assert.False(t, table.RemoveToken(1, 4))
	assert.False(t, table.RemoveToken(7, 5))
	assert.Empty(t, display.take())

	assert.True(t, table.RemoveToken(1, 5))
	assert.Equal(t, []string{"removeToken 1 5"}, display.take())
	assert.Empty(t, table.Tokens(1))
}

func TestRemoveCardClearsTokensOfAllPlayers(t *testing.T) {
	table, display := newTestTable(t)
	placeCards(t, table, map[Slot]Card{4: 20, 5: 21})
	for _, p := range []int{0, 1} {
		for _, s := range []Slot{4, 5} {
			_, err := table.PlaceToken(p, s)
			require.NoError(t, err)
		}
	}
	display.take()

	_, err := table.RemoveCard(4)
	require.NoError(t, err)

	assert.Equal(t, []Slot{5}, table.Tokens(0))
	assert.Equal(t, []Slot{5}, table.Tokens(1))
	assert.Equal(t, []string{"removeSlotTokens 4", "removeCard 4"}, display.take())
	assert.NoError(t, table.Validate())
}

func TestRemoveAllTokens(t *testing.T) {
	table, display := newTestTable(t)
	placeCards(t, table, map[Slot]Card{0: 1, 1: 2, 2: 3})
	for _, s := range []Slot{0, 1, 2} {
		_, err := table.PlaceToken(0, s)
		require.NoError(t, err)
	}
	_, err := table.PlaceToken(1, 2)
	require.NoError(t, err)
	display.take()

	table.RemoveAllTokens()
	assert.Empty(t, table.Tokens(0))
	assert.Empty(t, table.Tokens(1))
	assert.Equal(t, []string{"removeAllTokens"}, display.take())

	// no-op on an already empty matrix still notifies once
	table.RemoveAllTokens()
	assert.Equal(t, []string{"removeAllTokens"}, display.take())
}

func TestRemovePlayerTokens(t *testing.T) {
	table, display := newTestTable(t)
	placeCards(t, table, map[Slot]Card{0: 1, 1: 2, 2: 3})
	for _, s := range []Slot{2, 0} {
		_, err := table.PlaceToken(0, s)
		require.NoError(t, err)
	}
	_, err := table.PlaceToken(1, 1)
	require.NoError(t, err)
	display.take()

	require.NoError(t, table.RemovePlayerTokens(0))
	assert.Empty(t, table.Tokens(0))
	assert.Equal(t, []Slot{1}, table.Tokens(1))
	assert.Equal(t, []string{"removeToken 0 2", "removeToken 0 0"}, display.take())

	assert.IsType(t, OutOfRangeError{}, table.RemovePlayerTokens(-1))
}

func TestRemoveSlotTokens(t *testing.T) {
	table, display := newTestTable(t)
	placeCards(t, table, map[Slot]Card{3: 30, 8: 31})
	for _, p := range []int{0, 1} {
		_, err := table.PlaceToken(p, 3)
		require.NoError(t, err)
	}
	_, err := table.PlaceToken(1, 8)
	require.NoError(t, err)
	display.take()

	require.NoError(t, table.RemoveSlotTokens(3))
	assert.Empty(t, table.Tokens(0))
	assert.Equal(t, []Slot{8}, table.Tokens(1))
	assert.Equal(t, []string{"removeSlotTokens 3"}, display.take())

	// the card stays
	assert.Equal(t, 2, table.CountCards())
	assert.IsType(t, OutOfRangeError{}, table.RemoveSlotTokens(12))
}

func TestOpenSlotsOrder(t *testing.T) {
	table, _ := newTestTable(t)
	slot, ok := table.NextOpenSlot()
	require.True(t, ok)
	assert.Equal(t, Slot(0), slot)

	placeCards(t, table, map[Slot]Card{0: 1, 1: 2, 2: 3})
	slot, _ = table.NextOpenSlot()
	assert.Equal(t, Slot(3), slot)

	_, err := table.RemoveCard(1)
	require.NoError(t, err)
	_, err = table.RemoveCard(0)
	require.NoError(t, err)

	expected := []Slot{3, 4, 5, 6, 7, 8, 9, 10, 11, 1, 0}
	if diff := cmp.Diff(expected, table.OpenSlots()); diff != "" {
		t.Errorf("open slots mismatch (-want +got):\n%s", diff)
	}
}

func TestNextOpenSlotFullTable(t *testing.T) {
	table, _ := newTestTable(t)
	for s := 0; s < 12; s++ {
		require.NoError(t, table.PlaceCard(Card(s+40), Slot(s)))
	}
	_, ok := table.NextOpenSlot()
	assert.False(t, ok)
	assert.Equal(t, 12, table.CountCards())
	assert.Len(t, table.Cards(), 12)
}

// Applies a long random sequence of operations and checks the invariants
// after each one.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	table, _ := newTestTable(t)
	config := table.Config()
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 5000; i++ {
		slot := Slot(r.Intn(config.TableSize+2) - 1)
		card := Card(r.Intn(config.DeckSize+2) - 1)
		player := r.Intn(config.Players + 1)
		switch r.Intn(8) {
		case 0, 1:
			_ = table.PlaceCard(card, slot)
		case 2:
			_, _ = table.RemoveCard(slot)
		case 3, 4:
			_, _ = table.PlaceToken(player, slot)
		case 5:
			table.RemoveToken(player, slot)
		case 6:
			_ = table.RemovePlayerTokens(player)
		case 7:
			if r.Intn(10) == 0 {
				table.RemoveAllTokens()
			} else {
				_ = table.RemoveSlotTokens(slot)
			}
		}
		require.NoError(t, table.Validate(), "after operation %d", i)
		assert.Equal(t, config.TableSize, table.CountCards()+len(table.OpenSlots()))
	}
}

func TestConcurrentDealerAndPlayers(t *testing.T) {
	table, _ := newTestTable(t)
	config := table.Config()

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		r := rand.New(rand.NewSource(1))
		next := Card(0)
		for i := 0; i < 2000; i++ {
			if slot, ok := table.NextOpenSlot(); ok && r.Intn(2) == 0 {
				if err := table.PlaceCard(next, slot); err == nil {
					next = (next + 1) % Card(config.DeckSize)
				}
			} else {
				_, _ = table.RemoveCard(Slot(r.Intn(config.TableSize)))
			}
			if i%200 == 0 {
				table.RemoveAllTokens()
			}
		}
	}()

	for p := 0; p < config.Players; p++ {
		wg.Add(1)
		go func(player int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(player + 10)))
			for {
				select {
				case <-done:
					return
				default:
				}
				slot := Slot(r.Intn(config.TableSize))
				if !table.RemoveToken(player, slot) {
					_, _ = table.PlaceToken(player, slot)
				}
				if len(table.Tokens(player)) == config.FeatureSize {
					_ = table.RemovePlayerTokens(player)
				}
				_ = table.CountCards()
			}
		}(p)
	}

	wg.Wait()
	assert.NoError(t, table.Validate())
}

func TestHoldLockDuringDelay(t *testing.T) {
	config := testConfig()
	config.TableDelayMillis = 2
	config.HoldLockDuringDelay = true
	table, err := NewTable("delay", config, nil, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for s := 0; s < 4; s++ {
		wg.Add(1)
		go func(slot Slot) {
			defer wg.Done()
			assert.NoError(t, table.PlaceCard(Card(slot), slot))
		}(Slot(s))
	}
	wg.Wait()
	assert.Equal(t, 4, table.CountCards())
	assert.NoError(t, table.Validate())
}

func TestPlacementDelayApplied(t *testing.T) {
	config := testConfig()
	config.TableDelayMillis = 30
	table, err := NewTable("delay", config, nil, nil)
	require.NoError(t, err)
	delay := config.PlacementDelay()

	start := time.Now()
	require.NoError(t, table.PlaceCard(4, 2))
	assert.GreaterOrEqual(t, int64(time.Since(start)), int64(delay), "PlaceCard returned before the delay")

	start = time.Now()
	_, err = table.RemoveCard(2)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, int64(time.Since(start)), int64(delay), "RemoveCard returned before the delay")

	// rejected placements pay the delay too
	require.NoError(t, table.PlaceCard(4, 2))
	start = time.Now()
	assert.Error(t, table.PlaceCard(5, 2))
	assert.GreaterOrEqual(t, int64(time.Since(start)), int64(delay))
}

// tokenWaitDuringSlowPlacement starts a PlaceCard and, while it is in its
// delay, times a PlaceToken on a different, occupied slot.
func tokenWaitDuringSlowPlacement(t *testing.T, holdLock bool) time.Duration {
	config := testConfig()
	config.TableDelayMillis = 300
	config.HoldLockDuringDelay = holdLock
	table, err := NewTable("policy", config, nil, nil)
	require.NoError(t, err)
	require.NoError(t, table.PlaceCard(1, 0))

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, table.PlaceCard(2, 1))
	}()
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	placed, err := table.PlaceToken(0, 0)
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.True(t, placed)
	<-done
	return elapsed
}

func TestDelayPolicies(t *testing.T) {
	// default: the delay runs outside the lock
	elapsed := tokenWaitDuringSlowPlacement(t, false)
	assert.Less(t, int64(elapsed), int64(150*time.Millisecond), "token move waited for a card placement delay")

	// held: the token move waits for the rest of the delay
	elapsed = tokenWaitDuringSlowPlacement(t, true)
	assert.GreaterOrEqual(t, int64(elapsed), int64(200*time.Millisecond), "token move did not wait for the held lock")
}
