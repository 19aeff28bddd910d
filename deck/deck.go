package deck

import (
	"fmt"
	"math/rand"
	"strings"

	"voyager.com/settable/table"
	"voyager.com/settable/util/random"
)

// Deck holds the cards that are not on the table. It is owned by the dealer
// and is not safe for concurrent use.
type Deck struct {
	size    int
	cards   []table.Card
	randGen *rand.Rand
}

// NewDeck returns a shuffled deck with cards [0, size). A nil source is
// seeded from crypto/rand.
func NewDeck(size int, source rand.Source) *Deck {
	if source == nil {
		source = random.NewSource()
	}
	deck := &Deck{
		size:    size,
		randGen: rand.New(source),
	}
	deck.cards = make([]table.Card, size)
	for i := range deck.cards {
		deck.cards[i] = table.Card(i)
	}
	deck.Shuffle()
	return deck
}

// NewDeckNoShuffle returns the cards in ascending order.
func NewDeckNoShuffle(size int) *Deck {
	deck := NewDeck(size, rand.NewSource(0))
	for i := range deck.cards {
		deck.cards[i] = table.Card(i)
	}
	return deck
}

func (deck *Deck) Shuffle() *Deck {
	deck.randGen.Shuffle(len(deck.cards), func(i, j int) {
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	})
	return deck
}

// Draw removes up to n cards from the top of the deck.
func (deck *Deck) Draw(n int) []table.Card {
	if n > len(deck.cards) {
		n = len(deck.cards)
	}
	cards := make([]table.Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards
}

// Return puts cards back at the bottom of the deck.
func (deck *Deck) Return(cards ...table.Card) error {
	for _, card := range cards {
		if card < 0 || int(card) >= deck.size {
			return fmt.Errorf("Invalid card [%d] for a deck of %d", card, deck.size)
		}
	}
	deck.cards = append(deck.cards, cards...)
	return nil
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) PrettyPrint() string {
	var b strings.Builder
	for i, card := range deck.cards {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d", card)
	}
	return b.String()
}
