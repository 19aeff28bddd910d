package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"voyager.com/settable/deck"
	"voyager.com/settable/logging"
	"voyager.com/settable/matcher"
	"voyager.com/settable/table"
)

var dealerBotLogger = logging.GetZeroLogger("bot::dealer", nil)

// Claim is sent by a player who believes its tokens mark a set.
// The dealer answers on result.
type Claim struct {
	Player int
	result chan bool
}

// DealerBot owns the deck. It is the only actor placing and removing cards.
type DealerBot struct {
	table   *table.Table
	deck    *deck.Deck
	matcher *matcher.SetMatcher
	claims  chan Claim
	logger  zerolog.Logger

	// how often the dealer checks for a table without sets
	checkInterval time.Duration

	scores     []int
	reshuffles int
}

func NewDealerBot(t *table.Table, d *deck.Deck, m *matcher.SetMatcher) *DealerBot {
	return &DealerBot{
		table:         t,
		deck:          d,
		matcher:       m,
		claims:        make(chan Claim),
		logger:        logging.ForTable(dealerBotLogger, t.Code()),
		checkInterval: 50 * time.Millisecond,
		scores:        make([]int, t.Config().Players),
	}
}

// Claim submits a claim for player and waits for the verdict.
func (d *DealerBot) Claim(ctx context.Context, player int) (bool, error) {
	c := Claim{Player: player, result: make(chan bool, 1)}
	select {
	case d.claims <- c:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-c.result:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (d *DealerBot) Scores() []int {
	return append([]int(nil), d.scores...)
}

func (d *DealerBot) Reshuffles() int {
	return d.reshuffles
}

// Run deals the table and resolves claims until the deck is exhausted and no
// set is left on the table, or ctx is done.
func (d *DealerBot) Run(ctx context.Context) error {
	if err := d.deal(); err != nil {
		return err
	}
	ticker := time.NewTicker(d.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-d.claims:
			ok, err := d.resolve(c.Player)
			c.result <- ok
			if err != nil {
				return err
			}
		case <-ticker.C:
			if d.hasSet() {
				continue
			}
			if d.deck.Empty() {
				d.logger.Info().Msgf("No sets left. Scores: %v", d.scores)
				return nil
			}
			if err := d.reshuffle(); err != nil {
				return err
			}
		}
	}
}

// deal fills the open slots from the deck.
func (d *DealerBot) deal() error {
	for _, slot := range d.table.OpenSlots() {
		cards := d.deck.Draw(1)
		if len(cards) == 0 {
			return nil
		}
		if err := d.table.PlaceCard(cards[0], slot); err != nil {
			return err
		}
	}
	return nil
}

func (d *DealerBot) hasSet() bool {
	return len(d.matcher.FindSets(d.table.Cards(), 1)) > 0
}

func (d *DealerBot) resolve(player int) (bool, error) {
	slots := d.table.Tokens(player)
	cards := make([]table.Card, 0, len(slots))
	for _, slot := range slots {
		if card, ok := d.table.CardAt(slot); ok {
			cards = append(cards, card)
		}
	}
	if len(cards) != d.table.Config().FeatureSize || !d.matcher.IsSet(cards) {
		d.logger.Info().Int(logging.PlayerKey, player).Msgf("Rejected claim %v", cards)
		return false, d.table.RemovePlayerTokens(player)
	}

	d.logger.Info().Int(logging.PlayerKey, player).Msgf("Accepted set %v", cards)
	d.scores[player]++
	for _, slot := range slots {
		if _, err := d.table.RemoveCard(slot); err != nil {
			return true, err
		}
	}
	return true, d.deal()
}

// reshuffle returns every card on the table to the deck and deals again.
func (d *DealerBot) reshuffle() error {
	d.logger.Info().Msg("No set on the table. Reshuffling")
	d.reshuffles++
	d.table.RemoveAllTokens()
	for _, card := range d.table.Cards() {
		slot, ok := d.table.SlotOf(card)
		if !ok {
			continue
		}
		if _, err := d.table.RemoveCard(slot); err != nil {
			return err
		}
		if err := d.deck.Return(card); err != nil {
			return err
		}
	}
	d.deck.Shuffle()
	return d.deal()
}
