package bot

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"voyager.com/settable/logging"
	"voyager.com/settable/table"
)

var playerBotLogger = logging.GetZeroLogger("bot::player", nil)

// TokenSink is where a player's token moves go. *table.Table is one; a
// remote table reached over NATS is another.
type TokenSink interface {
	PlaceToken(player int, slot table.Slot) (bool, error)
	RemoveToken(player int, slot table.Slot) bool
}

// PlayerBot toggles tokens on random cards and claims a set once all of its
// tokens are down. With probability hintRate it goes for a known set instead.
type PlayerBot struct {
	player   int
	table    *table.Table
	sink     TokenSink
	dealer   *DealerBot
	limiter  *rate.Limiter
	rand     *rand.Rand
	hintRate float64
	logger   zerolog.Logger

	claims   int
	accepted int
}

func NewPlayerBot(player int, t *table.Table, sink TokenSink, dealer *DealerBot, limiter *rate.Limiter, source rand.Source, hintRate float64) *PlayerBot {
	if sink == nil {
		sink = t
	}
	return &PlayerBot{
		player:   player,
		table:    t,
		sink:     sink,
		dealer:   dealer,
		limiter:  limiter,
		rand:     rand.New(source),
		hintRate: hintRate,
		logger:   playerBotLogger.With().Str(logging.TableCodeKey, t.Code()).Int(logging.PlayerKey, player).Logger(),
	}
}

func (p *PlayerBot) Claims() (int, int) {
	return p.claims, p.accepted
}

// Run acts until ctx is done.
func (p *PlayerBot) Run(ctx context.Context) error {
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := p.act(ctx); err != nil {
			return err
		}
	}
}

func (p *PlayerBot) act(ctx context.Context) error {
	if len(p.table.Tokens(p.player)) >= p.table.Config().FeatureSize {
		return p.claim(ctx)
	}
	if p.hintRate > 0 && p.rand.Float64() < p.hintRate {
		if p.playHint() {
			return p.claim(ctx)
		}
	}
	p.toggleRandom()
	return nil
}

func (p *PlayerBot) toggleRandom() {
	cards := p.table.Cards()
	if len(cards) == 0 {
		return
	}
	slot, ok := p.table.SlotOf(cards[p.rand.Intn(len(cards))])
	if !ok {
		return
	}
	for _, s := range p.table.Tokens(p.player) {
		if s == slot {
			p.sink.RemoveToken(p.player, slot)
			return
		}
	}
	_, err := p.sink.PlaceToken(p.player, slot)
	if err != nil {
		// the card was taken between the read and the placement
		p.logger.Debug().Int(logging.SlotKey, int(slot)).Msgf("Token not placed: %v", err)
	}
}

// playHint moves every token onto the first known set.
func (p *PlayerBot) playHint() bool {
	hints := p.table.Hints()
	if len(hints) == 0 {
		return false
	}
	for _, s := range p.table.Tokens(p.player) {
		p.sink.RemoveToken(p.player, s)
	}
	for _, slot := range hints[0].Slots {
		placed, err := p.sink.PlaceToken(p.player, slot)
		if err != nil || !placed {
			return false
		}
	}
	return true
}

func (p *PlayerBot) claim(ctx context.Context) error {
	p.claims++
	ok, err := p.dealer.Claim(ctx, p.player)
	if err != nil {
		return err
	}
	if ok {
		p.accepted++
	}
	return nil
}
