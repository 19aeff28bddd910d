package bot

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"voyager.com/settable/deck"
	"voyager.com/settable/matcher"
	"voyager.com/settable/table"
	"voyager.com/settable/util/random"
)

type SimulationConfig struct {
	// minimum time between two moves of the same player
	PlayerInterval time.Duration
	HintRate       float64
	// 0 picks a random seed
	Seed int64
	// optional per player sinks, indexed by player. nil entries use the table.
	Sinks []TokenSink
}

type SimulationResult struct {
	Scores     []int
	Claims     []int
	Reshuffles int
	CardsLeft  int
}

// Simulate plays one round on t with a dealer and one bot per player. It
// returns when the dealer runs out of sets or ctx is done.
func Simulate(ctx context.Context, t *table.Table, config SimulationConfig) (*SimulationResult, error) {
	seed := config.Seed
	if seed == 0 {
		seed = random.NewSeed()
	}
	tableConfig := t.Config()
	m := matcher.NewSetMatcherFromConfig(tableConfig)
	dealer := NewDealerBot(t, deck.NewDeck(tableConfig.DeckSize, rand.NewSource(seed)), m)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	players := make([]*PlayerBot, tableConfig.Players)
	for i := range players {
		var sink TokenSink
		if i < len(config.Sinks) {
			sink = config.Sinks[i]
		}
		limiter := rate.NewLimiter(rate.Every(config.PlayerInterval), 1)
		if config.PlayerInterval <= 0 {
			limiter = rate.NewLimiter(rate.Inf, 1)
		}
		players[i] = NewPlayerBot(i, t, sink, dealer, limiter, rand.NewSource(seed+int64(i)+1), config.HintRate)
	}

	var wg sync.WaitGroup
	for _, p := range players {
		wg.Add(1)
		go func(p *PlayerBot) {
			defer wg.Done()
			p.Run(ctx)
		}(p)
	}

	err := dealer.Run(ctx)
	cancel()
	wg.Wait()

	result := &SimulationResult{
		Scores:     dealer.Scores(),
		Claims:     make([]int, len(players)),
		Reshuffles: dealer.Reshuffles(),
		CardsLeft:  t.CountCards(),
	}
	for i, p := range players {
		result.Claims[i], _ = p.Claims()
	}
	if err == context.Canceled || err == context.DeadlineExceeded {
		err = nil
	}
	return result, err
}
