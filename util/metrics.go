package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	cardsPlacedCounter      prometheus.Counter
	cardsRemovedCounter     prometheus.Counter
	tokensPlacedCounter     prometheus.Counter
	tokensRemovedCounter    prometheus.Counter
	slotTokensClearedCount  prometheus.Counter
	allTokensClearedCounter prometheus.Counter
	activeTablesGauge       prometheus.Gauge
}

func (m *metrics) CardPlaced() {
	m.cardsPlacedCounter.Inc()
}

func (m *metrics) CardRemoved() {
	m.cardsRemovedCounter.Inc()
}

func (m *metrics) TokenPlaced() {
	m.tokensPlacedCounter.Inc()
}

func (m *metrics) TokensRemoved(count int) {
	m.tokensRemovedCounter.Add(float64(count))
}

func (m *metrics) SlotTokensCleared() {
	m.slotTokensClearedCount.Inc()
}

func (m *metrics) AllTokensCleared() {
	m.allTokensClearedCounter.Inc()
}

func (m *metrics) SetActiveTables(count int) {
	m.activeTablesGauge.Set(float64(count))
}

var Metrics = &metrics{
	cardsPlacedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_cards_placed_total",
		Help: "Total number of cards placed on tables",
	}),
	cardsRemovedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_cards_removed_total",
		Help: "Total number of cards removed from tables",
	}),
	tokensPlacedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_tokens_placed_total",
		Help: "Total number of player tokens placed",
	}),
	tokensRemovedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_tokens_removed_total",
		Help: "Total number of player tokens removed, including bulk clears",
	}),
	slotTokensClearedCount: promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_slot_tokens_cleared_total",
		Help: "Total number of per-slot token clears",
	}),
	allTokensClearedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_all_tokens_cleared_total",
		Help: "Total number of full token matrix clears",
	}),
	activeTablesGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "table_active_tables_count",
		Help: "Count of the tables registered in the table manager",
	}),
}
