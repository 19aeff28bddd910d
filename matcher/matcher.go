package matcher

import (
	"voyager.com/settable/table"
)

// SetMatcher implements the classic set rules. A card id is read as
// featureCount digits in base featureSize, most significant first. A group of
// featureSize cards is a set when, for every feature, the values are either
// all equal or all different.
type SetMatcher struct {
	featureSize  int
	featureCount int
}

func NewSetMatcher(featureSize int, featureCount int) *SetMatcher {
	return &SetMatcher{
		featureSize:  featureSize,
		featureCount: featureCount,
	}
}

func NewSetMatcherFromConfig(config table.Config) *SetMatcher {
	return NewSetMatcher(config.FeatureSize, config.FeatureCount)
}

func (m *SetMatcher) CardToFeatures(card table.Card) []int {
	features := make([]int, m.featureCount)
	v := int(card)
	for i := m.featureCount - 1; i >= 0; i-- {
		features[i] = v % m.featureSize
		v /= m.featureSize
	}
	return features
}

func (m *SetMatcher) CardsToFeatures(cards []table.Card) [][]int {
	features := make([][]int, len(cards))
	for i, card := range cards {
		features[i] = m.CardToFeatures(card)
	}
	return features
}

func (m *SetMatcher) IsSet(cards []table.Card) bool {
	if len(cards) != m.featureSize {
		return false
	}
	features := m.CardsToFeatures(cards)
	for f := 0; f < m.featureCount; f++ {
		values := make(map[int]bool, len(cards))
		for _, cardFeatures := range features {
			values[cardFeatures[f]] = true
		}
		if len(values) != 1 && len(values) != len(cards) {
			return false
		}
	}
	return true
}

// FindSets returns up to limit sets among cards, in lexicographic order of
// their positions in cards.
func (m *SetMatcher) FindSets(cards []table.Card, limit int) [][]table.Card {
	sets := make([][]table.Card, 0)
	if limit <= 0 || m.featureSize <= 0 {
		return sets
	}
	combination := make([]table.Card, 0, m.featureSize)

	var search func(start int) bool
	search = func(start int) bool {
		if len(combination) == m.featureSize {
			if m.IsSet(combination) {
				set := make([]table.Card, len(combination))
				copy(set, combination)
				sets = append(sets, set)
			}
			return len(sets) < limit
		}
		for i := start; i < len(cards); i++ {
			combination = append(combination, cards[i])
			more := search(i + 1)
			combination = combination[:len(combination)-1]
			if !more {
				return false
			}
		}
		return true
	}
	search(0)
	return sets
}
