package table

import (
	"fmt"
	"io/ioutil"
	"math"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"voyager.com/settable/util"
)

/*
	table-size: 12
	deck-size: 81
	players: 2
	feature-size: 3
	feature-count: 4
	table-delay-millis: 1000
	hold-lock-during-delay: false
*/
type Config struct {
	TableSize           int  `yaml:"table-size" json:"tableSize"`
	DeckSize            int  `yaml:"deck-size" json:"deckSize"`
	Players             int  `yaml:"players" json:"players"`
	FeatureSize         int  `yaml:"feature-size" json:"featureSize"`
	FeatureCount        int  `yaml:"feature-count" json:"featureCount"`
	TableDelayMillis    int  `yaml:"table-delay-millis" json:"tableDelayMillis"`
	HoldLockDuringDelay bool `yaml:"hold-lock-during-delay" json:"holdLockDuringDelay"`
}

func DefaultConfig() Config {
	return Config{
		TableSize:        12,
		DeckSize:         81,
		Players:          2,
		FeatureSize:      3,
		FeatureCount:     4,
		TableDelayMillis: 1000,
	}
}

// PlacementDelay is the pause applied to every card placement and removal.
func (c Config) PlacementDelay() time.Duration {
	return time.Duration(c.TableDelayMillis) * time.Millisecond
}

func (c Config) Validate() error {
	if c.TableSize <= 0 {
		return fmt.Errorf("Invalid table size [%d]", c.TableSize)
	}
	if c.DeckSize <= 0 {
		return fmt.Errorf("Invalid deck size [%d]", c.DeckSize)
	}
	if c.Players <= 0 {
		return fmt.Errorf("Invalid number of players [%d]", c.Players)
	}
	if c.FeatureSize <= 0 {
		return fmt.Errorf("Invalid feature size [%d]", c.FeatureSize)
	}
	if c.FeatureCount < 0 {
		return fmt.Errorf("Invalid feature count [%d]", c.FeatureCount)
	}
	if combinations := featureCombinations(c.FeatureSize, c.FeatureCount); c.DeckSize > combinations {
		return fmt.Errorf("Deck size [%d] exceeds the %d distinct cards of %d features of size %d",
			c.DeckSize, combinations, c.FeatureCount, c.FeatureSize)
	}
	if c.TableDelayMillis < 0 {
		return fmt.Errorf("Invalid table delay [%d]", c.TableDelayMillis)
	}
	return nil
}

// ParseConfig reads a YAML config file. Keys missing from the file keep
// their DefaultConfig values.
func ParseConfig(configFile string) (Config, error) {
	bytes, err := ioutil.ReadFile(configFile)
	if err != nil {
		return Config{}, errors.Wrap(err, fmt.Sprintf("Error reading table config file [%s]", configFile))
	}

	data := DefaultConfig()
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return Config{}, errors.Wrap(err, fmt.Sprintf("Error parsing table config YAML file [%s]", configFile))
	}

	err = data.Validate()
	if err != nil {
		return Config{}, errors.Wrap(err, fmt.Sprintf("Invalid table config file [%s]", configFile))
	}
	return data, nil
}

// ApplyEnvironment overrides the delay settings from the environment.
func (c Config) ApplyEnvironment() Config {
	if millis := util.Env.GetTableDelayMillis(); millis >= 0 {
		c.TableDelayMillis = millis
	}
	if util.Env.ShouldDisableDelays() {
		c.TableDelayMillis = 0
	}
	return c
}

// featureCombinations is featureSize^featureCount, capped at MaxInt32.
func featureCombinations(featureSize int, featureCount int) int {
	combinations := 1
	for i := 0; i < featureCount; i++ {
		if combinations > math.MaxInt32/featureSize {
			return math.MaxInt32
		}
		combinations *= featureSize
	}
	return combinations
}
