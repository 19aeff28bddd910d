package main

import (
	"context"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"voyager.com/settable/bot"
	"voyager.com/settable/display"
	"voyager.com/settable/logging"
	"voyager.com/settable/matcher"
	"voyager.com/settable/nats"
	"voyager.com/settable/rest"
	"voyager.com/settable/table"
	"voyager.com/settable/util"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

var (
	configFile = flag.String("config", "table.yaml", "table config file. Defaults apply when the file does not exist")
	port       = flag.Int("port", 8080, "REST server port. 0 disables the server")
	simulate   = flag.Duration("simulate", 0, "play a simulated round with bots for at most this long")
	natsURL    = flag.String("nats", "", "NATS server URL. Overrides NATS_URL")
	terminal   = flag.Bool("terminal", false, "draw the simulated table in the terminal")
)

func main() {
	flag.Parse()
	zerolog.SetGlobalLevel(util.Env.GetZeroLogLogLevel())

	err := run()
	if err != nil {
		mainLogger.Error().Msgf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	mainLogger.Info().Msgf("Table config: %+v", config)

	manager, err := table.CreateTableManager(config)
	if err != nil {
		return err
	}
	hub := display.NewHub()

	var nc *natsgo.Conn
	url := *natsURL
	if url == "" {
		url = util.Env.GetNatsURL()
	}
	if url != "" {
		nc, err = natsgo.Connect(url)
		if err != nil {
			return errors.Wrapf(err, "Unable to connect to NATS server %s", url)
		}
		defer nc.Close()
		mainLogger.Info().Msgf("Connected to NATS server %s", url)
	}

	if *port == 0 {
		if *simulate > 0 {
			return runSimulation(manager, hub, nc)
		}
		return nil
	}
	if *simulate > 0 {
		go func() {
			if err := runSimulation(manager, hub, nc); err != nil {
				mainLogger.Error().Msgf("Simulation failed: %v", err)
			}
		}()
	}
	return rest.RunRestServer(manager, hub, *port)
}

func loadConfig(file string) (table.Config, error) {
	config := table.DefaultConfig()
	if _, err := os.Stat(file); err == nil {
		config, err = table.ParseConfig(file)
		if err != nil {
			return table.Config{}, err
		}
	} else {
		mainLogger.Info().Msgf("Config file [%s] not found. Using defaults", file)
	}
	return config.ApplyEnvironment(), nil
}

func runSimulation(manager *table.Manager, hub *display.Hub, nc *natsgo.Conn) error {
	config := manager.Config()
	code := table.NewCode()

	displays := display.Multi{display.NewEventDisplay(code, hub)}
	if *terminal {
		displays = append(displays, display.NewTerminal(config.TableSize, 4, nil))
	} else {
		displays = append(displays, display.NewLogger(code, nil))
	}
	var adapter *nats.TableAdapter
	if nc != nil {
		adapter = nats.NewTableAdapter(nc, code)
		displays = append(displays, adapter)
	}

	t, err := manager.NewRoundWithCode(code, displays, matcher.NewSetMatcherFromConfig(config))
	if err != nil {
		return err
	}

	simConfig := bot.SimulationConfig{
		PlayerInterval: 200 * time.Millisecond,
		HintRate:       0.2,
	}
	if adapter != nil {
		if err := adapter.Attach(t); err != nil {
			return err
		}
		defer adapter.Close()
		for p := 0; p < config.Players; p++ {
			simConfig.Sinks = append(simConfig.Sinks, nats.NewPlayerClient(nc, code))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *simulate)
	defer cancel()
	result, err := bot.Simulate(ctx, t, simConfig)
	if err != nil {
		return err
	}
	if err := manager.Save(code); err != nil {
		mainLogger.Error().Str(logging.TableCodeKey, code).Msgf("Unable to save table: %v", err)
	}
	if _, err := manager.EndRound(code); err != nil {
		return err
	}
	mainLogger.Info().Str(logging.TableCodeKey, code).
		Msgf("Round over. Scores: %v claims: %v reshuffles: %d cards left: %d",
			result.Scores, result.Claims, result.Reshuffles, result.CardsLeft)
	return nil
}
