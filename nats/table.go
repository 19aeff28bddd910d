package nats

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"voyager.com/settable/display"
	"voyager.com/settable/logging"
	"voyager.com/settable/table"
)

var natsLogger = logging.GetZeroLogger("nats::table", nil)

/**
TableAdapter connects one table to the NATS server.

As a display it publishes every table change on table.<code>.events.
Once attached, it listens on table.<code>.player for actions from remote
players and applies them to the table.
**/
type TableAdapter struct {
	code          string
	eventsSubject string
	playerSubject string
	logger        zerolog.Logger

	nc        *natsgo.Conn
	table     *table.Table
	playerSub *natsgo.Subscription

	*display.EventDisplay
}

func NewTableAdapter(nc *natsgo.Conn, code string) *TableAdapter {
	a := &TableAdapter{
		code:          code,
		eventsSubject: GetTableEventsSubject(code),
		playerSubject: GetPlayerActionSubject(code),
		logger:        logging.ForTable(natsLogger, code),
		nc:            nc,
	}
	a.EventDisplay = display.NewEventDisplay(code, a)
	return a
}

// Publish sends the event to the table's events subject.
func (a *TableAdapter) Publish(event display.Event) {
	data, err := event.Marshal()
	if err != nil {
		a.logger.Error().Msgf("Unable to encode event: %v", err)
		return
	}
	err = a.nc.Publish(a.eventsSubject, data)
	if err != nil {
		a.logger.Error().Str(logging.SubjectKey, a.eventsSubject).Msgf("Failed to publish event: %v", err)
	}
}

// Attach starts accepting player actions for t.
func (a *TableAdapter) Attach(t *table.Table) error {
	if t.Code() != a.code {
		return fmt.Errorf("Adapter for table %s cannot attach to table %s", a.code, t.Code())
	}
	a.table = t
	sub, err := a.nc.Subscribe(a.playerSubject, a.player2Table)
	if err != nil {
		a.logger.Error().Str(logging.SubjectKey, a.playerSubject).Msg("Failed to subscribe")
		return errors.Wrapf(err, "Unable to subscribe to %s", a.playerSubject)
	}
	a.playerSub = sub
	// the subscription must reach the server before players send actions
	if err := a.nc.Flush(); err != nil {
		return errors.Wrap(err, "Unable to flush player subscription")
	}
	a.logger.Info().Str(logging.SubjectKey, a.playerSubject).Msg("Listening for player actions")
	return nil
}

func (a *TableAdapter) Close() {
	if a.playerSub != nil {
		a.playerSub.Unsubscribe()
		a.playerSub = nil
	}
}

// messages sent from player to table
func (a *TableAdapter) player2Table(msg *natsgo.Msg) {
	a.logger.Debug().Msgf("Player->Table: %s", string(msg.Data))
	result := HandleAction(a.table, msg.Data)
	if msg.Reply == "" {
		return
	}
	data, _ := jsoniter.Marshal(result)
	err := a.nc.Publish(msg.Reply, data)
	if err != nil {
		a.logger.Error().Str(logging.SubjectKey, msg.Reply).Msgf("Failed to reply: %v", err)
	}
}

// HandleAction decodes a PlayerAction and applies it to t.
func HandleAction(t *table.Table, data []byte) ActionResult {
	var action PlayerAction
	err := jsoniter.Unmarshal(data, &action)
	if err != nil {
		return ActionResult{Error: fmt.Sprintf("Invalid player action: %v", err)}
	}
	return ApplyAction(t, action)
}

func ApplyAction(t *table.Table, action PlayerAction) ActionResult {
	switch action.Action {
	case ActionPlace:
		placed, err := t.PlaceToken(action.Player, action.Slot)
		if err != nil {
			return ActionResult{Error: err.Error()}
		}
		return ActionResult{OK: placed}
	case ActionRemove:
		return ActionResult{OK: t.RemoveToken(action.Player, action.Slot)}
	case ActionClear:
		err := t.RemovePlayerTokens(action.Player)
		if err != nil {
			return ActionResult{Error: err.Error()}
		}
		return ActionResult{OK: true}
	}
	return ActionResult{Error: fmt.Sprintf("Unknown action [%s]", action.Action)}
}
