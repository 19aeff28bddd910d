package nats

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"voyager.com/settable/logging"
	"voyager.com/settable/table"
)

// PlayerClient sends token actions to a remote table and waits for the reply.
type PlayerClient struct {
	nc      *natsgo.Conn
	subject string
	timeout time.Duration
}

func NewPlayerClient(nc *natsgo.Conn, code string) *PlayerClient {
	return &PlayerClient{
		nc:      nc,
		subject: GetPlayerActionSubject(code),
		timeout: 2 * time.Second,
	}
}

func (c *PlayerClient) send(action PlayerAction) (ActionResult, error) {
	data, err := jsoniter.Marshal(action)
	if err != nil {
		return ActionResult{}, err
	}
	msg, err := c.nc.Request(c.subject, data, c.timeout)
	if err != nil {
		return ActionResult{}, err
	}
	var result ActionResult
	err = jsoniter.Unmarshal(msg.Data, &result)
	return result, err
}

func (c *PlayerClient) PlaceToken(player int, slot table.Slot) (bool, error) {
	result, err := c.send(PlayerAction{Player: player, Slot: slot, Action: ActionPlace})
	if err != nil {
		return false, err
	}
	if result.Error != "" {
		return false, errors.New(result.Error)
	}
	return result.OK, nil
}

func (c *PlayerClient) RemoveToken(player int, slot table.Slot) bool {
	result, err := c.send(PlayerAction{Player: player, Slot: slot, Action: ActionRemove})
	if err != nil {
		natsLogger.Error().Str(logging.SubjectKey, c.subject).Msgf("Failed to remove token: %v", err)
		return false
	}
	return result.OK
}
