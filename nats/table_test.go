package nats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"voyager.com/settable/table"
)

func newTestTable(t *testing.T) *table.Table {
	config := table.DefaultConfig()
	config.TableDelayMillis = 0
	tbl, err := table.NewTable("abc", config, nil, nil)
	require.NoError(t, err)
	require.NoError(t, tbl.PlaceCard(10, 0))
	require.NoError(t, tbl.PlaceCard(11, 1))
	return tbl
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "table.abc.events", GetTableEventsSubject("abc"))
	assert.Equal(t, "table.abc.player", GetPlayerActionSubject("abc"))
}

func TestHandleAction(t *testing.T) {
	tbl := newTestTable(t)

	tests := []struct {
		name   string
		data   string
		result ActionResult
	}{
		{"place", `{"player":0,"slot":1,"action":"PLACE"}`, ActionResult{OK: true}},
		{"place twice", `{"player":0,"slot":1,"action":"PLACE"}`, ActionResult{OK: false}},
		{"place on empty slot", `{"player":0,"slot":5,"action":"PLACE"}`, ActionResult{Error: table.SlotEmptyError{Slot: 5}.Error()}},
		{"remove", `{"player":0,"slot":1,"action":"REMOVE"}`, ActionResult{OK: true}},
		{"remove missing", `{"player":0,"slot":1,"action":"REMOVE"}`, ActionResult{OK: false}},
		{"clear", `{"player":1,"slot":0,"action":"CLEAR"}`, ActionResult{OK: true}},
		{"bad player", `{"player":9,"slot":0,"action":"PLACE"}`, ActionResult{Error: table.OutOfRangeError{What: "player", Value: 9, Limit: 2}.Error()}},
		{"unknown", `{"player":0,"slot":0,"action":"JUMP"}`, ActionResult{Error: "Unknown action [JUMP]"}},
	}
	for _, test := range tests {
		got := HandleAction(tbl, []byte(test.data))
		if diff := cmp.Diff(test.result, got); diff != "" {
			t.Errorf("%s: unexpected result (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestHandleActionRejectsGarbage(t *testing.T) {
	tbl := newTestTable(t)
	result := HandleAction(tbl, []byte("not json"))
	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "Invalid player action")
	require.NoError(t, tbl.Validate())
}

func TestApplyClearRemovesTokens(t *testing.T) {
	tbl := newTestTable(t)
	ApplyAction(tbl, PlayerAction{Player: 1, Slot: 0, Action: ActionPlace})
	ApplyAction(tbl, PlayerAction{Player: 1, Slot: 1, Action: ActionPlace})
	assert.Len(t, tbl.Tokens(1), 2)

	result := ApplyAction(tbl, PlayerAction{Player: 1, Action: ActionClear})
	assert.True(t, result.OK)
	assert.Empty(t, tbl.Tokens(1))
}
