package nats

import "fmt"

// Every table uses two subjects.
// table.<code>.events : table changes, one Event per display notification
// table.<code>.player : PlayerAction requests from remote players, answered with an ActionResult

func GetTableEventsSubject(code string) string {
	return fmt.Sprintf("table.%s.events", code)
}

func GetPlayerActionSubject(code string) string {
	return fmt.Sprintf("table.%s.player", code)
}
