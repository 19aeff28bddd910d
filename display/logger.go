package display

import (
	"io"

	"github.com/rs/zerolog"
	"voyager.com/settable/logging"
	"voyager.com/settable/table"
)

// Logger writes every table change to a zerolog logger.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger logs to stdout when out is nil.
func NewLogger(code string, out io.Writer) *Logger {
	l := logging.ForTable(logging.GetZeroLogger("display::logger", out), code)
	return &Logger{logger: l}
}

func (l *Logger) PlaceCard(card table.Card, slot table.Slot) {
	l.logger.Info().Str(logging.EventKey, PlaceCard).Int(logging.CardKey, int(card)).Int(logging.SlotKey, int(slot)).Msg("")
}

func (l *Logger) RemoveCard(slot table.Slot) {
	l.logger.Info().Str(logging.EventKey, RemoveCard).Int(logging.SlotKey, int(slot)).Msg("")
}

func (l *Logger) PlaceToken(player int, slot table.Slot) {
	l.logger.Info().Str(logging.EventKey, PlaceToken).Int(logging.PlayerKey, player).Int(logging.SlotKey, int(slot)).Msg("")
}

func (l *Logger) RemoveToken(player int, slot table.Slot) {
	l.logger.Info().Str(logging.EventKey, RemoveToken).Int(logging.PlayerKey, player).Int(logging.SlotKey, int(slot)).Msg("")
}

func (l *Logger) RemoveAllTokens() {
	l.logger.Info().Str(logging.EventKey, RemoveAllTokens).Msg("")
}

func (l *Logger) RemoveSlotTokens(slot table.Slot) {
	l.logger.Info().Str(logging.EventKey, RemoveSlotTokens).Int(logging.SlotKey, int(slot)).Msg("")
}
