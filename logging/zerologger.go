package logging

import (
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

// Field keys shared by every package.
const (
	LoggerNameKey string = "logger"
	TableCodeKey  string = "tableCode"
	SlotKey       string = "slot"
	CardKey       string = "card"
	PlayerKey     string = "player"
	EventKey      string = "event"
	SubjectKey    string = "subject"
)

const consoleTimeFormat = "15:04:05.000"

// IsColorLoggingEnabled reads COLORIZE_LOG. Color is on unless the variable
// parses as false.
func IsColorLoggingEnabled() bool {
	v, ok := os.LookupEnv("COLORIZE_LOG")
	if !ok || v == "" {
		return true
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return enabled
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	if out == nil {
		out = os.Stdout
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !IsColorLoggingEnabled(),
		TimeFormat: consoleTimeFormat,
	}
}

// GetZeroLogger returns a console logger tagged with the given name.
// Output goes to stdout when out is nil.
func GetZeroLogger(name string, out io.Writer) *zerolog.Logger {
	logger := zerolog.New(consoleWriter(out)).
		With().
		Timestamp().
		Str(LoggerNameKey, name).
		Logger()
	return &logger
}

// ForTable derives a logger that tags every entry with the table code.
func ForTable(logger *zerolog.Logger, code string) zerolog.Logger {
	return logger.With().Str(TableCodeKey, code).Logger()
}
