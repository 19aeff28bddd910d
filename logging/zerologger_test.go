package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorLoggingSetting(t *testing.T) {
	defer os.Unsetenv("COLORIZE_LOG")

	os.Unsetenv("COLORIZE_LOG")
	assert.True(t, IsColorLoggingEnabled())
	for value, expected := range map[string]bool{"false": false, "0": false, "true": true, "1": true, "junk": true} {
		os.Setenv("COLORIZE_LOG", value)
		assert.Equal(t, expected, IsColorLoggingEnabled(), value)
	}
}

func TestForTable(t *testing.T) {
	os.Setenv("COLORIZE_LOG", "false")
	defer os.Unsetenv("COLORIZE_LOG")

	var buf bytes.Buffer
	logger := ForTable(GetZeroLogger("logging::test", &buf), "abc")
	logger.Info().Int(SlotKey, 3).Msg("placed")

	out := buf.String()
	assert.Contains(t, out, "logging::test")
	assert.Contains(t, out, TableCodeKey+"=abc")
	assert.Contains(t, out, SlotKey+"=3")
	assert.Contains(t, out, "placed")
}
