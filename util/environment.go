package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type tableServerEnvironment struct {
	LogLevel         string
	PersistMethod    string
	RedisHost        string
	RedisPort        string
	RedisPW          string
	RedisDB          string
	PostgresHost     string
	PostgresPort     string
	PostgresDB       string
	PostgresUser     string
	PostgresPW       string
	PostgresSSLMode  string
	NatsURL          string
	DisableDelays    string
	TableDelayMillis string
}

// Env is a helper object for accessing environment variables.
var Env = &tableServerEnvironment{
	LogLevel:         "LOG_LEVEL",
	PersistMethod:    "PERSIST_METHOD",
	RedisHost:        "REDIS_HOST",
	RedisPort:        "REDIS_PORT",
	RedisPW:          "REDIS_PW",
	RedisDB:          "REDIS_DB",
	PostgresHost:     "POSTGRES_HOST",
	PostgresPort:     "POSTGRES_PORT",
	PostgresDB:       "POSTGRES_DB",
	PostgresUser:     "POSTGRES_USER",
	PostgresPW:       "POSTGRES_PASSWORD",
	PostgresSSLMode:  "POSTGRES_SSL_MODE",
	NatsURL:          "NATS_URL",
	DisableDelays:    "DISABLE_DELAYS",
	TableDelayMillis: "TABLE_DELAY_MILLIS",
}

func (e *tableServerEnvironment) GetZeroLogLogLevel() zerolog.Level {
	s := strings.ToLower(os.Getenv(e.LogLevel))
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		environmentLogger.Warn().Msgf("Invalid log level [%s]. Using info.", s)
		return zerolog.InfoLevel
	}
	return level
}

func (e *tableServerEnvironment) GetPersistMethod() string {
	method := os.Getenv(e.PersistMethod)
	if method == "" {
		return "memory"
	}
	return strings.ToLower(method)
}

func (e *tableServerEnvironment) GetRedisHost() string {
	return e.required(e.RedisHost)
}

func (e *tableServerEnvironment) GetRedisPort() int {
	return e.requiredInt(e.RedisPort)
}

func (e *tableServerEnvironment) GetRedisPW() string {
	return os.Getenv(e.RedisPW)
}

func (e *tableServerEnvironment) GetRedisDB() int {
	if os.Getenv(e.RedisDB) == "" {
		return 0
	}
	return e.requiredInt(e.RedisDB)
}

func (e *tableServerEnvironment) GetRedisURL() string {
	return fmt.Sprintf("%s:%d", e.GetRedisHost(), e.GetRedisPort())
}

func (e *tableServerEnvironment) GetPostgresHost() string {
	return e.required(e.PostgresHost)
}

func (e *tableServerEnvironment) GetPostgresPort() int {
	return e.requiredInt(e.PostgresPort)
}

func (e *tableServerEnvironment) GetPostgresUser() string {
	return e.required(e.PostgresUser)
}

func (e *tableServerEnvironment) GetPostgresPW() string {
	return e.required(e.PostgresPW)
}

func (e *tableServerEnvironment) GetPostgresDB() string {
	return e.required(e.PostgresDB)
}

func (e *tableServerEnvironment) GetPostgresSSLMode() string {
	v := os.Getenv(e.PostgresSSLMode)
	if v == "" {
		return "disable"
	}
	return v
}

func (e *tableServerEnvironment) GetPostgresConnStr() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		e.GetPostgresHost(),
		e.GetPostgresPort(),
		e.GetPostgresUser(),
		e.GetPostgresPW(),
		e.GetPostgresDB(),
		e.GetPostgresSSLMode(),
	)
}

// GetNatsURL returns an empty string when NATS is not configured.
func (e *tableServerEnvironment) GetNatsURL() string {
	return os.Getenv(e.NatsURL)
}

func (e *tableServerEnvironment) GetDisableDelays() string {
	v := os.Getenv(e.DisableDelays)
	if v == "" {
		return "false"
	}
	return v
}

func (e *tableServerEnvironment) ShouldDisableDelays() bool {
	return e.GetDisableDelays() == "1" || strings.ToLower(e.GetDisableDelays()) == "true"
}

// GetTableDelayMillis returns -1 when the variable is not set.
func (e *tableServerEnvironment) GetTableDelayMillis() int {
	s := os.Getenv(e.TableDelayMillis)
	if s == "" {
		return -1
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		msg := fmt.Sprintf("Invalid integer [%s] for table delay value", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return v
}

func (e *tableServerEnvironment) required(name string) string {
	v := os.Getenv(name)
	if v == "" {
		msg := fmt.Sprintf("%s is not defined", name)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return v
}

func (e *tableServerEnvironment) requiredInt(name string) int {
	s := e.required(name)
	v, err := strconv.Atoi(s)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for %s", s, name)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return v
}
