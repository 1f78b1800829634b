package logger

import (
	"os"
	"time"

	"hallseat/config"
	"hallseat/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = log.Output(output)
	log.Trace().Msg("Zerolog initialized.")
}

// InitProductionLogger keeps JSON output so log shippers can parse it.
func InitProductionLogger() {
	zerolog.TimeFieldFormat = time.RFC3339

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// ParseLevel falls back to trace for unknown or empty levels.
func ParseLevel(value string) zerolog.Level {
	level, err := zerolog.ParseLevel(value)
	if err != nil || value == "" {
		return zerolog.TraceLevel
	}

	return level
}

func SetLogLevel(config *config.Config) {
	if config.Server.Env == constant.ServerEnvProduction {
		InitProductionLogger()
	}

	level := ParseLevel(config.Server.LogLevel)
	log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")

	zerolog.SetGlobalLevel(level)
}
