package logger_test

import (
	"testing"

	"hallseat/shared/logger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("info"))
	assert.Equal(t, zerolog.ErrorLevel, logger.ParseLevel("error"))
	assert.Equal(t, zerolog.TraceLevel, logger.ParseLevel(""))
	assert.Equal(t, zerolog.TraceLevel, logger.ParseLevel("loud"))
}
