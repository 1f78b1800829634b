package main

import (
	"os"

	"hallseat/config"
	"hallseat/helper"
	"hallseat/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction is required: up, down, drop or step-up")
	}

	action := helper.Action(os.Args[1])

	switch action {
	case helper.ActionUp, helper.ActionDown, helper.ActionDrop, helper.ActionStepUp:
	default:
		log.Fatal().Str("direction", os.Args[1]).Msg("Invalid direction. Use 'up', 'down', 'drop' or 'step-up'")
	}

	if err := helper.Runner(config.Get(), action); err != nil {
		log.Fatal().Err(err).Str("direction", string(action)).Msg("Migration failed")
	}
}
