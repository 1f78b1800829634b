package main

import (
	"hallseat/config"
	"hallseat/di"
	_ "hallseat/docs"
	"hallseat/helper"
	"hallseat/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Hallseat API
// @version 1.0
// @description Residence hall administration: students, rooms, applications, maintenance, invoices and reports.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	app := di.InitializeService()
	app.Run()
}
