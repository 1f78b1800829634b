package handler

import (
	"net/http"
	"sync"

	"hallseat/config"
	"hallseat/di"
	_ "hallseat/docs"
	"hallseat/shared/logger"
)

var (
	app  *di.App
	once sync.Once
)

// Handler serves the API from a serverless runtime. Background workers are not started here.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		app = di.InitializeService()
	})

	app.HTTP.ServeHTTP(w, r)
}
