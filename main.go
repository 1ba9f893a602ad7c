package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/aarnt28/survey-response-Host/app"
	"github.com/aarnt28/survey-response-Host/config"
	"github.com/aarnt28/survey-response-Host/database"
	"github.com/aarnt28/survey-response-Host/log"
	"github.com/aarnt28/survey-response-Host/routes"
)

func main() {
	cfg := config.ParseFlags()
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	handler := routes.Wire(app.App{
		DB:     db,
		Config: cfg,
	})

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
