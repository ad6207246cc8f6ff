package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/lcrespo/fishpond/internal/adapters/http"
	wsignal "github.com/lcrespo/fishpond/internal/adapters/signal"
	"github.com/lcrespo/fishpond/internal/app"
	"github.com/lcrespo/fishpond/internal/config"
	"github.com/lcrespo/fishpond/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	settings := core.Settings{
		MinPlayers:          cfg.MinPlayers,
		MaxPlayers:          cfg.MaxPlayers,
		RoundsTotal:         cfg.RoundsTotal,
		StartingStock:       cfg.StartingStock,
		MaxHarvestPerPlayer: cfg.MaxHarvestPerPlayer,
		GrowthStartRound:    cfg.GrowthStartRound,
		StockCap:            cfg.StockCap,
	}

	rooms := app.NewRegistry(settings)
	fanout := app.NewFanout()
	ctl := wsignal.NewController(rooms, fanout, cfg)

	r := router.SetupRouter(cfg, rooms, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("fishpond server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
