package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"viewtracker/internal/adapter/repo"
	"viewtracker/internal/http/handlers"
	"viewtracker/internal/http/httpapi"
	"viewtracker/internal/infra"
	"viewtracker/internal/infra/geoip"
	"viewtracker/internal/presence"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if err := infra.Migrate(ctx, dbpool); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate schema")
	}

	var country geoip.CountryResolver
	if resolver, err := geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		country = resolver
	}

	// Presence is process-local and rebuilt empty on every start; the
	// sweeper keeps its memory bounded between online-count reads.
	tracker := presence.New(cfg.OnlineWindow)
	go tracker.Run(ctx, cfg.PresenceSweepEvery)

	app := handlers.NewApp(
		repo.NewDayCountRepository(dbpool),
		repo.NewVisitorRepository(dbpool),
		tracker,
		country,
		logger,
		cfg.VisitorCookieMaxAge,
	)

	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
