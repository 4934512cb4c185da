// cmd/server/main.go
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
	"golang.org/x/sync/errgroup"

	"github.com/collegecounter/ccweb/internal/api/auth"
	"github.com/collegecounter/ccweb/internal/api/divisions"
	"github.com/collegecounter/ccweb/internal/api/matchedit"
	"github.com/collegecounter/ccweb/internal/api/matches"
	"github.com/collegecounter/ccweb/internal/api/placements"
	"github.com/collegecounter/ccweb/internal/api/players"
	"github.com/collegecounter/ccweb/internal/api/playerstats"
	"github.com/collegecounter/ccweb/internal/api/standings"
	"github.com/collegecounter/ccweb/internal/api/teams"
	"github.com/collegecounter/ccweb/internal/api/upcoming"
	"github.com/collegecounter/ccweb/internal/config"
	"github.com/collegecounter/ccweb/internal/league"
	"github.com/collegecounter/ccweb/internal/ratelimit"
	"github.com/collegecounter/ccweb/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	client, err := league.NewClient(league.ClientConfig{
		BaseURL:       cfg.Upstream.BaseURL,
		AdminPassword: cfg.Upstream.AdminPassword,
		Timeout:       cfg.Upstream.Timeout,
		RateLimit:     cfg.Upstream.RateLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create league API client")
	}
	directory := league.NewDirectory(client)

	auth.Init(cfg)
	auth.InitHandlers(ratelimit.DefaultConfig())
	matchedit.InitHandlers(client, directory)
	matches.InitHandlers(client)
	upcoming.InitHandlers(client, directory, cfg.Broadcast.TwitchChannel, cfg.Broadcast.TwitchURL)
	teams.InitHandlers(client, directory)
	players.InitHandlers(client, directory)
	standings.InitHandlers(client)
	playerstats.InitHandlers(client)
	divisions.InitHandlers(client)
	placements.InitHandlers(client)

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := scheduler.RegisterDirectoryRefresh(directory, cfg.Jobs.DirectoryRefresh); err != nil {
		log.Fatal().Err(err).Msg("Failed to register directory refresh job")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	server := newServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("upstream", cfg.Upstream.BaseURL).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Warn().Err(err).Msg("Scheduler shutdown error")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
