package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/trustlane/identity-gateway/internal/agent"
	"github.com/trustlane/identity-gateway/internal/api"
	"github.com/trustlane/identity-gateway/internal/config"
	"github.com/trustlane/identity-gateway/internal/connection"
	"github.com/trustlane/identity-gateway/internal/session/storage/inmem"
	"github.com/trustlane/identity-gateway/internal/task"
	"github.com/trustlane/identity-gateway/internal/token"
)

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("config", cfg.String()).Msg("")

	sweepInterval := time.Duration(cfg.SweepIntervalSecs) * time.Second

	// Initialize the in-memory login session storage and schedule its retention sweep
	sessions, err := inmem.New(time.Duration(cfg.SessionLifetimeSecs) * time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize the login session storage")
	}
	sweepingTask := task.NewRepeating(func() {
		n, err := sessions.DeleteExpired(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("could not delete expired login sessions")
		} else if n > 0 {
			log.Info().Int("amount", n).Msg("deleted expired login sessions")
		}
	}, sweepInterval)
	sweepingTask.Start()
	defer sweepingTask.Stop(false)

	// Create the connection role registry and schedule its cleanup task
	registry := connection.NewRegistry(time.Duration(cfg.RoleLifetimeSecs) * time.Second)
	registry.ScheduleCleanupTask(sweepInterval)
	defer registry.StopCleanupTask()

	// Create the handshake provider client and the session token issuer
	agents := agent.NewClient(agent.NewDirectory(cfg))
	issuer := token.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpirySecs)*time.Second)

	// Start up the gateway API
	log.Info().Str("gateway_api", cfg.APIListenAddress).Msg("starting up the gateway API...")
	apis := &api.Service{
		Config:   cfg,
		Agents:   agents,
		Sessions: sessions,
		Registry: registry,
		Issuer:   issuer,
	}
	apiErrs := make(chan error, 1)
	apis.Startup(apiErrs)
	go func() {
		err := <-apiErrs
		log.Fatal().Err(err).Msg("the API service raised an unexpected error")
	}()
	defer func() {
		log.Info().Msg("shutting down the gateway API...")
		apis.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown
}
