package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"giveaway-bot/internal/common/config"
	"giveaway-bot/internal/common/logger"
	giveawayDelivery "giveaway-bot/internal/features/giveaway/delivery/discord"
	"giveaway-bot/internal/features/giveaway/repository/memory"
	"giveaway-bot/internal/features/giveaway/scheduler"
	giveawayService "giveaway-bot/internal/features/giveaway/service"
	httpserver "giveaway-bot/internal/http"
	"giveaway-bot/internal/platform/discord"
)

const serviceName = "giveaway-bot"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(serviceName, false)
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init(serviceName, cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting giveaway bot")

	session, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Discord session")
	}

	// In-flight giveaways live in memory only and are lost on restart.
	giveawayRepository := memory.NewRepository()
	timer := scheduler.NewTimer(cfg.Giveaway.ResolveTimeout)
	platform := discord.NewClient(session)

	giveawaySvc := giveawayService.NewGiveawayService(giveawayRepository, platform, timer, cfg)
	countdownSvc := giveawayService.NewCountdownService(giveawayRepository, platform, cfg)

	handler := giveawayDelivery.NewGiveawayHandler(session, giveawaySvc, cfg.Discord.GuildID)
	handler.Register(session)

	if err := session.Open(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Discord")
	}
	logger.Info().Msg("Discord session opened")

	countdownSvc.Start()

	router := httpserver.NewRouter(serviceName, cfg.Debug, httpserver.Probes{
		Ready: func(ctx context.Context) error {
			session.RLock()
			connected := session.DataReady
			session.RUnlock()
			if !connected {
				return errors.New("gateway not connected")
			}
			return nil
		},
		Pending: func(ctx context.Context) (int, error) {
			giveaways, err := giveawayRepository.List(ctx)
			return len(giveaways), err
		},
	})
	server := httpserver.NewServer(cfg.Server.Port, router)

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	countdownSvc.Stop()
	if pending := timer.Pending(); pending > 0 {
		logger.Warn().Int("pending", pending).Msg("Dropping scheduled resolutions")
	}
	timer.Stop()

	if err := session.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close Discord session")
	}

	logger.Info().Msg("Bot exited")
}
