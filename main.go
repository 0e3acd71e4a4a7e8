// Package main is the entry point for the exchange rate converter.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/yelinaung/quickrate/internal/bot"
	"gitlab.com/yelinaung/quickrate/internal/config"
	"gitlab.com/yelinaung/quickrate/internal/exchange"
	"gitlab.com/yelinaung/quickrate/internal/logger"
	"gitlab.com/yelinaung/quickrate/internal/server"
	"gitlab.com/yelinaung/quickrate/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("quickrate %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Configure(cfg.LogLevel, cfg.LogFormat)
	logger.InitHashSalt(cfg.LogHashSalt)
	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Options{
		Exporter:    cfg.OtelExporter,
		ServiceName: cfg.OtelServiceName,
	})
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to set up telemetry")
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to flush telemetry")
		}
	}()

	instruments, err := telemetry.NewInstruments()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create instruments")
	}

	upstream := exchange.NewCoalescingSource(
		exchange.NewKoreaEximClient(cfg.KoreaEximBaseURL, cfg.KoreaEximAPIKey, cfg.KoreaEximTimeout),
	)
	pageFetcher := exchange.NewRatesClient(cfg.RatesEndpoint, nil)

	srv, err := server.New(server.Options{
		Addr:               cfg.Addr(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:          cfg.RateLimit,
		Observer:           instruments,
	}, pageFetcher, upstream)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create HTTP server")
	}

	var wg sync.WaitGroup
	if cfg.BotEnabled() {
		telegramBot, err := bot.New(cfg.TelegramBotToken, pageFetcher, instruments)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to create bot")
		}
		wg.Go(func() { telegramBot.Start(ctx) })
	} else {
		logger.Log.Info().Msg("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()
	}()

	logger.Log.Info().
		Str("rates_endpoint", pageFetcher.Endpoint()).
		Str("exporter", cfg.OtelExporter).
		Msg("Starting quickrate")

	if err := srv.Run(ctx, cfg.ShutdownTimeout); err != nil {
		logger.Log.Error().Err(err).Msg("HTTP server stopped with error")
		cancel()
	}
	wg.Wait()
}
