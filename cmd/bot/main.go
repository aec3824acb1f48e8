package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dvloznov/firefly-bot/internal/bot"
	"github.com/dvloznov/firefly-bot/internal/config"
	"github.com/dvloznov/firefly-bot/internal/firefly"
	"github.com/dvloznov/firefly-bot/internal/logger"
	"github.com/dvloznov/firefly-bot/internal/session"
	"github.com/dvloznov/firefly-bot/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		lg := logger.New("")
		lg.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer db.Close()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}

	ledger := firefly.NewClient(cfg.RequestTimeout)
	refresher := session.NewRefresher(ledger, db)
	b := bot.New(api, ledger, db, refresher, log)

	// Stop polling cleanly on SIGINT/SIGTERM.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		cancel()
	}()

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Bot stopped with error")
	}
	log.Info().Msg("Bot stopped")
}
