package bot

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/firefly-bot/internal/firefly"
	"github.com/dvloznov/firefly-bot/internal/logger"
	"github.com/dvloznov/firefly-bot/internal/session"
	"github.com/dvloznov/firefly-bot/internal/store"
)

// recentWindowDays is the lookback for the /transactions command.
const recentWindowDays = 30

// Ledger is the slice of the ledger client the bot needs.
type Ledger interface {
	ListCategories(ctx context.Context, creds firefly.Credentials) ([]string, error)
	ListAccounts(ctx context.Context, creds firefly.Credentials) ([]firefly.Account, error)
	CreateTransaction(ctx context.Context, creds firefly.Credentials, split firefly.TransactionSplit) (*firefly.TransactionView, error)
	GetTransaction(ctx context.Context, creds firefly.Credentials, id string) (*firefly.TransactionView, error)
	UpdateTransaction(ctx context.Context, creds firefly.Credentials, id string, split firefly.TransactionSplit) (*firefly.TransactionView, error)
	DeleteTransaction(ctx context.Context, creds firefly.Credentials, id string) error
	ListRecent(ctx context.Context, creds firefly.Credentials, days int) ([]firefly.TransactionView, error)
	AssetBalances(ctx context.Context, creds firefly.Credentials) ([]firefly.Balance, error)
}

// sender is the part of the Telegram API the handlers use to reply. It is
// satisfied by *tgbotapi.BotAPI and mocked in tests.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// setupStage tracks where a chat is in the /start conversation.
type setupStage int

const (
	stageURL setupStage = iota
	stageAPIKey
)

// Bot routes Telegram updates to the transaction core. Updates are handled
// one at a time to completion, so the maps below need no locking.
type Bot struct {
	api       *tgbotapi.BotAPI
	tg        sender
	ledger    Ledger
	store     store.Store
	refresher *session.Refresher
	log       zerolog.Logger

	// pending holds per-chat /start conversation state.
	pending map[int64]setupStage
}

// New creates a Bot on top of an authorized Telegram API client.
func New(api *tgbotapi.BotAPI, ledger Ledger, st store.Store, refresher *session.Refresher, log zerolog.Logger) *Bot {
	return &Bot{
		api:       api,
		tg:        api,
		ledger:    ledger,
		store:     st,
		refresher: refresher,
		log:       log,
		pending:   make(map[int64]setupStage),
	}
}

// Run polls for updates until the context is cancelled. Each update is
// handled to completion before the next one is read.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info().Str("bot", b.api.Self.UserName).Msg("Polling for updates")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	log := b.log.With().
		Int("update_id", update.UpdateID).
		Str("correlation_id", uuid.NewString()).
		Logger()
	ctx = logger.WithContext(ctx, log)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from handler panic")
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		if _, inSetup := b.pending[update.Message.Chat.ID]; inSetup {
			b.handleSetupStep(ctx, update.Message)
			return
		}
		b.handleText(ctx, update.Message)
	}
}

// userID is the per-user key for sessions and snapshots.
func userID(from *tgbotapi.User) string {
	return strconv.FormatInt(from.ID, 10)
}

// reply sends plain text to a chat, logging send failures instead of
// propagating them: there is nothing better to do with a failed reply.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.tg.Send(msg); err != nil {
		lg := logger.FromContext(ctx)
		lg.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

func (b *Bot) replyMarkdown(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.tg.Send(msg); err != nil {
		lg := logger.FromContext(ctx)
		lg.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

func (b *Bot) replyWithKeyboard(ctx context.Context, chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := b.tg.Send(msg); err != nil {
		lg := logger.FromContext(ctx)
		lg.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// loadSession returns the user's stored session, or nil if the user never
// ran /start.
func (b *Bot) loadSession(ctx context.Context, user string) *session.Session {
	sess, err := b.store.LoadSession(ctx, user)
	if err != nil {
		if !errorsIsNotFound(err) {
			lg := logger.FromContext(ctx)
			lg.Error().Err(err).Str("user_id", user).Msg("Failed to load session")
		}
		return nil
	}
	return sess
}

// loadSnapshot returns the user's working snapshot copy with the session's
// default account applied, or nil when none is cached. The copy is owned by
// this operation and discarded when it ends.
func (b *Bot) loadSnapshot(ctx context.Context, user string, sess *session.Session) *session.Snapshot {
	snap, err := b.store.LoadSnapshot(ctx, user)
	if err != nil {
		if !errorsIsNotFound(err) {
			lg := logger.FromContext(ctx)
			lg.Error().Err(err).Str("user_id", user).Msg("Failed to load snapshot")
		}
		return nil
	}
	if sess != nil {
		snap.DefaultAccount = sess.DefaultAccount
	}
	return snap
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
