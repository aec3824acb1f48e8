package bot

import (
	"context"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dvloznov/firefly-bot/internal/firefly"
	"github.com/dvloznov/firefly-bot/internal/logger"
	"github.com/dvloznov/firefly-bot/internal/parse"
	"github.com/dvloznov/firefly-bot/internal/session"
)

const helpMessage = "Welcome to the Firefly III bot!\n\n" +
	"Available commands:\n" +
	"- /start: set your Firefly III URL, API key and default account.\n" +
	"- /help: display this help message.\n" +
	"- /update: refresh your cached categories and accounts.\n" +
	"- /transactions: view recent entries.\n" +
	"- /balance: check your account balances.\n\n" +
	"To add an expense send a message like:\n" +
	"``` Description 100 [Category] [AssetAccount] [ExpenseAccount]```\n" +
	"To add a revenue send a message like:\n" +
	"``` Description +100 [Category] [AssetAccount] [RevenueAccount]```\n" +
	"To add a transfer send a message like:\n" +
	"``` 100 Account1 Account2```\n\n" +
	"Amounts can be simple equations too:\n" +
	"``` Lunch (100+5)/2 Food```\n\n" +
	"The bracketed fields are optional."

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.FromContext(ctx)
	log.Debug().Str("command", msg.Command()).Int64("chat_id", msg.Chat.ID).Msg("Handling command")

	switch msg.Command() {
	case "start":
		b.startSetup(ctx, msg)
	case "help":
		b.replyMarkdown(ctx, msg.Chat.ID, helpMessage)
	case "update":
		b.handleUpdateCommand(ctx, msg)
	case "transactions":
		b.handleTransactionsCommand(ctx, msg)
	case "balance":
		b.handleBalanceCommand(ctx, msg)
	default:
		b.reply(ctx, msg.Chat.ID, "Unknown command. Run /help to see what I understand.")
	}
}

func (b *Bot) handleUpdateCommand(ctx context.Context, msg *tgbotapi.Message) {
	user := userID(msg.From)
	sess := b.loadSession(ctx, user)
	if sess == nil {
		b.reply(ctx, msg.Chat.ID, replyForError(parse.ErrSessionNotInitialized))
		return
	}

	if _, err := b.refresher.Refresh(ctx, user, sess); err != nil {
		b.reply(ctx, msg.Chat.ID, replyForError(err))
		return
	}
	b.reply(ctx, msg.Chat.ID, "Categories and accounts updated!")
}

func (b *Bot) handleTransactionsCommand(ctx context.Context, msg *tgbotapi.Message) {
	user := userID(msg.From)
	sess := b.loadSession(ctx, user)
	if sess == nil {
		b.reply(ctx, msg.Chat.ID, replyForError(parse.ErrSessionNotInitialized))
		return
	}

	views, err := b.ledger.ListRecent(ctx, sess.Credentials(), recentWindowDays)
	if err != nil {
		lg := logger.FromContext(ctx)
		lg.Error().Err(err).Str("user_id", user).Msg("Failed to list transactions")
		b.reply(ctx, msg.Chat.ID, replyForError(err))
		return
	}
	if len(views) == 0 {
		b.reply(ctx, msg.Chat.ID, "No transactions in the last 30 days.")
		return
	}
	b.replyMarkdown(ctx, msg.Chat.ID, FormatRecent(views))
}

func (b *Bot) handleBalanceCommand(ctx context.Context, msg *tgbotapi.Message) {
	user := userID(msg.From)
	sess := b.loadSession(ctx, user)
	if sess == nil {
		b.reply(ctx, msg.Chat.ID, replyForError(parse.ErrSessionNotInitialized))
		return
	}

	balances, err := b.ledger.AssetBalances(ctx, sess.Credentials())
	if err != nil {
		lg := logger.FromContext(ctx)
		lg.Error().Err(err).Str("user_id", user).Msg("Failed to fetch balances")
		b.reply(ctx, msg.Chat.ID, replyForError(err))
		return
	}
	b.replyMarkdown(ctx, msg.Chat.ID, FormatBalances(balances))
}

// handleText treats any non-command message as a transaction line.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.FromContext(ctx)
	user := userID(msg.From)
	chatID := msg.Chat.ID

	sess := b.loadSession(ctx, user)
	if sess == nil {
		b.reply(ctx, chatID, replyForError(parse.ErrSessionNotInitialized))
		return
	}
	snap := b.loadSnapshot(ctx, user, sess)

	tx, err := parse.Parse(msg.Text, snap)
	if err != nil {
		log.Debug().Err(err).Str("user_id", user).Str("text", msg.Text).Msg("Rejected transaction line")
		b.reply(ctx, chatID, replyForError(err))
		return
	}

	view, err := b.ledger.CreateTransaction(ctx, sess.Credentials(), splitFromParsed(tx))
	if err != nil {
		log.Error().Err(err).Str("user_id", user).Msg("Failed to create transaction")
		b.reply(ctx, chatID, replyForError(err))
		return
	}
	log.Info().
		Str("user_id", user).
		Str("transaction_id", view.ID).
		Str("kind", string(tx.Kind)).
		Str("amount", tx.Amount.String()).
		Msg("Transaction created")

	// The bare transfer shorthand only gets a delete button; full entries
	// get the edit keyboard as well.
	if isShorthand(msg.Text) {
		b.replyWithKeyboard(ctx, chatID, FormatTransaction(view), deleteKeyboard(view.ID))
		return
	}
	b.replyWithKeyboard(ctx, chatID, FormatTransaction(view), transactionKeyboard(view.ID, string(tx.Kind)))
}

// splitFromParsed maps a parsed transaction to the ledger's write shape.
func splitFromParsed(tx *parse.Transaction) firefly.TransactionSplit {
	return firefly.TransactionSplit{
		Type:            string(tx.Kind),
		Amount:          tx.Amount.String(),
		Description:     tx.Description,
		SourceName:      tx.Source,
		DestinationName: tx.Destination,
		CategoryName:    tx.Category,
		Date:            time.Now().Format(time.RFC3339),
	}
}

func isShorthand(text string) bool {
	for _, r := range text {
		return unicode.IsDigit(r)
	}
	return false
}

// startSetup begins the /start conversation.
func (b *Bot) startSetup(ctx context.Context, msg *tgbotapi.Message) {
	b.pending[msg.Chat.ID] = stageURL
	b.reply(ctx, msg.Chat.ID, "Enter your Firefly III URL.")
}

// handleSetupStep consumes the next free-text message of a chat that is in
// the /start conversation.
func (b *Bot) handleSetupStep(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.FromContext(ctx)
	user := userID(msg.From)
	chatID := msg.Chat.ID

	sess := b.loadSession(ctx, user)
	if sess == nil {
		sess = &session.Session{}
	}

	switch b.pending[chatID] {
	case stageURL:
		base := strings.TrimRight(strings.TrimSpace(msg.Text), "/")
		sess.LedgerURL = base + "/api/v1/"
		if err := b.store.SaveSession(ctx, user, sess); err != nil {
			log.Error().Err(err).Str("user_id", user).Msg("Failed to save session")
			b.reply(ctx, chatID, replyForError(err))
			delete(b.pending, chatID)
			return
		}
		b.pending[chatID] = stageAPIKey
		b.reply(ctx, chatID, "Please enter your Firefly III API key.")

	case stageAPIKey:
		delete(b.pending, chatID)
		sess.APIKey = strings.TrimSpace(msg.Text)
		if err := b.store.SaveSession(ctx, user, sess); err != nil {
			log.Error().Err(err).Str("user_id", user).Msg("Failed to save session")
			b.reply(ctx, chatID, replyForError(err))
			return
		}

		snap, err := b.refresher.Refresh(ctx, user, sess)
		if err != nil {
			b.reply(ctx, chatID, "Could not reach your Firefly III instance. Check the URL and API key, then run /start again.")
			return
		}
		if len(snap.AssetAccounts) == 0 {
			b.reply(ctx, chatID, "No asset accounts found. Add one in Firefly III and run /start again.")
			return
		}
		b.replyWithKeyboard(ctx, chatID, "Choose your default account:", accountPickerKeyboard(snap.AssetAccounts))
	}
}
