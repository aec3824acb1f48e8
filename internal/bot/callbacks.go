package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dvloznov/firefly-bot/internal/firefly"
	"github.com/dvloznov/firefly-bot/internal/logger"
	"github.com/dvloznov/firefly-bot/internal/session"
)

// Callback data formats, mirrored by the keyboard builders:
//
//	delete_<id>
//	set_account_<name>
//	set_category_<id>_<kind>    category_<id>_<name>_<kind>
//	set_asset_<id>_<kind>       asset_<id>_<name>_<kind>
//	set_expense_<id>_<kind>     expense_<id>_<name>_<kind>
//	set_revenue_<id>_<kind>     revenue_<id>_<name>_<kind>
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	log := logger.FromContext(ctx)
	if cq.Message == nil {
		return
	}
	user := userID(cq.From)
	chatID := cq.Message.Chat.ID
	log.Debug().Str("user_id", user).Str("data", cq.Data).Msg("Handling callback")

	// Acknowledge so the client stops showing a spinner.
	if _, err := b.tg.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Debug().Err(err).Msg("Failed to acknowledge callback")
	}

	sess := b.loadSession(ctx, user)
	if sess == nil {
		b.reply(ctx, chatID, "Run /start first!")
		return
	}
	snap := b.loadSnapshot(ctx, user, sess)

	switch {
	case strings.HasPrefix(cq.Data, "delete_"):
		b.deleteTransactionCallback(ctx, cq, sess, strings.TrimPrefix(cq.Data, "delete_"))

	case strings.HasPrefix(cq.Data, "set_account_"):
		b.defaultAccountCallback(ctx, cq, sess, snap, strings.TrimPrefix(cq.Data, "set_account_"))

	case strings.HasPrefix(cq.Data, "set_category_"):
		id, kind := splitPickerData(strings.TrimPrefix(cq.Data, "set_category_"))
		b.sendNamePicker(ctx, chatID, "Select a category:", "category", id, kind, listOrNil(snap, func(s *session.Snapshot) []string { return s.Categories }))

	case strings.HasPrefix(cq.Data, "set_asset_"):
		id, kind := splitPickerData(strings.TrimPrefix(cq.Data, "set_asset_"))
		b.sendNamePicker(ctx, chatID, "Select the asset account:", "asset", id, kind, listOrNil(snap, func(s *session.Snapshot) []string { return s.AssetAccounts }))

	case strings.HasPrefix(cq.Data, "set_expense_"):
		id, kind := splitPickerData(strings.TrimPrefix(cq.Data, "set_expense_"))
		b.sendNamePicker(ctx, chatID, "Select an expense account:", "expense", id, kind, listOrNil(snap, func(s *session.Snapshot) []string { return s.ExpenseAccounts }))

	case strings.HasPrefix(cq.Data, "set_revenue_"):
		id, kind := splitPickerData(strings.TrimPrefix(cq.Data, "set_revenue_"))
		b.sendNamePicker(ctx, chatID, "Select a revenue account:", "revenue", id, kind, listOrNil(snap, func(s *session.Snapshot) []string { return s.RevenueAccounts }))

	case strings.HasPrefix(cq.Data, "category_"),
		strings.HasPrefix(cq.Data, "asset_"),
		strings.HasPrefix(cq.Data, "expense_"),
		strings.HasPrefix(cq.Data, "revenue_"):
		b.updateFieldCallback(ctx, cq, sess, snap)
	}
}

func (b *Bot) deleteTransactionCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, sess *session.Session, id string) {
	log := logger.FromContext(ctx)
	if err := b.ledger.DeleteTransaction(ctx, sess.Credentials(), id); err != nil {
		log.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
		b.reply(ctx, cq.Message.Chat.ID, replyForError(err))
		return
	}
	log.Info().Str("transaction_id", id).Msg("Transaction deleted")
	if _, err := b.tg.Request(tgbotapi.NewDeleteMessage(cq.Message.Chat.ID, cq.Message.MessageID)); err != nil {
		log.Debug().Err(err).Msg("Failed to delete chat message")
	}
}

// defaultAccountCallback finishes the /start conversation.
func (b *Bot) defaultAccountCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, sess *session.Session, snap *session.Snapshot, name string) {
	log := logger.FromContext(ctx)
	user := userID(cq.From)
	chatID := cq.Message.Chat.ID

	if snap == nil || !snap.HasAsset(name) {
		b.reply(ctx, chatID, "That account is no longer available. Run /start again.")
		return
	}

	sess.DefaultAccount = name
	if err := b.store.SaveSession(ctx, user, sess); err != nil {
		log.Error().Err(err).Str("user_id", user).Msg("Failed to save session")
		b.reply(ctx, chatID, replyForError(err))
		return
	}

	// Drop the picker keyboard from the prompt message.
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, cq.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := b.tg.Request(edit); err != nil {
		log.Debug().Err(err).Msg("Failed to clear picker keyboard")
	}
	b.reply(ctx, chatID, "Setup completed! Run /help to see how to record transactions.")
}

func (b *Bot) sendNamePicker(ctx context.Context, chatID int64, prompt, prefix, id, kind string, names []string) {
	if names == nil {
		b.reply(ctx, chatID, "Run /start first!")
		return
	}
	if len(names) == 0 {
		b.reply(ctx, chatID, "Nothing to choose from. Run /update after adding entries in Firefly III.")
		return
	}
	b.replyWithKeyboard(ctx, chatID, prompt, nameListKeyboard(prefix, id, kind, names))
}

// updateFieldCallback rewrites one field of a stored transaction. The asset
// and revenue pickers replace the source side, the expense picker the
// destination side, the category picker the category.
func (b *Bot) updateFieldCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, sess *session.Session, snap *session.Snapshot) {
	log := logger.FromContext(ctx)
	chatID := cq.Message.Chat.ID

	field, id, name, kind, ok := parseUpdateData(cq.Data)
	if !ok {
		log.Warn().Str("data", cq.Data).Msg("Malformed callback data")
		return
	}
	if snap == nil {
		b.reply(ctx, chatID, "Run /start first!")
		return
	}

	creds := sess.Credentials()
	view, err := b.ledger.GetTransaction(ctx, creds, id)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", id).Msg("Failed to read transaction")
		b.reply(ctx, chatID, replyForError(err))
		return
	}

	split := firefly.TransactionSplit{
		Type:          view.Type,
		Amount:        view.Amount.String(),
		Description:   view.Description,
		CategoryName:  view.CategoryName,
		SourceID:      view.SourceID,
		DestinationID: view.DestinationID,
		Date:          view.Date,
	}
	switch field {
	case "category":
		split.CategoryName = name
	case "asset", "revenue":
		split.SourceID = snap.AccountIDs[name]
	case "expense":
		split.DestinationID = snap.AccountIDs[name]
	}

	updated, err := b.ledger.UpdateTransaction(ctx, creds, id, split)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", id).Str("field", field).Msg("Failed to update transaction")
		b.reply(ctx, chatID, replyForError(err))
		return
	}
	log.Info().Str("transaction_id", id).Str("field", field).Str("value", name).Msg("Transaction updated")

	// Replace the picker message with the refreshed transaction line and a
	// rebuilt edit keyboard; drop the stale transaction message above it.
	if _, err := b.tg.Request(tgbotapi.NewDeleteMessage(chatID, cq.Message.MessageID-1)); err != nil {
		log.Debug().Err(err).Msg("Failed to delete stale transaction message")
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cq.Message.MessageID,
		FormatTransaction(updated), transactionKeyboard(id, kind))
	if _, err := b.tg.Request(edit); err != nil {
		log.Error().Err(err).Msg("Failed to edit transaction message")
	}
}

// splitPickerData splits "<id>_<kind>".
func splitPickerData(data string) (id, kind string) {
	parts := strings.SplitN(data, "_", 2)
	if len(parts) != 2 {
		return data, ""
	}
	return parts[0], parts[1]
}

// parseUpdateData splits "<field>_<id>_<name>_<kind>". The name may itself
// contain underscores; field, id and kind never do.
func parseUpdateData(data string) (field, id, name, kind string, ok bool) {
	parts := strings.Split(data, "_")
	if len(parts) < 4 {
		return "", "", "", "", false
	}
	field = parts[0]
	id = parts[1]
	kind = parts[len(parts)-1]
	name = strings.Join(parts[2:len(parts)-1], "_")
	return field, id, name, kind, name != ""
}

func listOrNil(snap *session.Snapshot, pick func(*session.Snapshot) []string) []string {
	if snap == nil {
		return nil
	}
	list := pick(snap)
	if list == nil {
		return []string{}
	}
	return list
}
