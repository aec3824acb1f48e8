package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// deleteKeyboard offers only removal, used for transfer shorthand entries.
func deleteKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Delete", "delete_"+id),
		),
	)
}

// transactionKeyboard is the edit keyboard under a recorded transaction.
// Withdrawals can swap the expense side, everything else the revenue side.
func transactionKeyboard(id, kind string) tgbotapi.InlineKeyboardMarkup {
	accountLabel, accountPrefix := "Revenue Account", "set_revenue_"
	if kind == "withdrawal" {
		accountLabel, accountPrefix = "Expense Account", "set_expense_"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Delete", "delete_"+id),
			tgbotapi.NewInlineKeyboardButtonData("Set Category", fmt.Sprintf("set_category_%s_%s", id, kind)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Asset Account", fmt.Sprintf("set_asset_%s_%s", id, kind)),
			tgbotapi.NewInlineKeyboardButtonData(accountLabel, fmt.Sprintf("%s%s_%s", accountPrefix, id, kind)),
		),
	)
}

// accountPickerKeyboard lists asset accounts for the default-account choice.
func accountPickerKeyboard(names []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(names))
	for _, name := range names {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, "set_account_"+name),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// nameListKeyboard lists names one per row with
// "<prefix>_<id>_<name>_<kind>" callback data.
func nameListKeyboard(prefix, id, kind string, names []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(names))
	for _, name := range names {
		data := fmt.Sprintf("%s_%s_%s_%s", prefix, id, name, kind)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
