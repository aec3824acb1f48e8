package bot

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/firefly-bot/internal/firefly"
)

func TestFormatTransaction(t *testing.T) {
	got := FormatTransaction(testView())
	want := "4.50€ Checking → Cafe (Food)"
	if got != want {
		t.Errorf("FormatTransaction = %q, want %q", got, want)
	}
}

func TestFormatTransaction_NoCategory(t *testing.T) {
	view := testView()
	view.CategoryName = ""
	got := FormatTransaction(view)
	if strings.Contains(got, "(") {
		t.Errorf("FormatTransaction = %q, want no category suffix", got)
	}
}

func TestFormatRecent(t *testing.T) {
	got := FormatRecent([]firefly.TransactionView{*testView()})
	if !strings.Contains(got, "24-05-01") {
		t.Errorf("FormatRecent = %q, want short date", got)
	}
	if !strings.Contains(got, "4.50 Coffee (Food)") {
		t.Errorf("FormatRecent = %q, want amount and description", got)
	}
}

func TestFormatBalances(t *testing.T) {
	got := FormatBalances([]firefly.Balance{
		{Name: "Checking", Amount: decimal.RequireFromString("120.50"), CurrencySymbol: "€"},
		{Name: "Savings", Amount: decimal.RequireFromString("79.50"), CurrencySymbol: "€"},
	})

	if !strings.Contains(got, "120.50€") || !strings.Contains(got, "79.50€") {
		t.Errorf("FormatBalances = %q, want both balances", got)
	}
	if !strings.Contains(got, "TOTAL:") || !strings.Contains(got, "200.00€") {
		t.Errorf("FormatBalances = %q, want a 200.00 total", got)
	}
}

func TestParseUpdateData(t *testing.T) {
	tests := []struct {
		data  string
		field string
		id    string
		name  string
		kind  string
		ok    bool
	}{
		{"category_42_Food_withdrawal", "category", "42", "Food", "withdrawal", true},
		{"asset_7_Main_Account_deposit", "asset", "7", "Main_Account", "deposit", true},
		{"expense_1_Shop_transfer", "expense", "1", "Shop", "transfer", true},
		{"category_42_withdrawal", "", "", "", "", false},
		{"garbage", "", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			field, id, name, kind, ok := parseUpdateData(tt.data)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if field != tt.field || id != tt.id || name != tt.name || kind != tt.kind {
				t.Errorf("got (%q %q %q %q), want (%q %q %q %q)",
					field, id, name, kind, tt.field, tt.id, tt.name, tt.kind)
			}
		})
	}
}

func TestSplitPickerData(t *testing.T) {
	id, kind := splitPickerData("42_withdrawal")
	if id != "42" || kind != "withdrawal" {
		t.Errorf("got (%q, %q), want (42, withdrawal)", id, kind)
	}
}

func TestTransactionKeyboard_AccountButtonByKind(t *testing.T) {
	withdrawal := transactionKeyboard("1", "withdrawal")
	if withdrawal.InlineKeyboard[1][1].Text != "Expense Account" {
		t.Errorf("withdrawal keyboard offers %q, want Expense Account", withdrawal.InlineKeyboard[1][1].Text)
	}

	deposit := transactionKeyboard("1", "deposit")
	if deposit.InlineKeyboard[1][1].Text != "Revenue Account" {
		t.Errorf("deposit keyboard offers %q, want Revenue Account", deposit.InlineKeyboard[1][1].Text)
	}
}
