package parse

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/firefly-bot/internal/firefly"
	"github.com/dvloznov/firefly-bot/internal/session"
)

func testSnapshot(defaultAccount string) *session.Snapshot {
	return session.BuildSnapshot(
		[]string{"Food", "Salary"},
		[]firefly.Account{
			{ID: "1", Name: "Checking", Type: "asset"},
			{ID: "2", Name: "Savings", Type: "asset"},
			{ID: "3", Name: "Supermarket", Type: "expense"},
			{ID: "4", Name: "Income", Type: "revenue"},
		},
		defaultAccount,
	)
}

func TestParse_WithdrawalWithCategoryAndSource(t *testing.T) {
	tx, err := Parse("Coffee 4.5 Food Checking", testSnapshot(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if tx.Description != "Coffee" {
		t.Errorf("Description = %q, want Coffee", tx.Description)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("Amount = %s, want 4.5", tx.Amount)
	}
	if tx.Category != "Food" {
		t.Errorf("Category = %q, want Food", tx.Category)
	}
	if tx.Source != "Checking" {
		t.Errorf("Source = %q, want Checking", tx.Source)
	}
	if tx.Destination != "" {
		t.Errorf("Destination = %q, want absent", tx.Destination)
	}
	if tx.Kind != Withdrawal {
		t.Errorf("Kind = %q, want withdrawal", tx.Kind)
	}
}

func TestParse_PlusAmountIsDeposit(t *testing.T) {
	// Under the plus-sign rule the first account token is the destination.
	tx, err := Parse("Salary +1500 Salary Checking", testSnapshot(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if tx.Destination != "Checking" {
		t.Errorf("Destination = %q, want Checking", tx.Destination)
	}
	if tx.Source != "" {
		t.Errorf("Source = %q, want absent", tx.Source)
	}
	if tx.Kind != Deposit {
		t.Errorf("Kind = %q, want deposit", tx.Kind)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Amount = %s, want 1500", tx.Amount)
	}
}

func TestParse_PlusAmountFifthTokenIsSource(t *testing.T) {
	tx, err := Parse("Paycheck +1500 Salary Checking Income", testSnapshot(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if tx.Destination != "Checking" || tx.Source != "Income" {
		t.Errorf("got %q → %q, want Income → Checking", tx.Source, tx.Destination)
	}
	if tx.Kind != Deposit {
		t.Errorf("Kind = %q, want deposit", tx.Kind)
	}
}

func TestParse_DefaultAccountFallback(t *testing.T) {
	tx, err := Parse("Groceries 20", testSnapshot("Checking"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if tx.Source != "Checking" {
		t.Errorf("Source = %q, want default account Checking", tx.Source)
	}
	if tx.Kind != Withdrawal {
		t.Errorf("Kind = %q, want withdrawal", tx.Kind)
	}
}

func TestParse_NoDefaultAccountMeansAbsentSource(t *testing.T) {
	tx, err := Parse("Groceries 20", testSnapshot(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tx.Source != "" {
		t.Errorf("Source = %q, want absent", tx.Source)
	}
	// Neither side is an asset account, which collapses to transfer.
	if tx.Kind != Transfer {
		t.Errorf("Kind = %q, want transfer", tx.Kind)
	}
}

func TestParse_ExplicitDestination(t *testing.T) {
	tx, err := Parse("Groceries 20 Food Checking Supermarket", testSnapshot(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tx.Source != "Checking" || tx.Destination != "Supermarket" {
		t.Errorf("got %q → %q, want Checking → Supermarket", tx.Source, tx.Destination)
	}
	if tx.Kind != Withdrawal {
		t.Errorf("Kind = %q, want withdrawal", tx.Kind)
	}
}

func TestParse_TransferShorthand(t *testing.T) {
	tx, err := Parse("100 Checking Savings", testSnapshot(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if tx.Description != "Transfer" {
		t.Errorf("Description = %q, want Transfer", tx.Description)
	}
	if tx.Category != "" {
		t.Errorf("Category = %q, want absent", tx.Category)
	}
	if tx.Source != "Checking" || tx.Destination != "Savings" {
		t.Errorf("got %q → %q, want Checking → Savings", tx.Source, tx.Destination)
	}
	if tx.Kind != Transfer {
		t.Errorf("Kind = %q, want transfer", tx.Kind)
	}
}

func TestParse_ShorthandWrongFieldCount(t *testing.T) {
	for _, line := range []string{"100 Checking", "100 Checking Savings Extra", "100"} {
		_, err := Parse(line, testSnapshot(""))
		if !errors.Is(err, ErrNoMatch) {
			t.Errorf("Parse(%q) error = %v, want ErrNoMatch", line, err)
		}
	}
}

func TestParse_AmountExpression(t *testing.T) {
	tx, err := Parse("Split dinner (100+5)/2 Food Checking", testSnapshot(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("52.5")) {
		t.Errorf("Amount = %s, want 52.5", tx.Amount)
	}
}

func TestParse_NegativeAmountStoredPositive(t *testing.T) {
	tx, err := Parse("Refund gone wrong -25 Food Checking", testSnapshot(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Amount = %s, want 25 (always positive)", tx.Amount)
	}
	// A minus amount keeps the source-first token order.
	if tx.Source != "Checking" {
		t.Errorf("Source = %q, want Checking", tx.Source)
	}
}

func TestParse_AccentFoldedResolution(t *testing.T) {
	snap := session.BuildSnapshot(
		[]string{"Comida"},
		[]firefly.Account{{ID: "1", Name: "Débito", Type: "asset"}},
		"",
	)

	tx, err := Parse("Almuerzo 12 comida debito", snap)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tx.Category != "Comida" {
		t.Errorf("Category = %q, want the stored name Comida", tx.Category)
	}
	if tx.Source != "Débito" {
		t.Errorf("Source = %q, want the stored name Débito", tx.Source)
	}
}

func TestParse_NoMatch(t *testing.T) {
	for _, line := range []string{
		"just words no amount",
		"",
		"+100 Checking Savings",
		"mixed 12a34 words",
	} {
		_, err := Parse(line, testSnapshot(""))
		if !errors.Is(err, ErrNoMatch) {
			t.Errorf("Parse(%q) error = %v, want ErrNoMatch", line, err)
		}
	}
}

func TestParse_NilSnapshot(t *testing.T) {
	_, err := Parse("Coffee 4.5", nil)
	if !errors.Is(err, ErrSessionNotInitialized) {
		t.Errorf("error = %v, want ErrSessionNotInitialized", err)
	}
}

func TestParse_ResolutionFailuresPropagate(t *testing.T) {
	snap := testSnapshot("")
	tests := []struct {
		line string
		want error
	}{
		{"Coffee 4.5 Nope Checking", ErrCategoryNotFound},
		{"Coffee 4.5 Food Nope", ErrSourceNotFound},
		{"Coffee 4.5 Food Checking Nope", ErrDestinationNotFound},
		{"Salary +10 Salary Nope", ErrDestinationNotFound},
		{"10 Nope Savings", ErrSourceNotFound},
		{"10 Checking Nope", ErrDestinationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Parse(tt.line, snap)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_BadAmountPropagates(t *testing.T) {
	_, err := Parse("Oops 1/0 Food Checking", testSnapshot(""))
	if !errors.Is(err, ErrBadExpression) {
		t.Errorf("error = %v, want ErrBadExpression", err)
	}
}
