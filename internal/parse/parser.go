package parse

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/firefly-bot/internal/session"
)

// Kind classifies the direction of a transaction.
type Kind string

const (
	Withdrawal Kind = "withdrawal"
	Deposit    Kind = "deposit"
	Transfer   Kind = "transfer"
)

// Transaction is the parsed form of one chat line. Amount is always
// positive: the sign of the amount expression decides which roles the
// trailing tokens resolve against, it is not carried into the amount.
// Empty Category/Source/Destination mean "absent".
type Transaction struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Source      string
	Destination string
	Kind        Kind
}

// lineRe matches `<description words> <amount-expr> [category] [account] [account]`.
// Description words are alphabetic (accented Latin included); the amount is
// a contiguous run of arithmetic characters; the trailing tokens are single
// words.
var lineRe = regexp.MustCompile(
	`^([a-zA-ZÀ-ÿñÑ\s]+)\s+([0-9.+\-*/()]+)` +
		`(?:\s+([a-zA-ZÀ-ÿñÑ]+))?(?:\s+([a-zA-ZÀ-ÿñÑ]+))?(?:\s+([a-zA-ZÀ-ÿñÑ]+))?$`)

// Parse turns one line of chat text into a structured transaction using the
// user's cached snapshot. A nil snapshot fails with
// ErrSessionNotInitialized. A line that does not fit the grammar fails with
// ErrNoMatch; resolution and amount failures propagate unchanged.
//
// A line that starts with a digit is the transfer shorthand
// `<amount> <source> <destination>` with an implied description.
func Parse(line string, snap *session.Snapshot) (*Transaction, error) {
	if snap == nil {
		return nil, ErrSessionNotInitialized
	}
	if r := firstRune(line); unicode.IsDigit(r) {
		return parseShorthand(line, snap)
	}

	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return nil, ErrNoMatch
	}
	description := strings.TrimSpace(m[1])
	amountExpr := m[2]
	categoryTok, firstTok, secondTok := m[3], m[4], m[5]

	var source, destination string
	var err error
	if amountExpr[0] == '+' {
		// Amount-positive entry: first account token is the destination
		// (falling back to the default account), second is the source.
		destination = snap.DefaultAccount
		if firstTok != "" {
			destination, err = Resolve(firstTok, notNil(snap.DestinationAccounts), RoleDestination)
			if err != nil {
				return nil, err
			}
		}
		if secondTok != "" {
			source, err = Resolve(secondTok, notNil(snap.SourceAccounts), RoleSource)
			if err != nil {
				return nil, err
			}
		}
	} else {
		source = snap.DefaultAccount
		if firstTok != "" {
			source, err = Resolve(firstTok, notNil(snap.SourceAccounts), RoleSource)
			if err != nil {
				return nil, err
			}
		}
		if secondTok != "" {
			destination, err = Resolve(secondTok, notNil(snap.DestinationAccounts), RoleDestination)
			if err != nil {
				return nil, err
			}
		}
	}

	// The leading sign only selects the token roles above; strip it so the
	// evaluator never sees a unary-plus prefix and take the absolute value.
	amount, err := Evaluate(strings.TrimPrefix(amountExpr, "+"))
	if err != nil {
		return nil, err
	}

	var category string
	if categoryTok != "" {
		category, err = Resolve(categoryTok, notNil(snap.Categories), RoleCategory)
		if err != nil {
			return nil, err
		}
	}

	return &Transaction{
		Description: description,
		Amount:      amount.Abs(),
		Category:    category,
		Source:      source,
		Destination: destination,
		Kind:        inferKind(snap, source, destination),
	}, nil
}

// parseShorthand handles `<amount-expr> <source> <destination>` lines. There
// is no category and no default-account fallback here.
func parseShorthand(line string, snap *session.Snapshot) (*Transaction, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return nil, ErrNoMatch
	}

	source, err := Resolve(fields[1], notNil(snap.SourceAccounts), RoleSource)
	if err != nil {
		return nil, err
	}
	destination, err := Resolve(fields[2], notNil(snap.DestinationAccounts), RoleDestination)
	if err != nil {
		return nil, err
	}
	amount, err := Evaluate(fields[0])
	if err != nil {
		return nil, err
	}

	return &Transaction{
		Description: "Transfer",
		Amount:      amount.Abs(),
		Source:      source,
		Destination: destination,
		Kind:        inferKind(snap, source, destination),
	}, nil
}

// inferKind classifies by where the money moves relative to asset accounts.
// Both-asset and neither-asset collapse to transfer.
func inferKind(snap *session.Snapshot, source, destination string) Kind {
	sourceAsset := snap.HasAsset(source)
	destinationAsset := snap.HasAsset(destination)
	switch {
	case sourceAsset && !destinationAsset:
		return Withdrawal
	case !sourceAsset && destinationAsset:
		return Deposit
	default:
		return Transfer
	}
}

// notNil keeps Resolve's nil-means-no-snapshot convention out of reach here:
// inside Parse a snapshot exists, so an unset list is just empty.
func notNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
