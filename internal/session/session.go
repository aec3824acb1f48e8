package session

import (
	"github.com/dvloznov/firefly-bot/internal/firefly"
)

// Session holds one user's ledger credentials and default account. It is
// persisted independently of the snapshot and loaded at the start of every
// user-facing operation.
type Session struct {
	LedgerURL      string `json:"ledger_url"`
	APIKey         string `json:"api_key"`
	DefaultAccount string `json:"default_account"`
}

// Credentials converts the session into ledger client credentials.
func (s *Session) Credentials() firefly.Credentials {
	return firefly.Credentials{BaseURL: s.LedgerURL, Token: s.APIKey}
}

// Snapshot is one user's cached view of the ledger's categories and
// accounts. SourceAccounts is always asset ∪ revenue, DestinationAccounts
// asset ∪ expense, and every listed account name is a key in AccountIDs;
// BuildSnapshot is the only constructor, so the invariants hold whenever a
// snapshot exists.
type Snapshot struct {
	Categories          []string          `json:"categories"`
	SourceAccounts      []string          `json:"source_accounts"`
	DestinationAccounts []string          `json:"destination_accounts"`
	AssetAccounts       []string          `json:"asset_accounts"`
	ExpenseAccounts     []string          `json:"expense_accounts"`
	RevenueAccounts     []string          `json:"revenue_accounts"`
	AccountIDs          map[string]string `json:"account_ids"`
	DefaultAccount      string            `json:"default_account"`
}

// BuildSnapshot partitions the fetched accounts by type and indexes their
// remote ids. Accounts of types other than asset/expense/revenue (e.g.
// liabilities) are indexed but not listed, matching the roles the parser
// resolves against.
func BuildSnapshot(categories []string, accounts []firefly.Account, defaultAccount string) *Snapshot {
	snap := &Snapshot{
		Categories:          append([]string{}, categories...),
		SourceAccounts:      []string{},
		DestinationAccounts: []string{},
		AssetAccounts:       []string{},
		ExpenseAccounts:     []string{},
		RevenueAccounts:     []string{},
		AccountIDs:          make(map[string]string, len(accounts)),
		DefaultAccount:      defaultAccount,
	}

	for _, acc := range accounts {
		snap.AccountIDs[acc.Name] = acc.ID
		switch acc.Type {
		case "asset":
			snap.AssetAccounts = append(snap.AssetAccounts, acc.Name)
			snap.SourceAccounts = append(snap.SourceAccounts, acc.Name)
			snap.DestinationAccounts = append(snap.DestinationAccounts, acc.Name)
		case "expense":
			snap.ExpenseAccounts = append(snap.ExpenseAccounts, acc.Name)
			snap.DestinationAccounts = append(snap.DestinationAccounts, acc.Name)
		case "revenue":
			snap.RevenueAccounts = append(snap.RevenueAccounts, acc.Name)
			snap.SourceAccounts = append(snap.SourceAccounts, acc.Name)
		}
	}
	return snap
}

// HasAsset reports whether name is one of the snapshot's asset accounts.
// The empty name (an absent account) is never an asset.
func (s *Snapshot) HasAsset(name string) bool {
	if name == "" {
		return false
	}
	for _, acc := range s.AssetAccounts {
		if acc == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so stored snapshots cannot be mutated through
// a working copy handed to an operation.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	clone := &Snapshot{
		Categories:          append([]string{}, s.Categories...),
		SourceAccounts:      append([]string{}, s.SourceAccounts...),
		DestinationAccounts: append([]string{}, s.DestinationAccounts...),
		AssetAccounts:       append([]string{}, s.AssetAccounts...),
		ExpenseAccounts:     append([]string{}, s.ExpenseAccounts...),
		RevenueAccounts:     append([]string{}, s.RevenueAccounts...),
		AccountIDs:          make(map[string]string, len(s.AccountIDs)),
		DefaultAccount:      s.DefaultAccount,
	}
	for name, id := range s.AccountIDs {
		clone.AccountIDs[name] = id
	}
	return clone
}
