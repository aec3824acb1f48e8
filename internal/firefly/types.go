package firefly

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Credentials identifies one user's Firefly III instance. BaseURL must point
// at the API root (".../api/v1/") and already end with a slash.
type Credentials struct {
	BaseURL string
	Token   string
}

// Account is one account as reported by the ledger.
type Account struct {
	ID              string
	Name            string
	Type            string
	CurrencySymbol  string
	CurrentBalance  decimal.Decimal
	Active          bool
	IncludeNetWorth bool
}

// TransactionSplit is the write-side shape of a single transaction split.
// Either the *Name or the *ID variant of source/destination may be set;
// Firefly resolves whichever is present.
type TransactionSplit struct {
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	SourceName      string `json:"source_name,omitempty"`
	SourceID        string `json:"source_id,omitempty"`
	DestinationName string `json:"destination_name,omitempty"`
	DestinationID   string `json:"destination_id,omitempty"`
	CategoryName    string `json:"category_name,omitempty"`
	Date            string `json:"date"`
}

// TransactionView is the read-side shape of a stored transaction, flattened
// from the first split of the transaction group.
type TransactionView struct {
	ID              string
	Type            string
	Amount          decimal.Decimal
	CurrencySymbol  string
	Description     string
	SourceName      string
	SourceID        string
	DestinationName string
	DestinationID   string
	CategoryName    string
	Date            string
}

// APIError is returned for any non-success ledger response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger API error: status %d: %s", e.Status, e.Body)
}

// Balance is one asset account balance line.
type Balance struct {
	Name           string
	Amount         decimal.Decimal
	CurrencySymbol string
}

// resource is the generic JSON:API envelope Firefly wraps every object in.
type resource struct {
	ID         string          `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

type listResponse struct {
	Data []resource `json:"data"`
	Meta struct {
		Pagination struct {
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	} `json:"meta"`
}

type singleResponse struct {
	Data resource `json:"data"`
}

type categoryAttributes struct {
	Name string `json:"name"`
}

type accountAttributes struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	CurrencySymbol  string `json:"currency_symbol"`
	CurrentBalance  string `json:"current_balance"`
	Active          bool   `json:"active"`
	IncludeNetWorth bool   `json:"include_net_worth"`
}

type splitAttributes struct {
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	CurrencySymbol  string `json:"currency_symbol"`
	Description     string `json:"description"`
	SourceName      string `json:"source_name"`
	SourceID        string `json:"source_id"`
	DestinationName string `json:"destination_name"`
	DestinationID   string `json:"destination_id"`
	CategoryName    string `json:"category_name"`
	Date            string `json:"date"`
}

type transactionAttributes struct {
	Transactions []splitAttributes `json:"transactions"`
}

type transactionRequest struct {
	Transactions []TransactionSplit `json:"transactions"`
}
