package firefly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Client talks to a Firefly III instance. It is stateless: every call takes
// the calling user's Credentials, so one Client serves all users.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a ledger client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListCategories returns the names of all categories, following pagination.
func (c *Client) ListCategories(ctx context.Context, creds Credentials) ([]string, error) {
	resources, err := c.fetchAllPages(ctx, creds, "categories", nil)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}

	names := make([]string, 0, len(resources))
	for _, res := range resources {
		var attrs categoryAttributes
		if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("ListCategories: decode category: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// ListAccounts returns all accounts of every type, following pagination.
func (c *Client) ListAccounts(ctx context.Context, creds Credentials) ([]Account, error) {
	resources, err := c.fetchAllPages(ctx, creds, "accounts", nil)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}

	accounts := make([]Account, 0, len(resources))
	for _, res := range resources {
		acc, err := decodeAccount(res)
		if err != nil {
			return nil, fmt.Errorf("ListAccounts: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// CreateTransaction stores a new transaction and returns the stored view,
// re-read from the ledger so amounts and names reflect what it recorded.
func (c *Client) CreateTransaction(ctx context.Context, creds Credentials, split TransactionSplit) (*TransactionView, error) {
	body, err := json.Marshal(transactionRequest{Transactions: []TransactionSplit{split}})
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: encode request: %w", err)
	}

	var resp singleResponse
	if err := c.do(ctx, creds, http.MethodPost, "transactions", body, &resp); err != nil {
		return nil, fmt.Errorf("CreateTransaction: %w", err)
	}
	return c.GetTransaction(ctx, creds, resp.Data.ID)
}

// GetTransaction reads one transaction by id.
func (c *Client) GetTransaction(ctx context.Context, creds Credentials, id string) (*TransactionView, error) {
	var resp singleResponse
	if err := c.do(ctx, creds, http.MethodGet, "transactions/"+id, nil, &resp); err != nil {
		return nil, fmt.Errorf("GetTransaction: %w", err)
	}
	return decodeTransaction(resp.Data)
}

// UpdateTransaction overwrites the transaction's split and returns the
// refreshed view.
func (c *Client) UpdateTransaction(ctx context.Context, creds Credentials, id string, split TransactionSplit) (*TransactionView, error) {
	body, err := json.Marshal(transactionRequest{Transactions: []TransactionSplit{split}})
	if err != nil {
		return nil, fmt.Errorf("UpdateTransaction: encode request: %w", err)
	}

	var resp singleResponse
	if err := c.do(ctx, creds, http.MethodPut, "transactions/"+id, body, &resp); err != nil {
		return nil, fmt.Errorf("UpdateTransaction: %w", err)
	}
	return c.GetTransaction(ctx, creds, id)
}

// DeleteTransaction removes a transaction by id.
func (c *Client) DeleteTransaction(ctx context.Context, creds Credentials, id string) error {
	if err := c.do(ctx, creds, http.MethodDelete, "transactions/"+id, nil, nil); err != nil {
		return fmt.Errorf("DeleteTransaction: %w", err)
	}
	return nil
}

// ListRecent returns the transactions of the past `days` days, oldest first.
func (c *Client) ListRecent(ctx context.Context, creds Credentials, days int) ([]TransactionView, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	params := url.Values{
		"start": {start.Format("2006-01-02")},
		"end":   {end.Format("2006-01-02")},
	}

	resources, err := c.fetchAllPages(ctx, creds, "transactions", params)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}

	// The API returns newest first; reverse so the chat reads top-down.
	views := make([]TransactionView, 0, len(resources))
	for i := len(resources) - 1; i >= 0; i-- {
		view, err := decodeTransaction(resources[i])
		if err != nil {
			return nil, fmt.Errorf("ListRecent: %w", err)
		}
		views = append(views, *view)
	}
	return views, nil
}

// AssetBalances returns the current balance of every active asset account
// that counts towards net worth.
func (c *Client) AssetBalances(ctx context.Context, creds Credentials) ([]Balance, error) {
	accounts, err := c.ListAccounts(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("AssetBalances: %w", err)
	}

	var balances []Balance
	for _, acc := range accounts {
		if acc.Type != "asset" || !acc.Active || !acc.IncludeNetWorth {
			continue
		}
		balances = append(balances, Balance{
			Name:           acc.Name,
			Amount:         acc.CurrentBalance,
			CurrencySymbol: acc.CurrencySymbol,
		})
	}
	return balances, nil
}

// fetchAllPages GETs a collection endpoint and follows meta.pagination until
// every page has been read.
func (c *Client) fetchAllPages(ctx context.Context, creds Credentials, path string, params url.Values) ([]resource, error) {
	page := 1
	var all []resource
	for {
		query := url.Values{}
		for k, v := range params {
			query[k] = v
		}
		if page > 1 {
			query.Set("page", strconv.Itoa(page))
		}

		target := path
		if len(query) > 0 {
			target += "?" + query.Encode()
		}

		var resp listResponse
		if err := c.do(ctx, creds, http.MethodGet, target, nil, &resp); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		all = append(all, resp.Data...)

		if page >= resp.Meta.Pagination.TotalPages {
			return all, nil
		}
		page++
	}
}

// do performs one authenticated request and decodes the JSON response into
// out when out is non-nil. Non-2xx statuses become *APIError.
func (c *Client) do(ctx context.Context, creds Credentials, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, creds.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func decodeAccount(res resource) (Account, error) {
	var attrs accountAttributes
	if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
		return Account{}, fmt.Errorf("decode account %s: %w", res.ID, err)
	}

	balance := decimal.Zero
	if attrs.CurrentBalance != "" {
		parsed, err := decimal.NewFromString(attrs.CurrentBalance)
		if err != nil {
			return Account{}, fmt.Errorf("decode account %s: balance %q: %w", res.ID, attrs.CurrentBalance, err)
		}
		balance = parsed
	}

	return Account{
		ID:              res.ID,
		Name:            attrs.Name,
		Type:            attrs.Type,
		CurrencySymbol:  attrs.CurrencySymbol,
		CurrentBalance:  balance,
		Active:          attrs.Active,
		IncludeNetWorth: attrs.IncludeNetWorth,
	}, nil
}

func decodeTransaction(res resource) (*TransactionView, error) {
	var attrs transactionAttributes
	if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
		return nil, fmt.Errorf("decode transaction %s: %w", res.ID, err)
	}
	if len(attrs.Transactions) == 0 {
		return nil, fmt.Errorf("decode transaction %s: no splits", res.ID)
	}

	split := attrs.Transactions[0]
	amount, err := decimal.NewFromString(split.Amount)
	if err != nil {
		return nil, fmt.Errorf("decode transaction %s: amount %q: %w", res.ID, split.Amount, err)
	}

	return &TransactionView{
		ID:              res.ID,
		Type:            split.Type,
		Amount:          amount,
		CurrencySymbol:  split.CurrencySymbol,
		Description:     split.Description,
		SourceName:      split.SourceName,
		SourceID:        split.SourceID,
		DestinationName: split.DestinationName,
		DestinationID:   split.DestinationID,
		CategoryName:    split.CategoryName,
		Date:            split.Date,
	}, nil
}
