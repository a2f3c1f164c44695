package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"lifedeck/internal/core"
)

// ReplaceLostError reports the partial failure of a delete-then-recreate
// transaction edit: the old entry was deleted but the replacement could not
// be created, so the data is gone until the user re-enters it. This is a
// distinct, higher-severity failure than an ordinary rejected save and the
// UI must present it as such.
type ReplaceLostError struct {
	OldID   string
	Payload core.Transaction
	Err     error
}

func (e *ReplaceLostError) Error() string {
	return fmt.Sprintf("transaction %s was deleted but its replacement could not be created: %v", e.OldID, e.Err)
}

func (e *ReplaceLostError) Unwrap() error { return e.Err }

// ListTransactions fetches one page of transactions within the date range.
// The range is required by the server.
func (c *Client) ListTransactions(ctx context.Context, userID string, r core.DateRange, q ListQuery) (Page[core.Transaction], error) {
	v := q.values()
	v.Set("startDate", r.Start)
	v.Set("endDate", r.End)

	var page Page[core.Transaction]
	err := c.do(ctx, http.MethodGet, "/transactions", userID, v, nil, &page)
	return page, err
}

// TransactionSummary aggregates income, expense and balance over the whole
// date range, independent of pagination.
func (c *Client) TransactionSummary(ctx context.Context, userID string, r core.DateRange) (core.Summary, error) {
	v := url.Values{}
	v.Set("startDate", r.Start)
	v.Set("endDate", r.End)

	var summary core.Summary
	err := c.do(ctx, http.MethodGet, "/transactions/summary", userID, v, nil, &summary)
	return summary, err
}

// CreateTransaction stores a new ledger entry and returns it with its
// assigned id.
func (c *Client) CreateTransaction(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	var created core.Transaction
	err := c.do(ctx, http.MethodPost, "/transactions", userID, nil, t, &created)
	return created, err
}

// DeleteTransaction removes the transaction with the given id.
func (c *Client) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+transactionID, userID, nil, nil, nil)
}

// ReplaceTransaction edits a transaction the only way the server allows:
// delete the old entry, then create the new one. The replacement gets a new
// id. If the delete fails nothing has changed and the plain error is
// returned; if the create fails after the delete succeeded, the returned
// error is a *ReplaceLostError.
func (c *Client) ReplaceTransaction(ctx context.Context, userID, oldID string, t core.Transaction) (core.Transaction, error) {
	if err := c.DeleteTransaction(ctx, userID, oldID); err != nil {
		return core.Transaction{}, err
	}
	created, err := c.CreateTransaction(ctx, userID, t)
	if err != nil {
		return core.Transaction{}, &ReplaceLostError{OldID: oldID, Payload: t, Err: err}
	}
	return created, nil
}
