package core

import (
	"time"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// Transaction is a single ledger entry. There is no update endpoint on the
// server; an edit is a delete followed by a create, which assigns a new id.
type Transaction struct {
	ID              string          `json:"id"`
	Type            TransactionType `json:"type"`
	Amount          float64         `json:"amount"`
	Category        string          `json:"category,omitempty"`
	Description     string          `json:"description,omitempty"`
	TransactionDate string          `json:"transactionDate"`
}

// Validate enforces the invariants checked client-side: a positive amount,
// a known type, and a parseable date.
func (t Transaction) Validate() error {
	if t.Amount <= 0 {
		return ErrAmountNotPositive
	}
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return ErrBadTransactionType
	}
	if _, err := time.Parse(DateLayout, t.TransactionDate); err != nil {
		return ErrBadDate
	}
	return nil
}

// IsFutureDated reports whether the transaction date falls after today.
// Future entries are allowed but the UI asks for confirmation first.
func (t Transaction) IsFutureDated(now time.Time) bool {
	d, err := time.Parse(DateLayout, t.TransactionDate)
	if err != nil {
		return false
	}
	return d.After(now.Truncate(24 * time.Hour))
}

// MatchesKeyword reports whether the keyword occurs, case-insensitively,
// in the category or description.
func (t Transaction) MatchesKeyword(keyword string) bool {
	return containsFold(keyword, t.Category, t.Description)
}

// Summary aggregates a date range independently of pagination: it reflects
// the full range, not just the loaded page.
type Summary struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
}

// DateRange is a closed [Start, End] range of days in DateLayout form.
type DateRange struct {
	Start string
	End   string
}

// CurrentMonth returns the range from the first of now's month to today.
func CurrentMonth(now time.Time) DateRange {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return DateRange{Start: first.Format(DateLayout), End: now.Format(DateLayout)}
}

// FullMonth returns the range covering every day of now's month.
func FullMonth(now time.Time) DateRange {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return DateRange{Start: first.Format(DateLayout), End: last.Format(DateLayout)}
}
