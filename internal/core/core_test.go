package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleValidate(t *testing.T) {
	valid := Schedule{
		Title:         "Team Meeting",
		StartDatetime: "2026-08-28T10:00",
		EndDatetime:   "2026-08-28T11:00",
	}

	tests := []struct {
		name    string
		mutate  func(*Schedule)
		wantErr error
	}{
		{"valid", func(s *Schedule) {}, nil},
		{"equal start and end", func(s *Schedule) { s.EndDatetime = s.StartDatetime }, nil},
		{"blank title", func(s *Schedule) { s.Title = "  " }, ErrTitleRequired},
		{"end before start", func(s *Schedule) { s.EndDatetime = "2026-08-28T09:00" }, ErrEndBeforeStart},
		{"garbage start", func(s *Schedule) { s.StartDatetime = "not-a-date" }, ErrBadDatetime},
		{"garbage end", func(s *Schedule) { s.EndDatetime = "" }, ErrBadDatetime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestScheduleMatchesKeyword(t *testing.T) {
	s := Schedule{Title: "Team Meeting", Description: "Quarterly sync", Category: "Work"}

	assert.True(t, s.MatchesKeyword("meet"))
	assert.True(t, s.MatchesKeyword("SYNC"))
	assert.True(t, s.MatchesKeyword("work"))
	assert.True(t, s.MatchesKeyword(""))
	assert.True(t, s.MatchesKeyword("   "))
	assert.False(t, s.MatchesKeyword("gym"))
}

func TestAllDaySpan(t *testing.T) {
	day := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	start, end := AllDaySpan(day)
	assert.Equal(t, "2026-08-28T00:00", start)
	assert.Equal(t, "2026-08-28T23:59", end)
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Type:            TypeExpense,
		Amount:          1000,
		TransactionDate: "2026-08-28",
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid expense", func(tr *Transaction) {}, nil},
		{"valid income", func(tr *Transaction) { tr.Type = TypeIncome }, nil},
		{"zero amount", func(tr *Transaction) { tr.Amount = 0 }, ErrAmountNotPositive},
		{"negative amount", func(tr *Transaction) { tr.Amount = -5 }, ErrAmountNotPositive},
		{"unknown type", func(tr *Transaction) { tr.Type = "TRANSFER" }, ErrBadTransactionType},
		{"bad date", func(tr *Transaction) { tr.TransactionDate = "28/08/2026" }, ErrBadDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := valid
			tt.mutate(&tr)
			err := tr.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTransactionIsFutureDated(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	assert.False(t, Transaction{TransactionDate: "2026-08-28"}.IsFutureDated(now))
	assert.False(t, Transaction{TransactionDate: "2026-08-01"}.IsFutureDated(now))
	assert.True(t, Transaction{TransactionDate: "2026-08-29"}.IsFutureDated(now))
	assert.False(t, Transaction{TransactionDate: "???"}.IsFutureDated(now))
}

func TestTransactionMatchesKeyword(t *testing.T) {
	tr := Transaction{Category: "Groceries", Description: "Weekly shop"}

	assert.True(t, tr.MatchesKeyword("grocer"))
	assert.True(t, tr.MatchesKeyword("SHOP"))
	assert.False(t, tr.MatchesKeyword("rent"))
}

func TestDateRanges(t *testing.T) {
	now := time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC)

	require.Equal(t, DateRange{Start: "2026-02-01", End: "2026-02-17"}, CurrentMonth(now))
	require.Equal(t, DateRange{Start: "2026-02-01", End: "2026-02-28"}, FullMonth(now))
}
