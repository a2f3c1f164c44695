// Package core defines the Life Manager domain types shared by the API
// gateways and the TUI, along with the client-side validation the server
// contract expects to have happened before a request is issued.
package core

import (
	"errors"
	"strings"
	"time"
)

// Wire layouts used by the Life Manager API.
const (
	DatetimeLayout = "2006-01-02T15:04" // schedule start/end
	DateLayout     = "2006-01-02"       // transaction and range dates
)

// DefaultScheduleColor matches the server-side default swatch.
const DefaultScheduleColor = "#3B82F6"

// Schedule is a calendar entry owned by a user. The id is server-assigned.
type Schedule struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	StartDatetime string `json:"startDatetime"`
	EndDatetime   string `json:"endDatetime"`
	IsAllDay      bool   `json:"isAllDay"`
	Category      string `json:"category,omitempty"`
	Color         string `json:"color"`
}

var (
	ErrTitleRequired      = errors.New("title is required")
	ErrBadDatetime        = errors.New("start and end must be valid datetimes")
	ErrEndBeforeStart     = errors.New("end must not be before start")
	ErrAmountNotPositive  = errors.New("amount must be greater than zero")
	ErrBadTransactionType = errors.New("type must be INCOME or EXPENSE")
	ErrBadDate            = errors.New("transaction date must be a valid date")
)

// Validate enforces the schedule invariants checked client-side:
// a non-empty title, parseable datetimes, and start <= end.
func (s Schedule) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrTitleRequired
	}
	start, err := time.Parse(DatetimeLayout, s.StartDatetime)
	if err != nil {
		return ErrBadDatetime
	}
	end, err := time.Parse(DatetimeLayout, s.EndDatetime)
	if err != nil {
		return ErrBadDatetime
	}
	if end.Before(start) {
		return ErrEndBeforeStart
	}
	return nil
}

// Start returns the parsed start datetime, zero when unparseable.
func (s Schedule) Start() time.Time {
	t, _ := time.Parse(DatetimeLayout, s.StartDatetime)
	return t
}

// End returns the parsed end datetime, zero when unparseable.
func (s Schedule) End() time.Time {
	t, _ := time.Parse(DatetimeLayout, s.EndDatetime)
	return t
}

// MatchesKeyword reports whether the keyword occurs, case-insensitively,
// in the title, description, or category.
func (s Schedule) MatchesKeyword(keyword string) bool {
	return containsFold(keyword, s.Title, s.Description, s.Category)
}

// AllDaySpan returns start/end datetimes spanning the whole day of the
// given date. Used when the all-day toggle is switched on.
func AllDaySpan(day time.Time) (start, end string) {
	y, m, d := day.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	last := time.Date(y, m, d, 23, 59, 0, 0, day.Location())
	return first.Format(DatetimeLayout), last.Format(DatetimeLayout)
}

func containsFold(keyword string, fields ...string) bool {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), k) {
			return true
		}
	}
	return false
}
