package api

import (
	"context"
	"net/http"

	"lifedeck/internal/core"
)

// ListSchedules fetches one page of the user's schedules.
func (c *Client) ListSchedules(ctx context.Context, userID string, q ListQuery) (Page[core.Schedule], error) {
	var page Page[core.Schedule]
	err := c.do(ctx, http.MethodGet, "/schedules", userID, q.values(), nil, &page)
	return page, err
}

// CreateSchedule stores a new schedule and returns it with its assigned id.
func (c *Client) CreateSchedule(ctx context.Context, userID string, s core.Schedule) (core.Schedule, error) {
	var created core.Schedule
	err := c.do(ctx, http.MethodPost, "/schedules", userID, nil, s, &created)
	return created, err
}

// UpdateSchedule replaces the schedule with the given id.
func (c *Client) UpdateSchedule(ctx context.Context, userID, scheduleID string, s core.Schedule) (core.Schedule, error) {
	var updated core.Schedule
	err := c.do(ctx, http.MethodPut, "/schedules/"+scheduleID, userID, nil, s, &updated)
	return updated, err
}

// DeleteSchedule removes the schedule with the given id.
func (c *Client) DeleteSchedule(ctx context.Context, userID, scheduleID string) error {
	return c.do(ctx, http.MethodDelete, "/schedules/"+scheduleID, userID, nil, nil, nil)
}
