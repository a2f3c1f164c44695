package api

import (
	"context"
	"net/http"

	"lifedeck/internal/core"
)

type updateUserRequest struct {
	Name string `json:"name"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Me fetches the caller's profile.
func (c *Client) Me(ctx context.Context, userID string) (core.User, error) {
	var user core.User
	err := c.do(ctx, http.MethodGet, "/users/me", userID, nil, nil, &user)
	return user, err
}

// UpdateMe changes the caller's display name.
func (c *Client) UpdateMe(ctx context.Context, userID, name string) (core.User, error) {
	var user core.User
	err := c.do(ctx, http.MethodPut, "/users/me", userID, nil, updateUserRequest{Name: name}, &user)
	return user, err
}

// ChangePassword rotates the caller's password.
func (c *Client) ChangePassword(ctx context.Context, userID, current, next string) error {
	return c.do(ctx, http.MethodPut, "/users/me/password", userID, nil,
		changePasswordRequest{CurrentPassword: current, NewPassword: next}, nil)
}
