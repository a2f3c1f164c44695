package api

import (
	"context"
	"net/http"
)

// Credentials is what the server hands back on a successful login or
// signup; the caller persists it into the session store.
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Login exchanges an email and password for credentials.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	var creds Credentials
	err := c.do(ctx, http.MethodPost, "/auth/login", "", nil,
		loginRequest{Email: email, Password: password}, &creds)
	return creds, err
}

// Signup registers a new account and returns its credentials.
func (c *Client) Signup(ctx context.Context, email, password, name string) (Credentials, error) {
	var creds Credentials
	err := c.do(ctx, http.MethodPost, "/auth/signup", "", nil,
		signupRequest{Email: email, Password: password, Name: name}, &creds)
	return creds, err
}
