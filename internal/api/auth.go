package api

import (
	"context"
	"strings"

	"github.com/nhle/taskflow/internal/model"
)

// Credentials is the payload returned by the auth endpoints.
type Credentials struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// authRequest is the body for both auth endpoints.
type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges an email/password pair for a user and bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

// Signup creates a new account. An already-registered email surfaces
// as an HTTPError; callers can detect it with IsConflict.
func (c *Client) Signup(ctx context.Context, email, password string) (*Credentials, error) {
	return c.authenticate(ctx, "/auth/signup", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*Credentials, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Message: "email is required"}
	}
	if password == "" {
		return nil, &ValidationError{Message: "password is required"}
	}

	var creds Credentials
	err := c.post(ctx, path, authRequest{Email: email, Password: password}, &creds)
	if err != nil {
		return nil, err
	}
	if creds.Token == "" {
		return nil, &HTTPError{Status: 200, Message: "malformed auth response: missing token"}
	}

	return &creds, nil
}
