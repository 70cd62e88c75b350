package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
)

// User is a credential entry as reported by the admin API.
// Secret hashes never cross the wire.
type User struct {
	Identity  string    `json:"identity"`
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusSummary is the server status report from the admin API.
type StatusSummary struct {
	Status    string         `json:"status"`
	Version   string         `json:"version"`
	Channels  int            `json:"channels"`
	ByScope   map[string]int `json:"channels_by_scope"`
	Published uint64         `json:"messages_published"`
	Delivered uint64         `json:"messages_delivered"`
	Dropped   uint64         `json:"messages_dropped"`
	Time      string         `json:"time"`
}

// CreateUser registers a new credential. Requires an admin token.
func (c *Client) CreateUser(ctx context.Context, token, identity, secret, scope string) (*User, error) {
	var data User
	body := map[string]string{
		"identity": identity,
		"secret":   secret,
		"scope":    scope,
	}
	if err := c.postJSONAuth(ctx, "/admin/v1/users", token, body, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListUsers returns all registered credentials. Requires an admin token.
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	var data struct {
		Users []User `json:"users"`
	}
	if err := c.getJSON(ctx, "/admin/v1/users", token, &data); err != nil {
		return nil, err
	}
	return data.Users, nil
}

// DeleteUser removes a credential by identity. Requires an admin token.
func (c *Client) DeleteUser(ctx context.Context, token, identity string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/admin/v1/users/"+identity, nil)
	if err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req, nil)
}

// StatusSummary fetches the server status report. Requires an admin token.
func (c *Client) StatusSummary(ctx context.Context, token string) (*StatusSummary, error) {
	var data StatusSummary
	if err := c.getJSON(ctx, "/admin/v1/status/summary", token, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) postJSONAuth(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, out)
}
