package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/netx"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type authenticateRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type lookupRequest struct {
	User string `json:"user"`
}

var statusResult = map[int]models.AuthenticationResult{
	http.StatusOK:           models.AuthOk,
	http.StatusBadRequest:   models.AuthNoSuchUser,
	http.StatusForbidden:    models.AuthLoginDisabled,
	http.StatusUnauthorized: models.AuthIncorrectPassword,
}

// LoginName drops the mail domain from a login: every served domain shares
// one user base, and stored usernames never contain '@'.
func LoginName(login string) string {
	local, _, _ := strings.Cut(login, "@")
	return local
}

// Authenticate checks a mail login and password against the store.
func (c *Client) Authenticate(ctx context.Context, login, password string) (models.AuthenticationResult, error) {
	req := authenticateRequest{User: LoginName(login), Password: password}
	resp, err := netx.PostJSON(ctx, c.http, c.baseURL+"/api/authenticate", req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	result, ok := statusResult[resp.StatusCode]
	if !ok {
		return 0, netx.UnexpectedStatus(resp)
	}
	return result, nil
}

// Lookup returns the public record behind a mail login.
func (c *Client) Lookup(ctx context.Context, login string) (*models.User, error) {
	resp, err := netx.PostJSON(ctx, c.http, c.baseURL+"/api/user_lookup", lookupRequest{User: LoginName(login)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, netx.UnexpectedStatus(resp)
	}

	var u models.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}
