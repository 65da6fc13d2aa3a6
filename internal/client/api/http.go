package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sbakhtiari/adminctl/internal/client/models"
	"github.com/sbakhtiari/adminctl/internal/common"
	"github.com/sbakhtiari/adminctl/internal/logging"
)

// HTTPClient implements Client over plain net/http.
//
// It imposes no timeout of its own: deadlines come from the caller's
// context. Nothing is retried automatically except the single
// refresh-then-retry pass on 401 described in the package docs.
type HTTPClient struct {
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	refresher TokenRefresher
	log       logging.Logger
}

func NewHTTPClient(baseURL string, tokens TokenSource, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		log:     log,
	}
}

// SetRefresher wires the refresh collaborator. It is set after construction
// because the refresher itself needs the client for the refresh call.
func (c *HTTPClient) SetRefresher(r TokenRefresher) {
	c.refresher = r
}

func (c *HTTPClient) RequestOTP(ctx context.Context, identifier string) error {
	body := map[string]string{"phone_number": identifier}
	return c.do(ctx, http.MethodPost, "/auth/request-otp", body, nil, false)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, identifier, code string) (Credentials, error) {
	body := map[string]string{"phone_number": identifier, "otp": code}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", body, &creds, false); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (Credentials, error) {
	body := map[string]string{"refresh": refreshToken}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/refresh-token", body, &creds, false); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	return c.do(ctx, http.MethodPost, "/auth/logout", body, nil, true)
}

func (c *HTTPClient) Probe(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/auth/test-auth", nil, nil, true)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, req CreateUserRequest) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/users", req, &user, true); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (models.User, error) {
	var user models.User
	path := fmt.Sprintf("/users/%d", id)
	if err := c.do(ctx, http.MethodPut, path, req, &user, true); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, true)
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &user, true); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// do executes a request and, for authenticated calls rejected with 401,
// performs one refresh through the TokenRefresher and retries once with the
// new access token.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	err := c.doOnce(ctx, method, path, body, out, authed)
	if err == nil || !authed || c.refresher == nil || !errors.Is(err, common.ErrUnauthorized) {
		return err
	}

	if rerr := c.refresher.Refresh(ctx); rerr != nil {
		c.log.Warn(ctx, "token refresh failed", "err", rerr)
		return fmt.Errorf("token refresh: %w", common.ErrUnauthorized)
	}
	return c.doOnce(ctx, method, path, body, out, authed)
}

func (c *HTTPClient) doOnce(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.tokens.AccessToken())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return mapStatus(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// mapStatus converts an error response into a sentinel from the common
// package, carrying the backend's "detail" message when one is present.
func mapStatus(code int, body []byte) error {
	var kind error
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		kind = common.ErrUnauthorized
	case code == http.StatusNotFound:
		kind = common.ErrNotFound
	case code == http.StatusConflict:
		kind = common.ErrAlreadyExists
	case code == http.StatusTooManyRequests:
		kind = common.ErrRateLimited
	case code == http.StatusBadRequest:
		kind = common.ErrValidation
	case code >= http.StatusInternalServerError:
		kind = common.ErrUnavailable
	default:
		kind = fmt.Errorf("unexpected status %d", code)
	}

	if detail := errorDetail(body); detail != "" {
		return fmt.Errorf("%s: %w", detail, kind)
	}
	return kind
}

func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
