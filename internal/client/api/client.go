package api

import (
	"context"

	"github.com/sbakhtiari/adminctl/internal/client/models"
)

// Credentials is the token pair returned by the backend on successful
// verification or refresh. RefreshToken may be empty on refresh responses
// when the backend does not rotate refresh tokens.
type Credentials struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// CreateUserRequest carries the fields for a new user record. Username and
// Password are required by the backend; everything else is optional.
type CreateUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsActive  bool   `json:"is_active"`
}

// UpdateUserRequest is a partial update: nil fields are left untouched by
// the backend.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// Client defines the remote operations consumed by the application services.
type Client interface {
	// RequestOTP asks the backend to deliver a one-time code to the given
	// identifier (phone number or email).
	RequestOTP(ctx context.Context, identifier string) error

	// VerifyOTP exchanges identifier+code for a token pair.
	VerifyOTP(ctx context.Context, identifier, code string) (Credentials, error)

	// RefreshToken exchanges a refresh token for a new access token and,
	// when the backend rotates it, a new refresh token.
	RefreshToken(ctx context.Context, refreshToken string) (Credentials, error)

	// Logout invalidates the session server-side. Best effort: callers must
	// clear local state regardless of the outcome.
	Logout(ctx context.Context, refreshToken string) error

	// Probe performs an authenticated liveness check, validating the
	// current access token.
	Probe(ctx context.Context) error

	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (models.User, error)
	UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// Me returns the profile of the currently authenticated account.
	Me(ctx context.Context) (models.User, error)
}

// TokenSource supplies the current access token for outgoing requests.
type TokenSource interface {
	AccessToken() string
}

// TokenRefresher serializes token refresh attempts. Implementations must
// guarantee a single in-flight refresh; concurrent callers share its outcome.
type TokenRefresher interface {
	Refresh(ctx context.Context) error
}
