package services

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/sbakhtiari/adminctl/internal/client/api"
	"github.com/sbakhtiari/adminctl/internal/client/models"
	"github.com/sbakhtiari/adminctl/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeClient implements api.Client for unit tests.
type fakeClient struct {
	// behavior/results
	RequestOTPErr error

	VerifyCreds api.Credentials
	VerifyErr   error

	RefreshCreds api.Credentials
	RefreshErr   error

	LogoutErr error
	ProbeErr  error

	ListRet []models.User
	ListErr error
	// ListFn, when set, overrides ListRet/ListErr.
	ListFn func(ctx context.Context) ([]models.User, error)

	CreateRet models.User
	CreateErr error

	UpdateRet models.User
	UpdateErr error

	DeleteErr error

	MeRet models.User
	MeErr error

	// call counters and argument captures
	RequestOTPCalls atomic.Int64
	VerifyCalls     atomic.Int64
	RefreshCalls    atomic.Int64
	LogoutCalls     atomic.Int64
	ListCalls       atomic.Int64
	CreateCalls     atomic.Int64
	UpdateCalls     atomic.Int64
	DeleteCalls     atomic.Int64

	LastIdentifier    string
	LastCode          string
	LastLogoutRefresh string
	LastCreateReq     api.CreateUserRequest
	LastUpdateID      int64
	LastDeleteID      int64
}

func (f *fakeClient) RequestOTP(ctx context.Context, identifier string) error {
	f.RequestOTPCalls.Add(1)
	f.LastIdentifier = identifier
	return f.RequestOTPErr
}

func (f *fakeClient) VerifyOTP(ctx context.Context, identifier, code string) (api.Credentials, error) {
	f.VerifyCalls.Add(1)
	f.LastIdentifier = identifier
	f.LastCode = code
	return f.VerifyCreds, f.VerifyErr
}

func (f *fakeClient) RefreshToken(ctx context.Context, refreshToken string) (api.Credentials, error) {
	f.RefreshCalls.Add(1)
	return f.RefreshCreds, f.RefreshErr
}

func (f *fakeClient) Logout(ctx context.Context, refreshToken string) error {
	f.LogoutCalls.Add(1)
	f.LastLogoutRefresh = refreshToken
	return f.LogoutErr
}

func (f *fakeClient) Probe(ctx context.Context) error { return f.ProbeErr }

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.User, error) {
	f.ListCalls.Add(1)
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return append([]models.User(nil), f.ListRet...), f.ListErr
}

func (f *fakeClient) CreateUser(ctx context.Context, req api.CreateUserRequest) (models.User, error) {
	f.CreateCalls.Add(1)
	f.LastCreateReq = req
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, id int64, req api.UpdateUserRequest) (models.User, error) {
	f.UpdateCalls.Add(1)
	f.LastUpdateID = id
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteUser(ctx context.Context, id int64) error {
	f.DeleteCalls.Add(1)
	f.LastDeleteID = id
	return f.DeleteErr
}

func (f *fakeClient) Me(ctx context.Context) (models.User, error) {
	return f.MeRet, f.MeErr
}
