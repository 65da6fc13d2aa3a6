// Package services contains application services for the adminctl client:
// the OTP login flow, session logout, and the user directory mirror.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/sbakhtiari/adminctl/internal/client/api"
	"github.com/sbakhtiari/adminctl/internal/client/session"
	"github.com/sbakhtiari/adminctl/internal/common"
	"github.com/sbakhtiari/adminctl/internal/logging"
)

// Step is the current phase of the two-step OTP login flow.
type Step string

const (
	// StepIdentifier: waiting for the user to submit a phone number or email.
	StepIdentifier Step = "identifier"
	// StepCode: a code has been requested; waiting for the user to enter it.
	StepCode Step = "code"
)

// AuthService drives the OTP login flow and the session lifecycle.
//
// Contract:
//   - RequestCode: ask the backend to deliver a code; advances the flow to
//     StepCode only on success.
//   - VerifyCode: exchange the pending identifier plus code for a token
//     pair; commits both tokens to the session store atomically. On failure
//     the flow stays at StepCode so the code can be re-entered.
//   - Reset: abandon a pending code and return to StepIdentifier.
//   - Logout: best-effort remote invalidation, then unconditional local
//     clear. Idempotent.
//   - Probe: authenticated liveness check, validating the access token.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Step() Step
	Identifier() string
	RequestCode(ctx context.Context, identifier string) error
	VerifyCode(ctx context.Context, code string) error
	Reset()
	Logout(ctx context.Context) error
	Probe(ctx context.Context) error
}

type authService struct {
	client api.Client
	store  *session.Store
	log    logging.Logger

	mu         sync.Mutex
	step       Step
	identifier string
}

// NewAuthService constructs an AuthService bound to the given API client
// and session store.
func NewAuthService(client api.Client, store *session.Store, log logging.Logger) AuthService {
	return &authService{client: client, store: store, log: log, step: StepIdentifier}
}

func (a *authService) Step() Step {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.step
}

func (a *authService) Identifier() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identifier
}

func (a *authService) RequestCode(ctx context.Context, identifier string) error {
	if identifier == "" {
		return fmt.Errorf("%w: identifier is required", common.ErrValidation)
	}

	if err := a.client.RequestOTP(ctx, identifier); err != nil {
		// The flow stays at StepIdentifier; nothing was delivered.
		return err
	}

	a.mu.Lock()
	a.step = StepCode
	a.identifier = identifier
	a.mu.Unlock()

	a.log.Info(ctx, "verification code requested", "identifier", identifier)
	return nil
}

func (a *authService) VerifyCode(ctx context.Context, code string) error {
	a.mu.Lock()
	step, identifier := a.step, a.identifier
	a.mu.Unlock()

	if step != StepCode {
		return common.ErrNoPendingCode
	}
	if code == "" {
		return fmt.Errorf("%w: code is required", common.ErrValidation)
	}

	creds, err := a.client.VerifyOTP(ctx, identifier, code)
	if err != nil {
		// Stay at StepCode: the user may retype the code without
		// re-requesting delivery.
		return err
	}

	if err := a.store.Set(ctx, creds.AccessToken, creds.RefreshToken); err != nil {
		return err
	}

	a.mu.Lock()
	a.step = StepIdentifier
	a.identifier = ""
	a.mu.Unlock()

	a.log.Info(ctx, "login successful")
	return nil
}

func (a *authService) Reset() {
	a.mu.Lock()
	a.step = StepIdentifier
	a.identifier = ""
	a.mu.Unlock()
}

// Logout clears the session no matter what the backend says. The remote
// invalidation is advisory; a dead server must not keep the client
// logged in.
func (a *authService) Logout(ctx context.Context) error {
	cur := a.store.Snapshot()
	if cur.Authenticated() {
		if err := a.client.Logout(ctx, cur.RefreshToken); err != nil {
			a.log.Warn(ctx, "remote logout failed, clearing local session anyway", "err", err)
		}
	}
	a.Reset()
	return a.store.Clear(ctx)
}

func (a *authService) Probe(ctx context.Context) error {
	return a.client.Probe(ctx)
}
