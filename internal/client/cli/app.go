package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sbakhtiari/adminctl/internal/client/api"
	"github.com/sbakhtiari/adminctl/internal/client/config"
	"github.com/sbakhtiari/adminctl/internal/client/repositories/state"
	"github.com/sbakhtiari/adminctl/internal/client/services"
	"github.com/sbakhtiari/adminctl/internal/client/session"
	"github.com/sbakhtiari/adminctl/internal/common"
	"github.com/sbakhtiari/adminctl/internal/logging"

	_ "modernc.org/sqlite"
)

// Mode is the connectivity state reported by the background probe.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
	ModeUnknown Mode = ""
)

type App struct {
	config *config.Config
	auth   services.AuthService
	users  services.UserDirectory
	store  *session.Store
	log    logging.Logger
	reader *bufio.Reader

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	var db *sql.DB
	if c.StateDSN != "" {
		var err error
		db, err = state.OpenDatabase(ctx, c.StateDSN)
		if err != nil {
			return nil, fmt.Errorf("open state database: %w", err)
		}
	}

	store := session.NewStore(db)
	if err := store.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore previous session", "err", err)
	}

	apiClient := api.NewHTTPClient(c.ServerBaseURL, store, log)
	refresher := session.NewRefresher(store, apiClient, log)
	apiClient.SetRefresher(refresher)

	return &App{
		config: c,
		auth:   services.NewAuthService(apiClient, store, log),
		users:  services.NewUserDirectory(apiClient, log),
		store:  store,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.store.Authenticated()
}

// requireAuth is the gate in front of every protected command. It is
// re-evaluated on each dispatch, so a session lost mid-run (failed refresh,
// logout elsewhere) sends the user back to the login flow.
func (a *App) requireAuth() bool {
	if a.isLoggedIn() {
		return true
	}
	fmt.Println("Not logged in. Use 'login' first.")
	return false
}

// handleRemoteErr prints a user-facing message for a failed operation and,
// on an unrecoverable auth failure, drops the local session.
func (a *App) handleRemoteErr(ctx context.Context, err error) {
	if errors.Is(err, common.ErrUnauthorized) {
		fmt.Println("Session expired. Please log in again.")
		if lerr := a.auth.Logout(ctx); lerr != nil {
			a.log.Warn(ctx, "logout after expired session", "err", lerr)
		}
		return
	}
	fmt.Println("Error:", err.Error())
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// StartSessionWatcher periodically probes the authenticated test endpoint
// to keep the prompt's online/offline indicator honest. Probes run only
// while a session is held; an unauthorized probe (i.e. a refresh that no
// longer works) clears the session.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !a.isLoggedIn() {
				continue
			}

			probeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.auth.Probe(probeCtx)
			cancel()

			switch {
			case err == nil:
				a.setMode(ctx, ModeOnline)
			case errors.Is(err, common.ErrUnauthorized):
				a.log.Warn(ctx, "session no longer valid, logging out")
				_ = a.auth.Logout(ctx)
				a.setMode(ctx, ModeUnknown)
			default:
				a.setMode(ctx, ModeOffline)
			}

		case <-ctx.Done():
			return
		}
	}
}
