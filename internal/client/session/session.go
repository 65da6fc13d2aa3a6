// Package session holds the client's authentication state: the current
// token pair, its optional on-disk persistence, and the serialized token
// refresh operation.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/sbakhtiari/adminctl/internal/client/repositories/state"
	"github.com/sbakhtiari/adminctl/internal/common"
	"github.com/sbakhtiari/adminctl/internal/dbx"
)

// State keys used for on-disk persistence.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// Session is an immutable snapshot of the token pair.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether this snapshot represents a logged-in
// session: both tokens present and non-empty.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// Store is the single source of truth for "is the user logged in".
//
// Mutations (Set, Clear) are atomic with respect to reads: no reader ever
// observes an access token from one login paired with a refresh token from
// another. When constructed with a database handle, the store mirrors every
// mutation into the local state table so a restarted process resumes the
// session.
type Store struct {
	mu  sync.RWMutex
	cur Session
	db  *sql.DB // nil disables persistence
}

// NewStore creates a Store. db may be nil, in which case the session lives
// only for the duration of the process.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Restore loads a previously persisted session, if any. Missing state is
// not an error: the store simply stays empty.
func (s *Store) Restore(ctx context.Context) error {
	if s.db == nil {
		return nil
	}

	repo := state.NewSQLiteRepository(s.db)
	access, err := repo.Get(ctx, keyAccessToken)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	refresh, err := repo.Get(ctx, keyRefreshToken)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	restored := Session{AccessToken: string(access), RefreshToken: string(refresh)}
	if !restored.Authenticated() {
		// A half-persisted pair is useless; drop it rather than resume it.
		return nil
	}

	s.mu.Lock()
	s.cur = restored
	s.mu.Unlock()
	return nil
}

// Snapshot returns the current session value.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// AccessToken returns the current access token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.AccessToken
}

// Authenticated reports whether both tokens are currently held.
func (s *Store) Authenticated() bool {
	return s.Snapshot().Authenticated()
}

// Set replaces both tokens atomically. Both must be non-empty; a session is
// never populated halfway.
func (s *Store) Set(ctx context.Context, access, refresh string) error {
	if access == "" || refresh == "" {
		return fmt.Errorf("%w: both tokens are required", common.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = Session{AccessToken: access, RefreshToken: refresh}
	return s.persistLocked(ctx)
}

// Clear drops the session unconditionally. Idempotent: clearing an empty
// store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = Session{}
	if s.db == nil {
		return nil
	}
	repo := state.NewSQLiteRepository(s.db)
	if err := repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

// persistLocked writes both tokens in one transaction. Caller holds s.mu.
func (s *Store) persistLocked(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	cur := s.cur
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(cur.AccessToken)); err != nil {
			return err
		}
		return repo.Set(ctx, keyRefreshToken, []byte(cur.RefreshToken))
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
