package session

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/sbakhtiari/adminctl/internal/client/api"
	"github.com/sbakhtiari/adminctl/internal/common"
	"github.com/sbakhtiari/adminctl/internal/logging"
)

// RefreshClient is the slice of the API client the refresher needs.
type RefreshClient interface {
	RefreshToken(ctx context.Context, refreshToken string) (api.Credentials, error)
}

// Refresher exchanges the held refresh token for a new access token.
//
// Refresh attempts are single-flight: the first caller performs the network
// exchange, concurrent callers block on the same in-flight result instead of
// racing a second refresh against a token already being rotated. A failed
// refresh leaves the store exactly as it was.
type Refresher struct {
	store  *Store
	client RefreshClient
	group  singleflight.Group
	log    logging.Logger
}

func NewRefresher(store *Store, client RefreshClient, log logging.Logger) *Refresher {
	return &Refresher{store: store, client: client, log: log}
}

// Refresh performs (or joins) a token refresh. The context of the first
// caller governs the shared network call.
func (r *Refresher) Refresh(ctx context.Context) error {
	_, err, _ := r.group.Do("refresh", func() (any, error) {
		return nil, r.refresh(ctx)
	})
	return err
}

func (r *Refresher) refresh(ctx context.Context) error {
	cur := r.store.Snapshot()
	if cur.RefreshToken == "" {
		return common.ErrNoRefreshToken
	}

	creds, err := r.client.RefreshToken(ctx, cur.RefreshToken)
	if err != nil {
		return err
	}
	if creds.AccessToken == "" {
		return common.ErrUnauthorized
	}

	// The backend may or may not rotate the refresh token.
	rotated := creds.RefreshToken
	if rotated == "" {
		rotated = cur.RefreshToken
	}

	if err := r.store.Set(ctx, creds.AccessToken, rotated); err != nil {
		return err
	}
	r.log.Debug(ctx, "access token refreshed", "rotated", creds.RefreshToken != "")
	return nil
}
