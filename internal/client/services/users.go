package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/sbakhtiari/adminctl/internal/client/api"
	"github.com/sbakhtiari/adminctl/internal/client/models"
	"github.com/sbakhtiari/adminctl/internal/common"
	"github.com/sbakhtiari/adminctl/internal/logging"
)

// UserDirectory mirrors the server-owned user list.
//
// Every successful mutation invalidates the mirror and triggers exactly one
// fresh List instead of patching locally, trading one round trip for zero
// local/remote divergence. A failed operation leaves the mirror stale but
// consistent until the next successful List.
type UserDirectory interface {
	// Users returns the current mirror without touching the network.
	Users() []models.User
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, req api.CreateUserRequest) (models.User, error)
	Update(ctx context.Context, id int64, req api.UpdateUserRequest) (models.User, error)
	Delete(ctx context.Context, id int64) error
	Me(ctx context.Context) (models.User, error)
}

type userDirectory struct {
	client api.Client
	log    logging.Logger

	mu    sync.Mutex
	users []models.User

	// Fetch ordering: responses apply in issuance order, so a slow fetch
	// that resolves after a newer one cannot regress the mirror.
	issued  uint64
	applied uint64
}

func NewUserDirectory(client api.Client, log logging.Logger) UserDirectory {
	return &userDirectory{client: client, log: log}
}

func (d *userDirectory) Users() []models.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.users)
}

func (d *userDirectory) List(ctx context.Context) ([]models.User, error) {
	d.mu.Lock()
	d.issued++
	seq := d.issued
	d.mu.Unlock()

	fetched, err := d.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq > d.applied {
		d.applied = seq
		d.users = fetched
	}
	return slices.Clone(d.users), nil
}

func (d *userDirectory) Create(ctx context.Context, req api.CreateUserRequest) (models.User, error) {
	if req.Username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	if req.Password == "" {
		return models.User{}, fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	created, err := d.client.CreateUser(ctx, req)
	if err != nil {
		return models.User{}, err
	}
	d.log.Info(ctx, "user created", "id", created.ID, "username", created.Username)

	return created, d.refresh(ctx)
}

func (d *userDirectory) Update(ctx context.Context, id int64, req api.UpdateUserRequest) (models.User, error) {
	updated, err := d.client.UpdateUser(ctx, id, req)
	if err != nil {
		return models.User{}, err
	}
	d.log.Info(ctx, "user updated", "id", id)

	return updated, d.refresh(ctx)
}

func (d *userDirectory) Delete(ctx context.Context, id int64) error {
	if err := d.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	d.log.Info(ctx, "user deleted", "id", id)

	return d.refresh(ctx)
}

func (d *userDirectory) Me(ctx context.Context) (models.User, error) {
	return d.client.Me(ctx)
}

// refresh re-fetches the list after an acknowledged mutation. The mutation
// itself already succeeded; a refresh failure only means the mirror is
// stale until the next List.
func (d *userDirectory) refresh(ctx context.Context) error {
	if _, err := d.List(ctx); err != nil {
		return fmt.Errorf("list refresh: %w", err)
	}
	return nil
}
