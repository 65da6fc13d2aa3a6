package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbakhtiari/adminctl/internal/client/api"
	"github.com/sbakhtiari/adminctl/internal/client/models"
	"github.com/sbakhtiari/adminctl/internal/common"
)

func TestList_PopulatesMirror(t *testing.T) {
	fake := &fakeClient{ListRet: []models.User{{ID: 1, Username: "alice"}}}
	d := NewUserDirectory(fake, discardLogger())

	users, err := d.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)

	assert.Equal(t, users, d.Users())
}

func TestList_FailureLeavesMirrorIntact(t *testing.T) {
	ctx := context.Background()
	fake := &fakeClient{ListRet: []models.User{{ID: 1, Username: "alice"}}}
	d := NewUserDirectory(fake, discardLogger())

	_, err := d.List(ctx)
	require.NoError(t, err)

	fake.ListErr = common.ErrUnavailable
	_, err = d.List(ctx)
	require.ErrorIs(t, err, common.ErrUnavailable)

	// Stale but consistent.
	assert.Equal(t, []models.User{{ID: 1, Username: "alice"}}, d.Users())
}

func TestCreate_RequiresUsernameAndPassword(t *testing.T) {
	ctx := context.Background()
	fake := &fakeClient{}
	d := NewUserDirectory(fake, discardLogger())

	_, err := d.Create(ctx, api.CreateUserRequest{Password: "secret"})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = d.Create(ctx, api.CreateUserRequest{Username: "alice"})
	require.ErrorIs(t, err, common.ErrValidation)

	assert.Equal(t, int64(0), fake.CreateCalls.Load())
	assert.Equal(t, int64(0), fake.ListCalls.Load())
}

func TestCreate_TriggersExactlyOneListRefresh(t *testing.T) {
	ctx := context.Background()
	fake := &fakeClient{
		CreateRet: models.User{ID: 7, Username: "alice", IsActive: true},
		ListRet:   []models.User{{ID: 7, Username: "alice", IsActive: true}},
	}
	d := NewUserDirectory(fake, discardLogger())

	created, err := d.Create(ctx, api.CreateUserRequest{Username: "alice", Password: "secret", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	assert.Equal(t, int64(1), fake.ListCalls.Load(), "one refetch per successful mutation")
	// The mirror reflects a fresh fetch, not a local patch.
	assert.Equal(t, []models.User{{ID: 7, Username: "alice", IsActive: true}}, d.Users())
}

func TestCreate_FailureDoesNotRefetch(t *testing.T) {
	ctx := context.Background()
	fake := &fakeClient{CreateErr: common.ErrAlreadyExists}
	d := NewUserDirectory(fake, discardLogger())

	_, err := d.Create(ctx, api.CreateUserRequest{Username: "alice", Password: "secret"})
	require.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.Equal(t, int64(0), fake.ListCalls.Load())
}

func TestUpdate_TriggersExactlyOneListRefresh(t *testing.T) {
	ctx := context.Background()
	fake := &fakeClient{UpdateRet: models.User{ID: 3}}
	d := NewUserDirectory(fake, discardLogger())

	_, err := d.Update(ctx, 3, api.UpdateUserRequest{})
	require.NoError(t, err)

	assert.Equal(t, int64(3), fake.LastUpdateID)
	assert.Equal(t, int64(1), fake.ListCalls.Load())
}

func TestDelete_TriggersExactlyOneListRefresh(t *testing.T) {
	ctx := context.Background()
	fake := &fakeClient{}
	d := NewUserDirectory(fake, discardLogger())

	require.NoError(t, d.Delete(ctx, 5))
	assert.Equal(t, int64(5), fake.LastDeleteID)
	assert.Equal(t, int64(1), fake.ListCalls.Load())
}

func TestDelete_FailureDoesNotRefetch(t *testing.T) {
	fake := &fakeClient{DeleteErr: common.ErrNotFound}
	d := NewUserDirectory(fake, discardLogger())

	err := d.Delete(context.Background(), 42)
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, int64(0), fake.ListCalls.Load())
}

func TestMutation_RefreshFailureLeavesMirrorStale(t *testing.T) {
	ctx := context.Background()
	fake := &fakeClient{ListRet: []models.User{{ID: 1, Username: "alice"}}}
	d := NewUserDirectory(fake, discardLogger())

	_, err := d.List(ctx)
	require.NoError(t, err)

	fake.ListErr = common.ErrUnavailable
	err = d.Delete(ctx, 1)
	require.Error(t, err)

	assert.Equal(t, []models.User{{ID: 1, Username: "alice"}}, d.Users())
}

func TestList_StaleResponseCannotRegressMirror(t *testing.T) {
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	old := []models.User{{ID: 1, Username: "old"}}
	fresh := []models.User{{ID: 2, Username: "new"}}

	call := 0
	fake := &fakeClient{}
	fake.ListFn = func(ctx context.Context) ([]models.User, error) {
		call++
		if call == 1 {
			close(entered)
			<-release
			return old, nil
		}
		return fresh, nil
	}
	d := NewUserDirectory(fake, discardLogger())

	firstDone := make(chan []models.User, 1)
	go func() {
		res, err := d.List(ctx)
		if err != nil {
			firstDone <- nil
			return
		}
		firstDone <- res
	}()

	// Wait for the first fetch to be in flight, then issue and complete a
	// newer one.
	<-entered
	res2, err := d.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, res2)

	// Let the earlier, slower fetch resolve now. Its stale payload must not
	// overwrite the mirror.
	close(release)
	var res1 []models.User
	select {
	case res1 = <-firstDone:
	case <-time.After(time.Second):
		t.Fatal("first fetch never completed")
	}

	assert.Equal(t, fresh, res1, "the stale response yields the current mirror, not its own payload")
	assert.Equal(t, fresh, d.Users())
}
