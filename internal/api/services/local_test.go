package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilbox/veilbox/internal/models"
	"github.com/veilbox/veilbox/internal/repositories"
	"gorm.io/gorm"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	users := repositories.NewUserStore(openTestDB(t))
	local := NewLocalAuth(users)
	ctx := context.Background()

	user, err := local.Register(ctx, "alice", "p1")
	require.NoError(t, err)
	require.NotNil(t, user.Username)
	assert.Equal(t, "alice", *user.Username)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "p1", user.PasswordHash)

	got, err := local.Authenticate(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := repositories.NewUserStore(openTestDB(t))
	local := NewLocalAuth(users)
	ctx := context.Background()

	first, err := local.Register(ctx, "alice", "p1")
	require.NoError(t, err)

	_, err = local.Register(ctx, "alice", "p2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// the original record still validates only against its own password
	_, err = local.Authenticate(ctx, "alice", "p2")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	got, err := local.Authenticate(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestRegisterEmptyInput(t *testing.T) {
	users := repositories.NewUserStore(openTestDB(t))
	local := NewLocalAuth(users)

	_, err := local.Register(context.Background(), "", "p1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = local.Register(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateFailures(t *testing.T) {
	users := repositories.NewUserStore(openTestDB(t))
	local := NewLocalAuth(users)
	ctx := context.Background()

	_, err := local.Authenticate(ctx, "ghost", "whatever")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = local.Register(ctx, "alice", "p1")
	require.NoError(t, err)

	_, err = local.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

// staleLookupStore models the read half of two racing first
// registrations: the lookup still sees no row while the insert collides
// on the unique index.
type staleLookupStore struct {
	*repositories.UserStore
}

func (s staleLookupStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestRegisterRaceMapsDuplicateKey(t *testing.T) {
	users := repositories.NewUserStore(openTestDB(t))
	ctx := context.Background()

	winner, err := NewLocalAuth(users).Register(ctx, "alice", "p1")
	require.NoError(t, err)

	// the loser's pre-check raced ahead of the winner's insert; the
	// unique index is the backstop and maps to the same rejection
	_, err = NewLocalAuth(staleLookupStore{users}).Register(ctx, "alice", "p2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
}
