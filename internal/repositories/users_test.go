package repositories

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilbox/veilbox/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return db
}

func strptr(s string) *string { return &s }

func TestCreateDuplicateUsername(t *testing.T) {
	users := NewUserStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &models.User{Username: strptr("alice")}))

	err := users.Create(ctx, &models.User{Username: strptr("alice")})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCreateDuplicateGoogleID(t *testing.T) {
	users := NewUserStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &models.User{GoogleID: strptr("g-1"), Email: "a@example.com"}))

	err := users.Create(ctx, &models.User{GoogleID: strptr("g-1"), Email: "b@example.com"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestNullableKeysDoNotCollide(t *testing.T) {
	// a local account (nil google id) and an external account (nil
	// username) must coexist; so must several of each
	users := NewUserStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &models.User{Username: strptr("alice")}))
	require.NoError(t, users.Create(ctx, &models.User{Username: strptr("bob")}))
	require.NoError(t, users.Create(ctx, &models.User{GoogleID: strptr("g-1")}))
	require.NoError(t, users.Create(ctx, &models.User{GoogleID: strptr("g-2")}))
}

func TestLookups(t *testing.T) {
	users := NewUserStore(openTestDB(t))
	ctx := context.Background()

	user := &models.User{Username: strptr("alice")}
	require.NoError(t, users.Create(ctx, user))

	byName, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byID, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byID.ID)

	_, err = users.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = users.FindByGoogleID(ctx, "g-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSaveSecretOverwrites(t *testing.T) {
	users := NewUserStore(openTestDB(t))
	ctx := context.Background()

	user := &models.User{Username: strptr("alice")}
	require.NoError(t, users.Create(ctx, user))

	require.NoError(t, users.SaveSecret(ctx, user, "first"))
	require.NoError(t, users.SaveSecret(ctx, user, "second"))

	got, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Secret)
}
