package repositories

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veilbox/veilbox/internal/models"
	"gorm.io/gorm"
)

func TestFindRoundTrip(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionStore(db)
	ctx := context.Background()

	user := &models.User{Username: strptr("alice")}
	require.NoError(t, NewUserStore(db).Create(ctx, user))

	session := &models.Session{
		Token:     "tok-1",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, sessions.Create(ctx, session))

	got, err := sessions.Find(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)

	require.NoError(t, sessions.Delete(ctx, "tok-1"))
	_, err = sessions.Find(ctx, "tok-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestExpiredSweepFailureIsLogged(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionStore(db)
	ctx := context.Background()

	user := &models.User{Username: strptr("alice")}
	require.NoError(t, NewUserStore(db).Create(ctx, user))
	require.NoError(t, sessions.Create(ctx, &models.Session{
		Token:     "tok-stale",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	// make the sweep's delete fail under the session lookup
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").
		Register("block_delete", func(tx *gorm.DB) {
			_ = tx.AddError(errors.New("delete blocked"))
		}))

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	// the expired row still reads as absent, and the failure is visible
	_, err := sessions.Find(ctx, "tok-stale")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Contains(t, buf.String(), "expired session sweep")
}
