package repositories

import (
	"context"
	"log"
	"time"

	"github.com/veilbox/veilbox/internal/models"
	"gorm.io/gorm"
)

// SessionStore persists server-side sessions keyed by the opaque cookie
// token.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, session *models.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

// Find returns the session for the token, treating expired rows as absent
// and sweeping them on the way out.
func (s *SessionStore) Find(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, "token = ?", token).Error; err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		if err := s.db.WithContext(ctx).Delete(&session).Error; err != nil {
			log.Println("expired session sweep:", err)
		}
		return nil, gorm.ErrRecordNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error
}
