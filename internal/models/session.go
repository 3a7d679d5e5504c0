package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one server-side login, keyed by the opaque token carried in
// the browser cookie. Expired rows are treated as absent and swept lazily.
type Session struct {
	Token     string    `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null"`
}
