package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the single persisted account record. Locally registered users
// carry a username and bcrypt hash; Google-authenticated users carry a
// GoogleID and email instead. Both lookup keys are nullable so a record
// created by one path never collides with the other path's unique index.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username     *string   `json:"username,omitempty" gorm:"uniqueIndex"`
	PasswordHash string    `json:"-"`
	GoogleID     *string   `json:"-" gorm:"uniqueIndex"`
	Email        string    `json:"email,omitempty"`
	Secret       string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
