package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/veilbox/veilbox/internal/models"
	"gorm.io/gorm"
)

// UserStore is the credential store: every account lookup and mutation
// goes through it. Lookups return gorm.ErrRecordNotFound when absent;
// Create returns gorm.ErrDuplicatedKey when a unique key is taken.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// SaveSecret overwrites the user's secret in place. Resubmission keeps
// only the latest value.
func (s *UserStore) SaveSecret(ctx context.Context, user *models.User, secret string) error {
	user.Secret = secret
	return s.db.WithContext(ctx).Model(user).Update("secret", secret).Error
}
