package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/veilbox/veilbox/internal/models"
)

// UserStore is the credential-store surface the strategies and the
// session manager depend on. repositories.UserStore satisfies it; tests
// substitute narrower fakes.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}
