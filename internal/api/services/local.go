package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/veilbox/veilbox/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials means the registration was rejected, e.g. the
	// username is already taken.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAuthenticationFailed means the username/password pair did not
	// verify. Callers must not leak which half was wrong.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// LocalAuth verifies username/password registration and login against the
// user store.
type LocalAuth struct {
	users UserStore
}

func NewLocalAuth(users UserStore) *LocalAuth {
	return &LocalAuth{users: users}
}

// Register creates a new local account. The bcrypt digest embeds a
// per-user random salt. A concurrent register with the same username loses
// on the unique index and reports ErrInvalidCredentials like the pre-check
// would have.
func (a *LocalAuth) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if _, err := a.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrInvalidCredentials
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("username lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     &username,
		PasswordHash: string(hash),
	}
	if err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate looks the user up by username and verifies the password.
// bcrypt's comparison is constant-time over the digest.
func (a *LocalAuth) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("username lookup: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}
