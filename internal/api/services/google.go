package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/veilbox/veilbox/internal/config"
	"github.com/veilbox/veilbox/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

// ErrExternalAuthFailed means the provider exchange or profile fetch did
// not complete. The request is terminal; the user re-initiates the flow.
var ErrExternalAuthFailed = errors.New("external authentication failed")

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleAuth drives the OAuth2 authorization-code flow against Google and
// reconciles the returned profile with the user store.
type GoogleAuth struct {
	users UserStore
	oauth *oauth2.Config

	// UserInfoURL is overridable so tests can point the profile fetch at a
	// stub provider.
	UserInfoURL string
}

func NewGoogleAuth(cfg config.GoogleConfig, users UserStore) *GoogleAuth {
	return &GoogleAuth{
		users: users,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		UserInfoURL: googleUserInfoURL,
	}
}

// AuthCodeURL returns the provider authorization URL carrying the state.
func (a *GoogleAuth) AuthCodeURL(state string) string {
	return a.oauth.AuthCodeURL(state)
}

// SetEndpoint swaps the provider endpoints. Test hook for stub providers.
func (a *GoogleAuth) SetEndpoint(endpoint oauth2.Endpoint) {
	a.oauth.Endpoint = endpoint
}

type googleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Callback exchanges the authorization code, fetches the profile and
// returns the matching user, creating one on first login. A missing email
// claim is stored empty rather than failing the login. When two first
// logins race on the same provider id, the loser's create hits the unique
// index and is reported as ErrExternalAuthFailed.
func (a *GoogleAuth) Callback(ctx context.Context, code string) (*models.User, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", ErrExternalAuthFailed, err)
	}

	client := a.oauth.Client(ctx, token)
	resp, err := client.Get(a.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile: %v", ErrExternalAuthFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read profile: %v", ErrExternalAuthFailed, err)
	}

	var profile googleProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("%w: parse profile: %v", ErrExternalAuthFailed, err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("%w: profile has no id", ErrExternalAuthFailed)
	}

	user, err := a.users.FindByGoogleID(ctx, profile.ID)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first login with this provider id
	default:
		return nil, fmt.Errorf("google id lookup: %w", err)
	}

	user = &models.User{
		GoogleID: &profile.ID,
		Email:    profile.Email,
	}
	if err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: concurrent first login", ErrExternalAuthFailed)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
