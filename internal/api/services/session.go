package services

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/veilbox/veilbox/internal/models"
	"github.com/veilbox/veilbox/internal/repositories"
	"github.com/veilbox/veilbox/internal/utils"
	"gorm.io/gorm"
)

// ErrSessionTeardown means logout could not remove the server-side
// session. The response must not pretend the logout happened.
var ErrSessionTeardown = errors.New("session teardown failed")

// SessionCookie is the canonical session cookie name.
const SessionCookie = "session"

// SessionManager maps the opaque session cookie to a principal. Only the
// user id is stored server-side; the user row is re-fetched per request so
// the principal never goes stale. Sessions exist only after a successful
// login: anonymous visits never create one.
type SessionManager struct {
	sessions *repositories.SessionStore
	users    UserStore
	ttl      time.Duration
	secure   bool
}

func NewSessionManager(sessions *repositories.SessionStore, users UserStore, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{sessions: sessions, users: users, ttl: ttl, secure: secure}
}

// Establish creates a server-side session for the user and sets the
// cookie. No Max-Age: the cookie does not survive a browser restart, only
// the server-side row has a lifetime.
func (m *SessionManager) Establish(w http.ResponseWriter, r *http.Request, user *models.User) error {
	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("generate session token: %w", err)
	}

	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.sessions.Create(r.Context(), session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current resolves the request's principal, or gorm.ErrRecordNotFound for
// anonymous requests. The password is never re-checked here.
func (m *SessionManager) Current(r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, gorm.ErrRecordNotFound
	}

	session, err := m.sessions.Find(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	return m.users.FindByID(r.Context(), session.UserID)
}

// Destroy removes the server-side session and clears the cookie. The
// store delete completes before this returns so the caller never responds
// against a session mid-teardown.
func (m *SessionManager) Destroy(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(SessionCookie)
	if err == nil && cookie.Value != "" {
		if err := m.sessions.Delete(r.Context(), cookie.Value); err != nil {
			return fmt.Errorf("%w: %v", ErrSessionTeardown, err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
