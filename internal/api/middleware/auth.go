package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/veilbox/veilbox/internal/api/services"
	"github.com/veilbox/veilbox/internal/models"
	"gorm.io/gorm"
)

type contextKey string

const userKey contextKey = "user"

// UserFrom returns the authenticated principal placed by RequireAuth.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// RequireAuth resolves the session principal and attaches it to the
// request context. Anonymous requests are redirected to the login page;
// credentials are never re-checked here. A storage failure during
// resolution is a server error, not an anonymous visit.
func RequireAuth(sessions *services.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.Current(r)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					http.Redirect(w, r, "/login", http.StatusFound)
					return
				}
				log.Println("auth:", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
