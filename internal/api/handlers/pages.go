package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/veilbox/veilbox/internal/api/middleware"
	"github.com/veilbox/veilbox/internal/web"
	"gorm.io/gorm"
)

// GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	web.Render(w, "home", nil)
}

// GET /login
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	web.Render(w, "login", nil)
}

// GET /register
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	web.Render(w, "register", nil)
}

// GET /secrets
// Open to any request: anonymous visitors are bounced to the login page
// rather than gated by middleware. Only a genuinely absent session is a
// redirect; a storage failure is a server error, not an anonymous visit.
func (h *Handler) Secrets(w http.ResponseWriter, r *http.Request) {
	user, err := h.Sessions.Current(r)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		log.Println("secrets:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	web.Render(w, "secrets", map[string]any{"Secret": user.Secret})
}

// GET /submit
func (h *Handler) SubmitPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFrom(r.Context()); !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	web.Render(w, "submit", nil)
}
