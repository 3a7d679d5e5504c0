package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/veilbox/veilbox/internal/api/services"
)

const stateCookie = "oauthstate"

// POST /register
// Registers a local account and logs it in before redirecting, so the
// very next request to /secrets renders authenticated.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	user, err := h.Local.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		log.Println("register:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.Sessions.Establish(w, r, user); err != nil {
		log.Println("register login:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}

// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	user, err := h.Local.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, services.ErrAuthenticationFailed) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		log.Println("login:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.Sessions.Establish(w, r, user); err != nil {
		log.Println("login session:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}

// GET /logout
// The session row must be gone before the redirect is written.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Destroy(w, r); err != nil {
		log.Println("logout:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// GET /auth/google
// Pins the state in a short-lived cookie so the callback can reject
// forged or replayed states.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := services.GenerateState(map[string]string{"flow": "login"})
	if err != nil {
		http.Error(w, "Failed to generate OAuth state", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.Google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /auth/google/secrets
// Provider callback. Every failure path lands on /login; there are no
// retries within a request.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	// the pinned state is single-use; expire it before any response body
	// or redirect is written
	h.clearStateCookie(w)

	state := r.FormValue("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || state == "" || cookie.Value != state {
		log.Println("google callback: state mismatch")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if _, err := services.DecodeState(state); err != nil {
		log.Println("google callback:", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	code := r.FormValue("code")
	if code == "" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.Google.Callback(r.Context(), code)
	if err != nil {
		log.Println("google callback:", err)
		if errors.Is(err, services.ErrExternalAuthFailed) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.Sessions.Establish(w, r, user); err != nil {
		log.Println("google session:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/secrets", http.StatusFound)
}

func (h *Handler) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
