package api

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/veilbox/veilbox/internal/api/handlers"
	"github.com/veilbox/veilbox/internal/api/middleware"
	"github.com/veilbox/veilbox/internal/api/services"
)

// NewRouter wires the HTTP surface. All dependencies arrive by argument;
// there is no ambient middleware chain to consult.
func NewRouter(h *handlers.Handler, sessions *services.SessionManager, corsOpts cors.Options) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("GET /register", h.RegisterPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("GET /auth/google", h.GoogleLogin)
	mux.HandleFunc("GET /auth/google/secrets", h.GoogleCallback)

	// /secrets and /logout accept anonymous requests and decide for
	// themselves; the gate would hide the redirect-vs-clear distinction.
	mux.HandleFunc("GET /secrets", h.Secrets)
	mux.HandleFunc("GET /logout", h.Logout)

	// ---------- PROTECTED ROUTES ----------
	requireAuth := middleware.RequireAuth(sessions)
	mux.Handle("GET /submit", requireAuth(http.HandlerFunc(h.SubmitPage)))
	mux.Handle("POST /submit", requireAuth(http.HandlerFunc(h.Submit)))

	handler := cors.New(corsOpts).Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
