// Package handlers exposes the HTTP surface. Every handler receives its
// collaborators at construction; nothing is read from package globals.
package handlers

import (
	"github.com/veilbox/veilbox/internal/api/services"
	"github.com/veilbox/veilbox/internal/repositories"
)

type Handler struct {
	Local    *services.LocalAuth
	Google   *services.GoogleAuth
	Sessions *services.SessionManager
	Users    *repositories.UserStore

	secure bool
}

func New(local *services.LocalAuth, google *services.GoogleAuth, sessions *services.SessionManager, users *repositories.UserStore, secure bool) *Handler {
	return &Handler{
		Local:    local,
		Google:   google,
		Sessions: sessions,
		Users:    users,
		secure:   secure,
	}
}
