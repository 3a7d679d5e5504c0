package handlers

import (
	"log"
	"net/http"

	"github.com/veilbox/veilbox/internal/api/middleware"
)

// POST /submit
// Overwrites the current user's secret; resubmission keeps only the
// latest value.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.Users.SaveSecret(r.Context(), user, r.PostFormValue("secret")); err != nil {
		log.Println("submit:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}
