package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns users router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/profile", h.GetProfile)
	r.Patch("/profile", h.UpdateProfile)
	r.Post("/profile/photo", h.UploadPhoto)
	r.Get("/suggestions", h.Suggestions)

	return r
}
