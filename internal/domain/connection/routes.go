package connection

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns connections router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	r.Post("/send", h.Send)
	r.Patch("/{id}/accept", h.Accept)
	r.Patch("/{id}/reject", h.Reject)
	r.Delete("/{id}/cancel", h.Cancel)

	r.Post("/block/{userId}", h.Block)
	r.Delete("/unblock/{userId}", h.Unblock)

	r.Get("/", h.List)
	r.Get("/received", h.Received)
	r.Get("/sent", h.Sent)
	r.Get("/status/{userId}", h.Status)

	return r
}
