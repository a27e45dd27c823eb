package web

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the page and its form actions
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Index)
	r.Post("/upload", h.Upload)
	r.Post("/ask", h.Ask)
	r.Post("/fit", h.CheckFit)
}
