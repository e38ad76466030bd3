package http

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api", func(r chi.Router) {
		// Component tree
		r.Get("/components", h.ListComponents)
		r.Post("/components", h.ReplaceComponents)
		r.Get("/components/{id}", h.GetComponent)
		r.Put("/components/{id}", h.UpdateComponent)
		r.Delete("/components/{id}", h.DeleteComponent)
		r.Post("/components/{id}/children", h.CreateChild)
		r.Post("/components/{id}/move", h.MoveComponent)
		r.Post("/components/{id}/toggle", h.ToggleFolder)

		// Prompts
		r.Get("/prompts", h.ListPrompts)
		r.Post("/prompts", h.CreatePrompt)
		r.Get("/prompts/{id}", h.GetPrompt)
		r.Put("/prompts/{id}", h.UpdatePrompt)
		r.Delete("/prompts/{id}", h.DeletePrompt)
		r.Post("/prompts/{id}/duplicate", h.DuplicatePrompt)
		r.Get("/prompts/{id}/compiled", h.CompilePrompt)

		// Sections
		r.Post("/prompts/{id}/sections", h.AddSection)
		r.Put("/prompts/{id}/sections/{sid}", h.UpdateSection)
		r.Delete("/prompts/{id}/sections/{sid}", h.DeleteSection)
		r.Post("/prompts/{id}/sections/{sid}/move", h.MoveSection)
		r.Post("/prompts/{id}/sections/{sid}/link", h.LinkSection)
		r.Post("/prompts/{id}/sections/{sid}/save-to-library", h.SaveSectionToLibrary)

		// Settings + active prompt pointer
		r.Get("/settings", h.GetSettings)
		r.Post("/settings", h.UpdateSettings)

		// Import/export
		r.Post("/library/import", h.ImportLibrary)
		r.Get("/library/export", h.ExportLibrary)
	})
}
