package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/idavillc/prompt-builder/internal/domain/prompt"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
	"github.com/idavillc/prompt-builder/internal/service"
)

// ListPrompts handles GET /api/prompts.
func (h *Handlers) ListPrompts(w http.ResponseWriter, _ *http.Request) {
	prompts := h.Prompts.List()
	if prompts == nil {
		prompts = []prompt.Prompt{}
	}
	writeJSON(w, http.StatusOK, prompts)
}

// createPromptRequest is the body for POST /api/prompts.
type createPromptRequest struct {
	Name string `json:"name"`
}

// CreatePrompt handles POST /api/prompts: allocates a new prompt with one
// seeded section and makes it active.
func (h *Handlers) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[createPromptRequest](w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.Prompts.Create(r.Context(), req.Name))
}

// GetPrompt handles GET /api/prompts/{id}.
func (h *Handlers) GetPrompt(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Prompts.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// updatePromptRequest is the body for PUT /api/prompts/{id}: provided fields
// merge over the existing record.
type updatePromptRequest struct {
	Name     *string           `json:"name"`
	Num      *int              `json:"num"`
	Sections *[]prompt.Section `json:"sections"`
}

// UpdatePrompt handles PUT /api/prompts/{id}.
func (h *Handlers) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[updatePromptRequest](w, r)
	if !ok {
		return
	}
	patch := service.PromptPatch{Name: req.Name, Num: req.Num, Sections: req.Sections}
	p, ok := h.Prompts.Update(chi.URLParam(r, "id"), patch)
	if !ok {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePrompt handles DELETE /api/prompts/{id}.
func (h *Handlers) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	if !h.Prompts.Delete(r.Context(), chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicatePrompt handles POST /api/prompts/{id}/duplicate.
func (h *Handlers) DuplicatePrompt(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Prompts.Duplicate(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// compiledResponse is the body for GET /api/prompts/{id}/compiled.
type compiledResponse struct {
	Text string `json:"text"`
}

// CompilePrompt handles GET /api/prompts/{id}/compiled: the exported text
// blob, rendered with the current app settings.
func (h *Handlers) CompilePrompt(w http.ResponseWriter, r *http.Request) {
	text, ok := h.Prompts.Compiled(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	writeJSON(w, http.StatusOK, compiledResponse{Text: text})
}

// addSectionRequest is the body for POST /api/prompts/{id}/sections.
type addSectionRequest struct {
	Type       string `json:"type"`
	Index      *int   `json:"index"`
	ForEditing bool   `json:"for_editing"`
}

// AddSection handles POST /api/prompts/{id}/sections.
func (h *Handlers) AddSection(w http.ResponseWriter, r *http.Request) {
	promptID := chi.URLParam(r, "id")
	req, ok := readJSON[addSectionRequest](w, r)
	if !ok {
		return
	}

	var sectionID string
	switch {
	case req.ForEditing:
		sectionID, ok = h.Prompts.AddSectionForEditing(promptID)
	case req.Index != nil:
		sectionID, ok = h.Prompts.AddNewSectionAt(promptID, tree.ComponentType(req.Type), *req.Index)
	default:
		sectionID, ok = h.Prompts.AddSection(promptID, tree.ComponentType(req.Type))
	}
	if !ok {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": sectionID})
}

// updateSectionRequest is the body for PUT /api/prompts/{id}/sections/{sid}.
type updateSectionRequest struct {
	Name              *string `json:"name"`
	Content           *string `json:"content"`
	Type              *string `json:"type"`
	LinkedComponentID *string `json:"linkedComponentId"`
	OriginalContent   *string `json:"originalContent"`
	Open              *bool   `json:"open"`
	Dirty             *bool   `json:"dirty"`
}

// UpdateSection handles PUT /api/prompts/{id}/sections/{sid}. Dirty for
// linked sections is derived server-side; a Dirty value in the body only
// applies to unlinked sections.
func (h *Handlers) UpdateSection(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[updateSectionRequest](w, r)
	if !ok {
		return
	}
	patch := prompt.SectionPatch{
		Name:              req.Name,
		Content:           req.Content,
		LinkedComponentID: req.LinkedComponentID,
		OriginalContent:   req.OriginalContent,
		Open:              req.Open,
		Dirty:             req.Dirty,
	}
	if req.Type != nil {
		ct := tree.ParseComponentType(*req.Type)
		patch.Type = &ct
	}
	p, ok := h.Prompts.UpdateSection(chi.URLParam(r, "id"), chi.URLParam(r, "sid"), patch)
	if !ok {
		writeError(w, http.StatusNotFound, "prompt or section not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteSection handles DELETE /api/prompts/{id}/sections/{sid}.
func (h *Handlers) DeleteSection(w http.ResponseWriter, r *http.Request) {
	if !h.Prompts.DeleteSection(chi.URLParam(r, "id"), chi.URLParam(r, "sid")) {
		writeError(w, http.StatusNotFound, "prompt or section not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// moveSectionRequest is the body for POST /api/prompts/{id}/sections/{sid}/move.
type moveSectionRequest struct {
	Index     *int   `json:"index"`
	Direction string `json:"direction"`
}

// MoveSection handles POST /api/prompts/{id}/sections/{sid}/move: either an
// absolute index (clamped) or "up"/"down".
func (h *Handlers) MoveSection(w http.ResponseWriter, r *http.Request) {
	promptID := chi.URLParam(r, "id")
	sectionID := chi.URLParam(r, "sid")
	req, ok := readJSON[moveSectionRequest](w, r)
	if !ok {
		return
	}

	var moved bool
	switch {
	case req.Index != nil:
		moved = h.Prompts.MoveSectionTo(promptID, sectionID, *req.Index)
	case req.Direction == "up":
		moved = h.Prompts.MoveSectionUp(promptID, sectionID)
	case req.Direction == "down":
		moved = h.Prompts.MoveSectionDown(promptID, sectionID)
	default:
		writeError(w, http.StatusBadRequest, "index or direction is required")
		return
	}
	if !moved {
		writeError(w, http.StatusNotFound, "prompt or section not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// linkSectionRequest is the body for POST /api/prompts/{id}/sections/{sid}/link.
type linkSectionRequest struct {
	ComponentID string `json:"componentId"`
}

// LinkSection handles POST /api/prompts/{id}/sections/{sid}/link: the drop
// path linking a section to a library component.
func (h *Handlers) LinkSection(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[linkSectionRequest](w, r)
	if !ok {
		return
	}
	component := h.Tree.Find(req.ComponentID)
	if component == nil || component.IsFolder() {
		writeError(w, http.StatusNotFound, "component not found")
		return
	}
	if !h.Prompts.LinkSection(chi.URLParam(r, "id"), chi.URLParam(r, "sid"), component) {
		writeError(w, http.StatusNotFound, "prompt or section not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveSectionToLibrary handles POST /api/prompts/{id}/sections/{sid}/save-to-library.
func (h *Handlers) SaveSectionToLibrary(w http.ResponseWriter, r *http.Request) {
	if !h.Prompts.SaveSectionToLibrary(chi.URLParam(r, "id"), chi.URLParam(r, "sid")) {
		writeError(w, http.StatusNotFound, "section is not linked to an existing component")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
