package http

import (
	"net/http"

	"github.com/idavillc/prompt-builder/internal/service"
)

// settingsResponse is the body for GET/POST /api/settings: the app settings
// plus the independently-persisted active prompt pointer.
type settingsResponse struct {
	MarkdownPrompting  bool   `json:"markdownPrompting"`
	SystemPrompt       string `json:"systemPrompt"`
	DefaultPromptName  string `json:"defaultPromptName"`
	DefaultSectionType string `json:"defaultSectionType"`
	ActivePromptID     string `json:"activePromptId"`
}

// GetSettings handles GET /api/settings.
func (h *Handlers) GetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.settingsBody())
}

// updateSettingsRequest is the body for POST /api/settings. Absent fields
// stay untouched.
type updateSettingsRequest struct {
	MarkdownPrompting  *bool   `json:"markdownPrompting"`
	SystemPrompt       *string `json:"systemPrompt"`
	DefaultPromptName  *string `json:"defaultPromptName"`
	DefaultSectionType *string `json:"defaultSectionType"`
	ActivePromptID     *string `json:"activePromptId"`
}

// UpdateSettings handles POST /api/settings. An activePromptId that no
// longer resolves to an existing prompt is silently nulled out rather than
// rejected.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[updateSettingsRequest](w, r)
	if !ok {
		return
	}

	h.Settings.Update(r.Context(), service.Patch{
		MarkdownPrompting:  req.MarkdownPrompting,
		SystemPrompt:       req.SystemPrompt,
		DefaultPromptName:  req.DefaultPromptName,
		DefaultSectionType: req.DefaultSectionType,
	})

	if req.ActivePromptID != nil {
		if !h.Prompts.SetActive(r.Context(), *req.ActivePromptID) {
			h.Prompts.SetActive(r.Context(), "")
		}
	}

	writeJSON(w, http.StatusOK, h.settingsBody())
}

func (h *Handlers) settingsBody() settingsResponse {
	cfg := h.Settings.Get()
	return settingsResponse{
		MarkdownPrompting:  cfg.MarkdownPrompting,
		SystemPrompt:       cfg.SystemPrompt,
		DefaultPromptName:  cfg.DefaultPromptName,
		DefaultSectionType: string(cfg.DefaultSectionType),
		ActivePromptID:     h.Prompts.ActiveID(),
	}
}
