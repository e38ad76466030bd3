package http

import (
	"io"
	"net/http"

	"github.com/idavillc/prompt-builder/internal/domain/id"
	"github.com/idavillc/prompt-builder/internal/domain/library"
	"github.com/idavillc/prompt-builder/internal/domain/prompt"
)

// ImportLibrary handles POST /api/library/import. The body is an export
// document in any of the recognized shapes; ids are re-issued on parse.
// mode=replace swaps the whole tree and prompt collection, the default
// merges the incoming tree by name and appends the incoming prompts.
func (h *Handlers) ImportLibrary(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	doc, err := library.Parse(body, id.New)
	if err != nil {
		writeDomainError(w, err, "invalid library document")
		return
	}

	if r.URL.Query().Get("mode") == "replace" {
		h.Tree.ReplaceTree(doc.Tree)
		h.Prompts.ReplaceAll(doc.Prompts)
	} else {
		remap := h.Tree.MergeLibrary(doc)
		h.Prompts.Append(prompt.RemapLinks(doc.Prompts, remap))
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportLibrary handles GET /api/library/export: the current tree and
// prompts as a download-ready document.
func (h *Handlers) ExportLibrary(w http.ResponseWriter, _ *http.Request) {
	data, err := library.Export(h.Tree.Snapshot(), h.Prompts.List())
	if err != nil {
		writeDomainError(w, err, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="prompt-library.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
