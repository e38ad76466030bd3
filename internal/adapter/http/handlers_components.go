package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/idavillc/prompt-builder/internal/domain/tree"
)

// ListComponents handles GET /api/components: the full flat item list,
// parent-linked; the client reconstructs the tree.
func (h *Handlers) ListComponents(w http.ResponseWriter, _ *http.Request) {
	rows := tree.Flatten(h.Tree.Snapshot())
	if rows == nil {
		rows = []tree.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// ReplaceComponents handles POST /api/components: destructively replaces the
// entire tree with the flattened payload.
func (h *Handlers) ReplaceComponents(w http.ResponseWriter, r *http.Request) {
	rows, ok := readJSON[[]tree.Row](w, r)
	if !ok {
		return
	}
	for _, row := range rows {
		if msg := validateRow(row); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}
	h.Tree.ReplaceTree(tree.Build(rows))
	writeJSON(w, http.StatusOK, tree.Flatten(h.Tree.Snapshot()))
}

// GetComponent handles GET /api/components/{id}.
func (h *Handlers) GetComponent(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "id")
	for _, row := range tree.Flatten(h.Tree.Snapshot()) {
		if row.ID == nodeID {
			writeJSON(w, http.StatusOK, row)
			return
		}
	}
	writeError(w, http.StatusNotFound, "component not found")
}

// componentUpdateRequest is the body for PUT /api/components/{id}. Absent
// fields are left untouched.
type componentUpdateRequest struct {
	Name          *string `json:"name"`
	Content       *string `json:"content"`
	ComponentType *string `json:"component_type"`
	Expanded      *bool   `json:"expanded"`
}

// UpdateComponent handles PUT /api/components/{id}: a partial update merged
// over the existing node. Folder rows must keep content and component_type
// null; component rows must keep both non-null.
func (h *Handlers) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "id")
	req, ok := readJSON[componentUpdateRequest](w, r)
	if !ok {
		return
	}

	existing := h.Tree.Find(nodeID)
	if existing == nil {
		writeError(w, http.StatusNotFound, "component not found")
		return
	}
	if existing.IsFolder() && (req.Content != nil || req.ComponentType != nil) {
		writeError(w, http.StatusBadRequest, "folder rows must not carry content or component_type")
		return
	}
	if !existing.IsFolder() && req.Expanded != nil {
		writeError(w, http.StatusBadRequest, "component rows must not carry expanded")
		return
	}

	patch := tree.Patch{Name: req.Name, Content: req.Content, Expanded: req.Expanded}
	if req.ComponentType != nil {
		ct := tree.ParseComponentType(*req.ComponentType)
		patch.ComponentType = &ct
	}
	updated := h.Tree.UpdateNode(nodeID, patch)
	if updated == nil {
		writeError(w, http.StatusNotFound, "component not found")
		return
	}
	writeJSON(w, http.StatusOK, rowFor(h.Tree.Snapshot(), updated.ID))
}

// DeleteComponent handles DELETE /api/components/{id}. Deleting a folder
// removes its whole subtree.
func (h *Handlers) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	if !h.Tree.DeleteNode(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "component not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createChildRequest is the body for POST /api/components/{id}/children.
type createChildRequest struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Content       string `json:"content"`
	ComponentType string `json:"component_type"`
}

// CreateChild handles POST /api/components/{id}/children: adds a folder or
// component under the given folder.
func (h *Handlers) CreateChild(w http.ResponseWriter, r *http.Request) {
	parentID := chi.URLParam(r, "id")
	req, ok := readJSON[createChildRequest](w, r)
	if !ok {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var created *tree.Node
	switch req.Type {
	case string(tree.KindFolder):
		created = h.Tree.AddFolder(parentID, req.Name)
	case string(tree.KindComponent):
		created = h.Tree.AddComponent(parentID, req.Name, req.Content, tree.ParseComponentType(req.ComponentType))
	default:
		writeError(w, http.StatusBadRequest, "type must be folder or component")
		return
	}
	if created == nil {
		writeError(w, http.StatusNotFound, "parent folder not found")
		return
	}
	writeJSON(w, http.StatusCreated, rowFor(h.Tree.Snapshot(), created.ID))
}

// moveRequest is the body for POST /api/components/{id}/move.
type moveRequest struct {
	TargetFolderID string `json:"target_folder_id"`
}

// MoveComponent handles POST /api/components/{id}/move: the drop path.
// Rejected drops (unknown ids, non-folder target, cyclic move) leave the
// tree unchanged and report a conflict.
func (h *Handlers) MoveComponent(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "id")
	req, ok := readJSON[moveRequest](w, r)
	if !ok {
		return
	}
	if !h.Tree.HandleNodeDrop(nodeID, req.TargetFolderID) {
		writeError(w, http.StatusConflict, "move rejected")
		return
	}
	writeJSON(w, http.StatusOK, rowFor(h.Tree.Snapshot(), nodeID))
}

// ToggleFolder handles POST /api/components/{id}/toggle: flips a folder's
// expanded display flag.
func (h *Handlers) ToggleFolder(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "id")
	if !h.Tree.ToggleFolder(nodeID) {
		writeError(w, http.StatusNotFound, "folder not found")
		return
	}
	writeJSON(w, http.StatusOK, rowFor(h.Tree.Snapshot(), nodeID))
}

func validateRow(row tree.Row) string {
	switch row.Kind {
	case tree.KindFolder:
		if row.Content != nil || row.ComponentType != nil {
			return "folder rows must carry null content and component_type"
		}
	case tree.KindComponent:
		if row.Content == nil || row.ComponentType == nil {
			return "component rows must carry content and component_type"
		}
	default:
		return "row type must be folder or component"
	}
	if row.Name == "" {
		return "row name is required"
	}
	return ""
}

func rowFor(forest []*tree.Node, nodeID string) *tree.Row {
	for _, row := range tree.Flatten(forest) {
		if row.ID == nodeID {
			return &row
		}
	}
	return nil
}
