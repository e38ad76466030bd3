package tree

import "sort"

// Row is the flat, parent-linked representation of a node: the shape the
// SQLite store persists and GET /api/components returns. Content and
// ComponentType are null for folder rows and non-null for component rows.
type Row struct {
	ID            string  `json:"id"`
	ParentID      *string `json:"parent_id"`
	Name          string  `json:"name"`
	Kind          Kind    `json:"type"`
	SortOrder     int     `json:"sort_order"`
	Content       *string `json:"content"`
	ComponentType *string `json:"component_type"`
	Expanded      *bool   `json:"expanded,omitempty"`
}

// Flatten converts a forest to rows, depth-first, preserving sibling order
// via SortOrder.
func Flatten(forest []*Node) []Row {
	var rows []Row
	flattenInto(&rows, forest, nil)
	return rows
}

func flattenInto(rows *[]Row, nodes []*Node, parentID *string) {
	for i, n := range nodes {
		row := Row{
			ID:        n.ID,
			ParentID:  parentID,
			Name:      n.Name,
			Kind:      n.Kind,
			SortOrder: i,
			Expanded:  n.Expanded,
		}
		if !n.IsFolder() {
			content := n.Content
			ct := string(n.ComponentType)
			row.Content = &content
			row.ComponentType = &ct
		}
		*rows = append(*rows, row)
		if n.IsFolder() {
			pid := n.ID
			flattenInto(rows, n.Children, &pid)
		}
	}
}

// Build reconstructs a forest from flat rows. Siblings are ordered by
// SortOrder. Rows whose parent id does not resolve are appended at the top
// level rather than dropped.
func Build(rows []Row) []*Node {
	nodes := make(map[string]*Node, len(rows))
	order := make(map[string]int, len(rows))
	for _, r := range rows {
		n := &Node{ID: r.ID, Name: r.Name, Kind: r.Kind, Expanded: r.Expanded}
		if r.Kind == KindFolder {
			n.Children = []*Node{}
		} else {
			if r.Content != nil {
				n.Content = *r.Content
			}
			ct := ""
			if r.ComponentType != nil {
				ct = *r.ComponentType
			}
			n.ComponentType = ParseComponentType(ct)
		}
		nodes[r.ID] = n
		order[r.ID] = r.SortOrder
	}

	var roots []*Node
	for _, r := range rows {
		n := nodes[r.ID]
		if r.ParentID != nil {
			if parent, ok := nodes[*r.ParentID]; ok && parent.IsFolder() {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	sortSiblings(roots, order)
	for _, n := range nodes {
		if n.IsFolder() {
			sortSiblings(n.Children, order)
		}
	}
	return roots
}

func sortSiblings(nodes []*Node, order map[string]int) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return order[nodes[i].ID] < order[nodes[j].ID]
	})
}
