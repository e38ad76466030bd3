package tree

import "github.com/idavillc/prompt-builder/internal/domain/id"

// IsDescendant reports whether the node with the given id appears anywhere
// under ancestor's children. Used to block moves that would make a folder a
// descendant of itself.
func IsDescendant(ancestor *Node, nodeID string) bool {
	if ancestor == nil {
		return false
	}
	for _, child := range ancestor.Children {
		if child.ID == nodeID || IsDescendant(child, nodeID) {
			return true
		}
	}
	return false
}

// Find returns the first node in the forest with the given id, depth-first,
// or nil if no node matches.
func Find(forest []*Node, nodeID string) *Node {
	for _, n := range forest {
		if n.ID == nodeID {
			return n
		}
		if found := Find(n.Children, nodeID); found != nil {
			return found
		}
	}
	return nil
}

// Insert appends n to the children of the folder with id parentID and
// returns the new forest. Returns the input forest unchanged when parentID
// does not resolve or resolves to a component. The caller is responsible for
// having generated n's id.
func Insert(forest []*Node, parentID string, n *Node) []*Node {
	out, ok := insertUnder(forest, parentID, n)
	if !ok {
		return forest
	}
	return out
}

func insertUnder(nodes []*Node, parentID string, n *Node) ([]*Node, bool) {
	for i, node := range nodes {
		if node.ID == parentID {
			if !node.IsFolder() {
				return nil, false
			}
			cp := node.clone()
			cp.Children = append(append([]*Node{}, node.Children...), n)
			return replaceAt(nodes, i, cp), true
		}
		if kids, ok := insertUnder(node.Children, parentID, n); ok {
			cp := node.clone()
			cp.Children = kids
			return replaceAt(nodes, i, cp), true
		}
	}
	return nil, false
}

// Remove deletes the first node with the given id anywhere in the forest.
// A removed folder takes its entire subtree with it. Not-found is a no-op.
func Remove(forest []*Node, nodeID string) []*Node {
	out, _, ok := removeByID(forest, nodeID)
	if !ok {
		return forest
	}
	return out
}

func removeByID(nodes []*Node, nodeID string) ([]*Node, *Node, bool) {
	for i, node := range nodes {
		if node.ID == nodeID {
			out := make([]*Node, 0, len(nodes)-1)
			out = append(out, nodes[:i]...)
			out = append(out, nodes[i+1:]...)
			return out, node, true
		}
		if kids, removed, ok := removeByID(node.Children, nodeID); ok {
			cp := node.clone()
			cp.Children = kids
			return replaceAt(nodes, i, cp), removed, true
		}
	}
	return nil, nil, false
}

// Move detaches the node with id draggedID and appends it to the children of
// the folder with id targetFolderID. Fails closed — returning the input
// forest unchanged — when either id does not resolve or the target is not a
// folder. A target inside the dragged subtree also fails closed (it is gone
// from the forest once the subtree is detached), but callers are expected to
// check IsDescendant up front and reject the drop before calling Move.
func Move(forest []*Node, draggedID, targetFolderID string) []*Node {
	detached, dragged, ok := removeByID(forest, draggedID)
	if !ok {
		return forest
	}
	out, ok := insertUnder(detached, targetFolderID, dragged)
	if !ok {
		return forest
	}
	return out
}

// Patch is a shallow field merge applied by Update. Nil fields are left
// untouched.
type Patch struct {
	Name          *string
	Content       *string
	ComponentType *ComponentType
	Expanded      *bool
}

// Update applies patch to the node with the given id, leaving every other
// node referentially unchanged. Not-found is a no-op.
func Update(forest []*Node, nodeID string, patch Patch) []*Node {
	out, ok := updateIn(forest, nodeID, patch)
	if !ok {
		return forest
	}
	return out
}

func updateIn(nodes []*Node, nodeID string, patch Patch) ([]*Node, bool) {
	for i, node := range nodes {
		if node.ID == nodeID {
			cp := node.clone()
			if patch.Name != nil {
				cp.Name = *patch.Name
			}
			if patch.Content != nil {
				cp.Content = *patch.Content
			}
			if patch.ComponentType != nil {
				cp.ComponentType = *patch.ComponentType
			}
			if patch.Expanded != nil {
				expanded := *patch.Expanded
				cp.Expanded = &expanded
			}
			return replaceAt(nodes, i, cp), true
		}
		if kids, ok := updateIn(node.Children, nodeID, patch); ok {
			cp := node.clone()
			cp.Children = kids
			return replaceAt(nodes, i, cp), true
		}
	}
	return nil, false
}

// CloneWithNewIDs deep-copies n, replacing the id of every node in the
// subtree with a freshly generated one, so imported or duplicated content
// never collides with existing ids.
func CloneWithNewIDs(n *Node, gen id.Generator) *Node {
	return cloneRemap(n, gen, nil)
}

// cloneRemap is CloneWithNewIDs recording every old id -> new id pair into
// remap (when non-nil), so importers can re-resolve cross-references.
func cloneRemap(n *Node, gen id.Generator, remap map[string]string) *Node {
	cp := n.clone()
	cp.ID = gen()
	if remap != nil {
		remap[n.ID] = cp.ID
	}
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			cp.Children[i] = cloneRemap(child, gen, remap)
		}
	}
	return cp
}

// NormalizeExpansion gives every folder an explicit expanded flag, defaulting
// absent values to defaultExpanded. Applied after loading data from any
// source whose shape may predate the expanded field. Idempotent.
func NormalizeExpansion(forest []*Node, defaultExpanded bool) []*Node {
	out := make([]*Node, len(forest))
	for i, n := range forest {
		if !n.IsFolder() {
			out[i] = n
			continue
		}
		cp := n.clone()
		if cp.Expanded == nil {
			expanded := defaultExpanded
			cp.Expanded = &expanded
		}
		cp.Children = NormalizeExpansion(n.Children, defaultExpanded)
		out[i] = cp
	}
	return out
}

func replaceAt(nodes []*Node, i int, n *Node) []*Node {
	out := make([]*Node, len(nodes))
	copy(out, nodes)
	out[i] = n
	return out
}
