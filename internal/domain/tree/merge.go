package tree

import "github.com/idavillc/prompt-builder/internal/domain/id"

// Merge folds an incoming forest into an existing one. Names are the join
// key, not ids: imported libraries come from other sessions with no shared
// id space, so a same-name folder at the same level merges recursively, a
// same-name component at the same level is treated as a duplicate and
// dropped, and everything else is cloned with fresh ids and appended. Two
// different components sharing a name inside one folder therefore collapse
// to one — a documented ambiguity of name-based merging.
func Merge(existing, incoming []*Node, gen id.Generator) []*Node {
	return MergeRemap(existing, incoming, gen, nil)
}

// MergeRemap is Merge recording every incoming id -> merged id pair into
// remap (when non-nil). Cloned nodes map to their fresh ids; merged folders
// and dropped duplicate components map to the surviving existing node, so
// cross-references into the incoming forest can be re-resolved against the
// merge result.
func MergeRemap(existing, incoming []*Node, gen id.Generator, remap map[string]string) []*Node {
	out := make([]*Node, len(existing))
	copy(out, existing)

	for _, inc := range incoming {
		if inc.IsFolder() {
			if i := indexOfFolder(out, inc.Name); i >= 0 {
				if remap != nil {
					remap[inc.ID] = out[i].ID
				}
				cp := out[i].clone()
				cp.Children = MergeRemap(out[i].Children, inc.Children, gen, remap)
				out = replaceAt(out, i, cp)
				continue
			}
			out = append(out, cloneRemap(inc, gen, remap))
			continue
		}
		if dup := componentNamed(out, inc.Name); dup != nil {
			if remap != nil {
				remap[inc.ID] = dup.ID
			}
			continue
		}
		out = append(out, cloneRemap(inc, gen, remap))
	}
	return out
}

func indexOfFolder(nodes []*Node, name string) int {
	for i, n := range nodes {
		if n.IsFolder() && n.Name == name {
			return i
		}
	}
	return -1
}

func componentNamed(nodes []*Node, name string) *Node {
	for _, n := range nodes {
		if !n.IsFolder() && n.Name == name {
			return n
		}
	}
	return nil
}
