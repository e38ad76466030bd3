// Package prompt defines prompts — ordered lists of sections — and the pure
// operations over them. Like the tree operations, everything here returns
// new values and leaves its inputs untouched.
package prompt

import "github.com/idavillc/prompt-builder/internal/domain/tree"

// Section is one ordered slice of a prompt. A section may hold a weak
// reference to a library component via LinkedComponentID; the component can
// be deleted or edited independently. OriginalContent snapshots the linked
// component's content at last sync and drives the Dirty flag.
type Section struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Content           string             `json:"content"`
	Type              tree.ComponentType `json:"type"`
	LinkedComponentID string             `json:"linkedComponentId,omitempty"`
	OriginalContent   string             `json:"originalContent,omitempty"`
	Open              bool               `json:"open"`
	Dirty             bool               `json:"dirty"`

	// In-progress header-edit state. Exists only while a user is renaming a
	// section; never persisted.
	EditingHeader bool               `json:"-"`
	EditName      string             `json:"-"`
	EditType      tree.ComponentType `json:"-"`
}

// Prompt owns its sections exclusively: deleting a prompt deletes them.
// Num is a user-facing sequence number and is not required to be unique.
type Prompt struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Num      int       `json:"num"`
	Sections []Section `json:"sections"`
}

// Clone returns a deep copy of p.
func (p Prompt) Clone() Prompt {
	cp := p
	cp.Sections = append([]Section(nil), p.Sections...)
	return cp
}

// FindSection returns the index of the section with the given id, or -1.
func (p Prompt) FindSection(sectionID string) int {
	for i := range p.Sections {
		if p.Sections[i].ID == sectionID {
			return i
		}
	}
	return -1
}
