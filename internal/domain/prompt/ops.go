package prompt

import (
	"github.com/idavillc/prompt-builder/internal/domain/id"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
)

// CopySuffix is appended to the name of a duplicated prompt.
const CopySuffix = " (copy)"

// NewSection returns an empty open section of the given type.
func NewSection(sectionID string, sectionType tree.ComponentType) Section {
	return Section{ID: sectionID, Name: "", Content: "", Type: sectionType, Open: true}
}

// Duplicate deep-copies p with fresh ids for the prompt and every section.
// Dirty flags and transient edit state are reset regardless of what the
// originals carried; the name gets the copy suffix.
func Duplicate(p Prompt, gen id.Generator) Prompt {
	cp := p.Clone()
	cp.ID = gen()
	cp.Name = p.Name + CopySuffix
	for i := range cp.Sections {
		cp.Sections[i].ID = gen()
		cp.Sections[i].Dirty = false
		cp.Sections[i].EditingHeader = false
		cp.Sections[i].EditName = ""
		cp.Sections[i].EditType = ""
	}
	return cp
}

// InsertSectionAt returns p with s inserted at index, clamped to the valid
// range.
func InsertSectionAt(p Prompt, s Section, index int) Prompt {
	cp := p.Clone()
	index = clamp(index, 0, len(cp.Sections))
	cp.Sections = append(cp.Sections, Section{})
	copy(cp.Sections[index+1:], cp.Sections[index:])
	cp.Sections[index] = s
	return cp
}

// MoveSectionTo reorders the section with the given id to newIndex, clamped
// to the valid range. Not-found is a no-op.
func MoveSectionTo(p Prompt, sectionID string, newIndex int) Prompt {
	from := p.FindSection(sectionID)
	if from < 0 {
		return p
	}
	cp := p.Clone()
	s := cp.Sections[from]
	cp.Sections = append(cp.Sections[:from], cp.Sections[from+1:]...)
	newIndex = clamp(newIndex, 0, len(cp.Sections))
	cp.Sections = append(cp.Sections, Section{})
	copy(cp.Sections[newIndex+1:], cp.Sections[newIndex:])
	cp.Sections[newIndex] = s
	return cp
}

// SectionPatch is a shallow field merge applied by UpdateSection. Nil fields
// are left untouched.
type SectionPatch struct {
	Name              *string
	Content           *string
	Type              *tree.ComponentType
	LinkedComponentID *string
	OriginalContent   *string
	Open              *bool
	Dirty             *bool
	EditingHeader     *bool
	EditName          *string
	EditType          *tree.ComponentType
}

// UpdateSection merges patch into the section with the given id, then
// recomputes Dirty. For a linked section dirtiness is a derived fact — drift
// of content from the library snapshot — so the post-merge content decides
// it and any Dirty value in the patch is overridden. For an unlinked section
// Dirty is whatever the caller explicitly set. Not-found is a no-op.
func UpdateSection(p Prompt, sectionID string, patch SectionPatch) Prompt {
	i := p.FindSection(sectionID)
	if i < 0 {
		return p
	}
	cp := p.Clone()
	s := &cp.Sections[i]
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Content != nil {
		s.Content = *patch.Content
	}
	if patch.Type != nil {
		s.Type = *patch.Type
	}
	if patch.LinkedComponentID != nil {
		s.LinkedComponentID = *patch.LinkedComponentID
	}
	if patch.OriginalContent != nil {
		s.OriginalContent = *patch.OriginalContent
	}
	if patch.Open != nil {
		s.Open = *patch.Open
	}
	if patch.EditingHeader != nil {
		s.EditingHeader = *patch.EditingHeader
	}
	if patch.EditName != nil {
		s.EditName = *patch.EditName
	}
	if patch.EditType != nil {
		s.EditType = *patch.EditType
	}
	if s.LinkedComponentID != "" {
		s.Dirty = s.Content != s.OriginalContent
	} else if patch.Dirty != nil {
		s.Dirty = *patch.Dirty
	}
	return cp
}

// SyncFromComponent pulls a linked component's current canonical state into
// the section one way: content, type and name are overwritten and
// OriginalContent resets to match, clearing drift.
func SyncFromComponent(s Section, c *tree.Node) Section {
	s.Content = c.Content
	s.OriginalContent = c.Content
	s.Type = c.ComponentType
	s.Name = c.Name
	s.Dirty = false
	return s
}

// LinkedSectionStale reports whether the section's last-synced state differs
// from the component's current canonical state.
func LinkedSectionStale(s Section, c *tree.Node) bool {
	return s.OriginalContent != c.Content || s.Type != c.ComponentType || s.Name != c.Name
}

// RemapLinks translates every section link through remap, for callers whose
// linked components were re-identified after parse (a merge import re-issues
// tree ids a second time). A link with no translation is cleared, freeing the
// section, rather than left pointing at an id absent from the forest.
func RemapLinks(prompts []Prompt, remap map[string]string) []Prompt {
	out := make([]Prompt, len(prompts))
	for i, p := range prompts {
		cp := p.Clone()
		for j := range cp.Sections {
			s := &cp.Sections[j]
			if s.LinkedComponentID == "" {
				continue
			}
			s.LinkedComponentID = remap[s.LinkedComponentID]
			if s.LinkedComponentID == "" {
				s.Dirty = false
			}
		}
		out[i] = cp
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
