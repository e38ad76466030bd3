package prompt

import (
	"fmt"
	"testing"

	"github.com/idavillc/prompt-builder/internal/domain/tree"
)

func seqGen() func() string {
	i := 0
	return func() string {
		i++
		return fmt.Sprintf("gen%d", i)
	}
}

func samplePrompt() Prompt {
	return Prompt{
		ID:   "p1",
		Name: "Review helper",
		Num:  1,
		Sections: []Section{
			{ID: "s1", Name: "Architect", Content: "role body", Type: tree.TypeRole,
				LinkedComponentID: "c1", OriginalContent: "role body"},
			{ID: "s2", Name: "Notes", Content: "free text", Type: tree.TypeContext},
		},
	}
}

func TestDuplicate(t *testing.T) {
	p := samplePrompt()
	p.Sections[0].Dirty = true
	p.Sections[1].EditingHeader = true
	p.Sections[1].EditName = "renaming"

	cp := Duplicate(p, seqGen())

	if cp.ID == p.ID {
		t.Fatal("prompt id not replaced")
	}
	if cp.Name != "Review helper (copy)" {
		t.Fatalf("name = %q", cp.Name)
	}
	for i := range cp.Sections {
		if cp.Sections[i].ID == p.Sections[i].ID {
			t.Fatalf("section %d kept its id", i)
		}
		if cp.Sections[i].Dirty || cp.Sections[i].EditingHeader || cp.Sections[i].EditName != "" {
			t.Fatalf("section %d carried transient state into the copy", i)
		}
	}
	// The link itself survives duplication.
	if cp.Sections[0].LinkedComponentID != "c1" {
		t.Fatal("linked component reference lost")
	}
	if p.Sections[0].ID != "s1" {
		t.Fatal("input prompt was mutated")
	}
}

func TestInsertSectionAtClamps(t *testing.T) {
	p := samplePrompt()

	tests := []struct {
		name  string
		index int
		want  int // resulting position
	}{
		{"front", 0, 0},
		{"middle", 1, 1},
		{"past end", 99, 2},
		{"negative", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := InsertSectionAt(p, NewSection("new", tree.TypeFormat), tt.index)
			if len(out.Sections) != 3 {
				t.Fatalf("got %d sections, want 3", len(out.Sections))
			}
			if out.Sections[tt.want].ID != "new" {
				t.Fatalf("section landed at wrong index")
			}
			if len(p.Sections) != 2 {
				t.Fatal("input prompt was mutated")
			}
		})
	}
}

func TestMoveSectionTo(t *testing.T) {
	p := samplePrompt()

	out := MoveSectionTo(p, "s2", 0)
	if out.Sections[0].ID != "s2" || out.Sections[1].ID != "s1" {
		t.Fatalf("order after move: %q, %q", out.Sections[0].ID, out.Sections[1].ID)
	}

	clamped := MoveSectionTo(p, "s1", 99)
	if clamped.Sections[1].ID != "s1" {
		t.Fatal("past-end index not clamped to last position")
	}

	same := MoveSectionTo(p, "nope", 0)
	if same.Sections[0].ID != "s1" {
		t.Fatal("missing section should be a no-op")
	}
}

func TestUpdateSectionDirtyDerivation(t *testing.T) {
	explicitTrue := true
	explicitFalse := false
	drifted := "edited body"
	original := "role body"

	tests := []struct {
		name      string
		sectionID string
		patch     SectionPatch
		wantDirty bool
	}{
		{"linked content drift sets dirty", "s1", SectionPatch{Content: &drifted}, true},
		{"linked content matching snapshot clears dirty", "s1", SectionPatch{Content: &original}, false},
		{"linked overrides explicit dirty false", "s1", SectionPatch{Content: &drifted, Dirty: &explicitFalse}, true},
		{"linked overrides explicit dirty true", "s1", SectionPatch{Dirty: &explicitTrue}, false},
		{"unlinked takes caller dirty", "s2", SectionPatch{Dirty: &explicitTrue}, true},
		{"unlinked without dirty keeps previous", "s2", SectionPatch{Content: &drifted}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := UpdateSection(samplePrompt(), tt.sectionID, tt.patch)
			got := out.Sections[out.FindSection(tt.sectionID)]
			if got.Dirty != tt.wantDirty {
				t.Fatalf("dirty = %v, want %v", got.Dirty, tt.wantDirty)
			}
		})
	}
}

func TestUpdateSectionNotFoundIsNoOp(t *testing.T) {
	p := samplePrompt()
	name := "x"
	out := UpdateSection(p, "nope", SectionPatch{Name: &name})
	if len(out.Sections) != 2 || out.Sections[0].Name != "Architect" {
		t.Fatal("missing section should leave the prompt unchanged")
	}
}

func TestSyncFromComponent(t *testing.T) {
	s := Section{ID: "s1", Name: "Old", Content: "edited", Type: tree.TypeContext,
		LinkedComponentID: "c1", OriginalContent: "stale", Dirty: true}
	c := tree.NewComponent("c1", "Architect", "canonical body", tree.TypeRole)

	got := SyncFromComponent(s, c)

	if got.Content != "canonical body" || got.OriginalContent != "canonical body" {
		t.Fatalf("content not synced: %q / %q", got.Content, got.OriginalContent)
	}
	if got.Name != "Architect" || got.Type != tree.TypeRole {
		t.Fatalf("name/type not synced: %q / %q", got.Name, got.Type)
	}
	if got.Dirty {
		t.Fatal("sync should clear dirty")
	}
}

func TestLinkedSectionStale(t *testing.T) {
	c := tree.NewComponent("c1", "Architect", "body", tree.TypeRole)
	fresh := Section{Name: "Architect", OriginalContent: "body", Type: tree.TypeRole}

	if LinkedSectionStale(fresh, c) {
		t.Fatal("matching section reported stale")
	}

	renamed := fresh
	renamed.Name = "Other"
	if !LinkedSectionStale(renamed, c) {
		t.Fatal("renamed component not reported stale")
	}

	edited := fresh
	edited.OriginalContent = "old body"
	if !LinkedSectionStale(edited, c) {
		t.Fatal("content drift not reported stale")
	}
}

func TestRemapLinks(t *testing.T) {
	prompts := []Prompt{{ID: "p", Name: "Review", Sections: []Section{
		{ID: "s1", LinkedComponentID: "old", Content: "drift", OriginalContent: "base", Dirty: true},
		{ID: "s2", Content: "free text"},
		{ID: "s3", LinkedComponentID: "gone", Dirty: true},
	}}}

	out := RemapLinks(prompts, map[string]string{"old": "new"})

	if got := out[0].Sections[0].LinkedComponentID; got != "new" {
		t.Fatalf("link = %q, want translated id", got)
	}
	if !out[0].Sections[0].Dirty {
		t.Fatal("translated link lost its dirty flag")
	}
	if out[0].Sections[1].LinkedComponentID != "" {
		t.Fatal("unlinked section grew a link")
	}
	if s := out[0].Sections[2]; s.LinkedComponentID != "" || s.Dirty {
		t.Fatalf("untranslatable link was not cleared: %+v", s)
	}
	if prompts[0].Sections[0].LinkedComponentID != "old" {
		t.Fatal("input prompt mutated")
	}
}
