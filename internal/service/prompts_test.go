package service

import (
	"context"
	"strings"
	"testing"

	"github.com/idavillc/prompt-builder/internal/domain/prompt"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
)

func newPromptService(store *fakeStore) *PromptService {
	return NewPromptService(store, manualWriter(), defaultSettings, testLogger())
}

func seedPrompts() []prompt.Prompt {
	return []prompt.Prompt{
		{ID: "p1", Name: "First", Num: 1, Sections: []prompt.Section{
			{ID: "s1", Name: "Architect", Content: "role body", Type: tree.TypeRole,
				LinkedComponentID: "c1", OriginalContent: "role body"},
			{ID: "s2", Name: "Notes", Content: "free text", Type: tree.TypeContext},
		}},
		{ID: "p2", Name: "Second", Num: 2},
	}
}

func TestPromptLoadRestoresPointer(t *testing.T) {
	store := &fakeStore{prompts: seedPrompts(), activeID: "p2"}
	svc := newPromptService(store)

	svc.Load(context.Background(), nil)

	if !svc.Ready() {
		t.Fatal("not ready after load")
	}
	if svc.ActiveID() != "p2" {
		t.Fatalf("active = %q, want p2", svc.ActiveID())
	}
}

func TestPromptLoadClearsDanglingPointer(t *testing.T) {
	store := &fakeStore{prompts: seedPrompts(), activeID: "deleted-long-ago"}
	svc := newPromptService(store)

	svc.Load(context.Background(), nil)

	// A dangling pointer falls back to the first prompt.
	if svc.ActiveID() != "p1" {
		t.Fatalf("active = %q, want p1", svc.ActiveID())
	}
}

func TestPromptLoadSeedsEmptyStore(t *testing.T) {
	store := &fakeStore{}
	svc := newPromptService(store)

	svc.Load(context.Background(), seedPrompts())

	if len(svc.List()) != 2 {
		t.Fatal("seed not loaded")
	}
	if len(store.storedPrompts()) != 2 {
		t.Fatal("seed not persisted immediately")
	}
	if svc.ActiveID() != "p1" {
		t.Fatalf("active = %q, want first seeded prompt", svc.ActiveID())
	}
}

func TestPromptLoadFailureFallsBackEmpty(t *testing.T) {
	store := &fakeStore{failReads: true}
	svc := newPromptService(store)

	svc.Load(context.Background(), nil)

	if !svc.Ready() || len(svc.List()) != 0 || svc.ActiveID() != "" {
		t.Fatal("expected an empty ready collection")
	}
}

func TestPromptCreate(t *testing.T) {
	store := &fakeStore{}
	svc := newPromptService(store)
	svc.Load(context.Background(), nil)

	p := svc.Create(context.Background(), "")

	if p.Name != "New Prompt 1" {
		t.Fatalf("name = %q", p.Name)
	}
	if p.Num != 1 {
		t.Fatalf("num = %d", p.Num)
	}
	if len(p.Sections) != 1 || p.Sections[0].Type != tree.TypeInstruction {
		t.Fatalf("seeded sections = %+v", p.Sections)
	}
	if svc.ActiveID() != p.ID {
		t.Fatal("new prompt not active")
	}

	named := svc.Create(context.Background(), "Review")
	if named.Name != "Review 2" {
		t.Fatalf("name = %q, want Review 2", named.Name)
	}
}

func TestPromptDuplicate(t *testing.T) {
	svc := newPromptService(&fakeStore{prompts: seedPrompts()})
	svc.Load(context.Background(), nil)

	cp, ok := svc.Duplicate(context.Background(), "p1")
	if !ok {
		t.Fatal("Duplicate failed")
	}
	if cp.ID == "p1" || !strings.HasSuffix(cp.Name, prompt.CopySuffix) {
		t.Fatalf("copy = %+v", cp)
	}
	if svc.ActiveID() != cp.ID {
		t.Fatal("copy not active")
	}
	if len(svc.List()) != 3 {
		t.Fatal("copy not appended")
	}

	if _, ok := svc.Duplicate(context.Background(), "nope"); ok {
		t.Fatal("duplicating a missing prompt should fail")
	}
}

func TestPromptDeleteFixesActivePointer(t *testing.T) {
	store := &fakeStore{prompts: seedPrompts(), activeID: "p1"}
	svc := newPromptService(store)
	svc.Load(context.Background(), nil)

	if !svc.Delete(context.Background(), "p1") {
		t.Fatal("Delete failed")
	}
	if svc.ActiveID() != "p2" {
		t.Fatalf("active = %q, want next prompt p2", svc.ActiveID())
	}

	if !svc.Delete(context.Background(), "p2") {
		t.Fatal("Delete failed")
	}
	if svc.ActiveID() != "" {
		t.Fatal("pointer should clear when no prompts remain")
	}
}

func TestPromptDeleteKeepsUnrelatedPointer(t *testing.T) {
	store := &fakeStore{prompts: seedPrompts(), activeID: "p2"}
	svc := newPromptService(store)
	svc.Load(context.Background(), nil)

	svc.Delete(context.Background(), "p1")
	if svc.ActiveID() != "p2" {
		t.Fatal("deleting a non-active prompt moved the pointer")
	}
}

func TestPromptUpdate(t *testing.T) {
	svc := newPromptService(&fakeStore{prompts: seedPrompts()})
	svc.Load(context.Background(), nil)

	name := "Renamed"
	p, ok := svc.Update("p1", PromptPatch{Name: &name})
	if !ok || p.Name != "Renamed" {
		t.Fatalf("Update = %+v, %v", p, ok)
	}
	if len(p.Sections) != 2 {
		t.Fatal("unpatched sections changed")
	}

	if _, ok := svc.Update("nope", PromptPatch{Name: &name}); ok {
		t.Fatal("updating a missing prompt should fail")
	}

	// An empty patch reads back the current prompt.
	same, ok := svc.Update("p1", PromptPatch{})
	if !ok || same.Name != "Renamed" {
		t.Fatalf("empty patch = %+v, %v", same, ok)
	}
}

func TestPromptSectionLifecycle(t *testing.T) {
	svc := newPromptService(&fakeStore{prompts: seedPrompts()})
	svc.Load(context.Background(), nil)

	sid, ok := svc.AddSection("p2", tree.TypeFormat)
	if !ok || sid == "" {
		t.Fatal("AddSection failed")
	}

	atFront, ok := svc.AddNewSectionAt("p2", "", 0)
	if !ok {
		t.Fatal("AddNewSectionAt failed")
	}
	p, _ := svc.Get("p2")
	if p.Sections[0].ID != atFront {
		t.Fatal("indexed section not at front")
	}
	// Empty type falls back to the configured default.
	if p.Sections[0].Type != tree.TypeInstruction {
		t.Fatalf("type = %q", p.Sections[0].Type)
	}

	editing, ok := svc.AddSectionForEditing("p2")
	if !ok {
		t.Fatal("AddSectionForEditing failed")
	}
	p, _ = svc.Get("p2")
	if got := p.Sections[p.FindSection(editing)]; !got.EditingHeader {
		t.Fatal("section not marked for editing")
	}

	if !svc.MoveSectionTo("p2", sid, 0) {
		t.Fatal("MoveSectionTo failed")
	}
	p, _ = svc.Get("p2")
	if p.Sections[0].ID != sid {
		t.Fatal("section not moved to front")
	}
	if !svc.MoveSectionDown("p2", sid) {
		t.Fatal("MoveSectionDown failed")
	}
	if !svc.MoveSectionUp("p2", sid) {
		t.Fatal("MoveSectionUp failed")
	}

	if !svc.DeleteSection("p2", sid) {
		t.Fatal("DeleteSection failed")
	}
	if svc.DeleteSection("p2", sid) {
		t.Fatal("deleting a gone section should fail")
	}
	if svc.DeleteSection("nope", "x") {
		t.Fatal("deleting from a missing prompt should fail")
	}
}

func TestPromptLinkSection(t *testing.T) {
	svc := newPromptService(&fakeStore{prompts: seedPrompts()})
	svc.Load(context.Background(), nil)

	component := tree.NewComponent("c9", "Style guide", "be terse", tree.TypeStyle)

	if !svc.LinkSection("p1", "s2", component) {
		t.Fatal("LinkSection failed")
	}
	p, _ := svc.Get("p1")
	got := p.Sections[p.FindSection("s2")]
	if got.LinkedComponentID != "c9" || got.Content != "be terse" ||
		got.OriginalContent != "be terse" || got.Type != tree.TypeStyle || got.Name != "Style guide" {
		t.Fatalf("linked section = %+v", got)
	}
	if got.Dirty {
		t.Fatal("freshly linked section must not be dirty")
	}

	if svc.LinkSection("p1", "s2", tree.NewFolder("f", "X")) {
		t.Fatal("linking to a folder should fail")
	}
	if svc.LinkSection("p1", "s2", nil) {
		t.Fatal("linking to nil should fail")
	}
}

func TestPromptSyncWithTree(t *testing.T) {
	store := &fakeStore{prompts: seedPrompts()}
	svc := newPromptService(store)
	svc.Load(context.Background(), nil)

	// The linked component drifted in the library.
	forest := []*tree.Node{tree.NewComponent("c1", "Architect v2", "new body", tree.TypeRole)}
	svc.SyncWithTree(forest)

	p, _ := svc.Get("p1")
	got := p.Sections[0]
	if got.Content != "new body" || got.OriginalContent != "new body" || got.Name != "Architect v2" {
		t.Fatalf("section not synced: %+v", got)
	}
	if got.Dirty {
		t.Fatal("synced section must not be dirty")
	}

	// A link whose component vanished is left in place.
	svc.SyncWithTree([]*tree.Node{})
	p, _ = svc.Get("p1")
	if p.Sections[0].LinkedComponentID != "c1" || p.Sections[0].Content != "new body" {
		t.Fatal("stale link was touched")
	}
}

func TestPromptSaveSectionToLibrary(t *testing.T) {
	treeStore := &fakeStore{}
	treeSvc := newTreeService(treeStore)

	store := &fakeStore{prompts: seedPrompts()}
	svc := newPromptService(store)
	treeSvc.OnChange(svc.SyncWithTree)
	svc.SetComponentUpdater(treeSvc.UpdateNode)

	doc := seededDoc(t)
	treeSvc.Load(context.Background(), doc)
	svc.Load(context.Background(), nil)

	// Point the seeded section's link at the real component id.
	var componentID string
	var walk func(nodes []*tree.Node)
	walk = func(nodes []*tree.Node) {
		for _, n := range nodes {
			if !n.IsFolder() {
				componentID = n.ID
				return
			}
			walk(n.Children)
		}
	}
	walk(treeSvc.Snapshot())

	link := componentID
	if _, ok := svc.UpdateSection("p1", "s1", prompt.SectionPatch{LinkedComponentID: &link}); !ok {
		t.Fatal("relinking failed")
	}

	// Drift the section, then push it back to the library.
	edited := "edited in the prompt"
	svc.UpdateSection("p1", "s1", prompt.SectionPatch{Content: &edited})
	p, _ := svc.Get("p1")
	if !p.Sections[0].Dirty {
		t.Fatal("drifted section should be dirty")
	}

	if !svc.SaveSectionToLibrary("p1", "s1") {
		t.Fatal("SaveSectionToLibrary failed")
	}

	if got := treeSvc.Find(componentID); got.Content != edited {
		t.Fatalf("component content = %q, want %q", got.Content, edited)
	}
	p, _ = svc.Get("p1")
	if p.Sections[0].Dirty {
		t.Fatal("section still dirty after save")
	}

	// Unlinked sections cannot be saved.
	if svc.SaveSectionToLibrary("p1", "s2") {
		t.Fatal("saving an unlinked section should fail")
	}
}

func TestPromptCompiled(t *testing.T) {
	svc := newPromptService(&fakeStore{prompts: seedPrompts()})
	svc.Load(context.Background(), nil)

	text, ok := svc.Compiled("p1")
	if !ok {
		t.Fatal("Compiled failed")
	}
	// Defaults enable markdown prompting with a system prompt.
	if !strings.HasPrefix(text, "You are a helpful assistant.") {
		t.Fatalf("compiled text missing system prompt: %q", text)
	}
	if !strings.Contains(text, "# Role: Architect") {
		t.Fatalf("compiled text missing section heading: %q", text)
	}

	if _, ok := svc.Compiled("nope"); ok {
		t.Fatal("compiling a missing prompt should fail")
	}
}

func TestPromptReplaceAllFixesPointer(t *testing.T) {
	store := &fakeStore{prompts: seedPrompts(), activeID: "p1"}
	svc := newPromptService(store)
	svc.Load(context.Background(), nil)

	svc.ReplaceAll([]prompt.Prompt{{ID: "x1", Name: "Imported"}})

	if svc.ActiveID() != "x1" {
		t.Fatalf("active = %q, want x1", svc.ActiveID())
	}
	if len(svc.List()) != 1 {
		t.Fatal("collection not replaced")
	}
}

func TestPromptAppend(t *testing.T) {
	store := &fakeStore{prompts: seedPrompts()}
	svc := newPromptService(store)
	svc.Load(context.Background(), nil)

	svc.Append([]prompt.Prompt{{ID: "x1", Name: "Imported"}})
	if len(svc.List()) != 3 {
		t.Fatal("prompt not appended")
	}

	// Appending nothing schedules nothing.
	svc.Append(nil)
	if len(svc.List()) != 3 {
		t.Fatal("empty append changed the collection")
	}
}

func TestPromptPersistIsDebounced(t *testing.T) {
	store := &fakeStore{prompts: seedPrompts()}
	svc := newPromptService(store)
	svc.Load(context.Background(), nil)

	name := "Renamed"
	svc.Update("p1", PromptPatch{Name: &name})

	if store.storedPrompts()[0].Name == "Renamed" {
		t.Fatal("write hit the store before flush")
	}
	if err := svc.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if store.storedPrompts()[0].Name != "Renamed" {
		t.Fatal("trailing snapshot not flushed")
	}
}
