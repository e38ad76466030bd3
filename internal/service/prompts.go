package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/idavillc/prompt-builder/internal/domain/id"
	"github.com/idavillc/prompt-builder/internal/domain/prompt"
	"github.com/idavillc/prompt-builder/internal/domain/settings"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
	"github.com/idavillc/prompt-builder/internal/port/database"
	"github.com/idavillc/prompt-builder/internal/writeback"
)

// PromptService owns the live prompt collection plus the active prompt
// pointer. It mirrors TreeService's optimistic-update, debounced-persist
// pattern; the active pointer is the exception — it is UI focus rather than
// content, so it is persisted write-through under its own key.
type PromptService struct {
	log        *slog.Logger
	store      database.Store
	writer     *writeback.Writer
	gen        id.Generator
	settingsFn func() settings.Settings

	// updateComponent pushes section edits back onto the linked library
	// component ("save to library"). Wired to TreeService.UpdateNode.
	updateComponent func(nodeID string, patch tree.Patch) *tree.Node

	mu       sync.Mutex
	prompts  []prompt.Prompt
	activeID string
	ready    bool
}

// NewPromptService creates a PromptService. settingsFn supplies the current
// app settings (default names, section type, compile options).
func NewPromptService(store database.Store, writer *writeback.Writer, settingsFn func() settings.Settings, log *slog.Logger) *PromptService {
	return &PromptService{
		log:        log,
		store:      store,
		writer:     writer,
		gen:        id.New,
		settingsFn: settingsFn,
	}
}

// SetComponentUpdater wires the save-to-library path to the tree service.
func (s *PromptService) SetComponentUpdater(fn func(nodeID string, patch tree.Patch) *tree.Node) {
	s.updateComponent = fn
}

// Load brings the service to ready: store first, then the seed prompts
// (persisted immediately), then an empty collection. The active pointer is
// restored and validated against the loaded collection — a dangling pointer
// is silently cleared.
func (s *PromptService) Load(ctx context.Context, seed []prompt.Prompt) {
	prompts, err := s.store.ListPrompts(ctx)
	if err != nil {
		s.log.Warn("loading prompts failed, falling back to seed", "error", err)
		prompts = nil
	}
	if len(prompts) == 0 && len(seed) > 0 {
		prompts = seed
		if err := s.store.ReplacePrompts(ctx, prompts); err != nil {
			s.log.Error("seeding prompt store failed", "error", err)
		}
	}

	activeID, err := s.store.GetActivePromptID(ctx)
	if err != nil {
		s.log.Warn("loading active prompt pointer failed", "error", err)
		activeID = ""
	}
	if findPrompt(prompts, activeID) < 0 {
		activeID = ""
	}
	if activeID == "" && len(prompts) > 0 {
		activeID = prompts[0].ID
	}

	s.mu.Lock()
	s.prompts = prompts
	s.activeID = activeID
	s.ready = true
	s.mu.Unlock()
}

// Ready reports whether Load has completed.
func (s *PromptService) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// List returns the current prompt collection in order.
func (s *PromptService) List() []prompt.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]prompt.Prompt(nil), s.prompts...)
}

// Get returns the prompt with the given id.
func (s *PromptService) Get(promptID string) (prompt.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := findPrompt(s.prompts, promptID); i >= 0 {
		return s.prompts[i], true
	}
	return prompt.Prompt{}, false
}

// ActiveID returns the active prompt pointer ("" when none).
func (s *PromptService) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// SetActive points UI focus at the given prompt. Returns false when the id
// does not resolve; "" always succeeds and clears the pointer.
func (s *PromptService) SetActive(ctx context.Context, promptID string) bool {
	s.mu.Lock()
	if promptID != "" && findPrompt(s.prompts, promptID) < 0 {
		s.mu.Unlock()
		return false
	}
	s.activeID = promptID
	s.mu.Unlock()

	s.persistActive(ctx, promptID)
	return true
}

// Create allocates a new prompt named after name (or the configured default)
// with a running count, seeds it with one empty section of the configured
// default type, appends it and makes it active.
func (s *PromptService) Create(ctx context.Context, name string) prompt.Prompt {
	cfg := s.settingsFn()
	base := name
	if base == "" {
		base = cfg.DefaultPromptName
	}

	s.mu.Lock()
	num := len(s.prompts) + 1
	p := prompt.Prompt{
		ID:       s.gen(),
		Name:     fmt.Sprintf("%s %d", base, num),
		Num:      num,
		Sections: []prompt.Section{prompt.NewSection(s.gen(), cfg.DefaultSectionType)},
	}
	s.prompts = append(append([]prompt.Prompt(nil), s.prompts...), p)
	s.activeID = p.ID
	snapshot := s.prompts
	s.mu.Unlock()

	s.persistActive(ctx, p.ID)
	s.schedulePersist(snapshot)
	return p
}

// Duplicate deep-copies the prompt with fresh ids and reset dirty/transient
// state, appends it and makes it active. Returns false when the id does not
// resolve.
func (s *PromptService) Duplicate(ctx context.Context, promptID string) (prompt.Prompt, bool) {
	s.mu.Lock()
	i := findPrompt(s.prompts, promptID)
	if i < 0 {
		s.mu.Unlock()
		return prompt.Prompt{}, false
	}
	cp := prompt.Duplicate(s.prompts[i], s.gen)
	s.prompts = append(append([]prompt.Prompt(nil), s.prompts...), cp)
	s.activeID = cp.ID
	snapshot := s.prompts
	s.mu.Unlock()

	s.persistActive(ctx, cp.ID)
	s.schedulePersist(snapshot)
	return cp, true
}

// Delete removes the prompt and its sections. When the deleted prompt was
// active, the next available prompt in collection order becomes active, or
// the pointer clears if none remain.
func (s *PromptService) Delete(ctx context.Context, promptID string) bool {
	s.mu.Lock()
	i := findPrompt(s.prompts, promptID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]prompt.Prompt, 0, len(s.prompts)-1)
	next = append(next, s.prompts[:i]...)
	next = append(next, s.prompts[i+1:]...)
	s.prompts = next

	activeChanged := false
	if s.activeID == promptID {
		s.activeID = ""
		if len(next) > 0 {
			s.activeID = next[0].ID
		}
		activeChanged = true
	}
	activeID := s.activeID
	s.mu.Unlock()

	if activeChanged {
		s.persistActive(ctx, activeID)
	}
	s.schedulePersist(next)
	return true
}

// PromptPatch is the shallow field merge applied by Update (REST PUT
// semantics: provided fields replace, absent fields stay).
type PromptPatch struct {
	Name     *string
	Num      *int
	Sections *[]prompt.Section
}

// Update merges patch into the prompt. Returns the updated prompt, or false
// when the id does not resolve.
func (s *PromptService) Update(promptID string, patch PromptPatch) (prompt.Prompt, bool) {
	if patch.Name == nil && patch.Num == nil && patch.Sections == nil {
		return s.Get(promptID)
	}
	return s.applyPrompt(promptID, func(p prompt.Prompt) prompt.Prompt {
		cp := p.Clone()
		if patch.Name != nil {
			cp.Name = *patch.Name
		}
		if patch.Num != nil {
			cp.Num = *patch.Num
		}
		if patch.Sections != nil {
			cp.Sections = append([]prompt.Section(nil), (*patch.Sections)...)
		}
		return cp
	})
}

// AddSectionAt inserts section at the given index (clamped).
func (s *PromptService) AddSectionAt(promptID string, section prompt.Section, index int) (prompt.Prompt, bool) {
	return s.applyPrompt(promptID, func(p prompt.Prompt) prompt.Prompt {
		return prompt.InsertSectionAt(p, section, index)
	})
}

// AddNewSectionAt creates an empty section of the given type (or the
// configured default) at index (clamped) and returns its id.
func (s *PromptService) AddNewSectionAt(promptID string, sectionType tree.ComponentType, index int) (string, bool) {
	sectionType = s.normalizeType(sectionType)
	section := prompt.NewSection(s.gen(), sectionType)
	if _, ok := s.AddSectionAt(promptID, section, index); !ok {
		return "", false
	}
	return section.ID, true
}

// AddSection appends an empty section of the given type (or the configured
// default) and returns its id.
func (s *PromptService) AddSection(promptID string, sectionType tree.ComponentType) (string, bool) {
	section := prompt.NewSection(s.gen(), s.normalizeType(sectionType))
	_, ok := s.applyPrompt(promptID, func(p prompt.Prompt) prompt.Prompt {
		return prompt.InsertSectionAt(p, section, len(p.Sections))
	})
	if !ok {
		return "", false
	}
	return section.ID, true
}

// AddSectionForEditing appends an empty default-typed section already marked
// for inline header editing and returns its id so the caller can focus it.
func (s *PromptService) AddSectionForEditing(promptID string) (string, bool) {
	section := prompt.NewSection(s.gen(), s.settingsFn().DefaultSectionType)
	section.EditingHeader = true
	_, ok := s.applyPrompt(promptID, func(p prompt.Prompt) prompt.Prompt {
		return prompt.InsertSectionAt(p, section, len(p.Sections))
	})
	if !ok {
		return "", false
	}
	return section.ID, true
}

// DeleteSection removes a section from the prompt.
func (s *PromptService) DeleteSection(promptID, sectionID string) bool {
	_, ok := s.applyPrompt(promptID, func(p prompt.Prompt) prompt.Prompt {
		i := p.FindSection(sectionID)
		if i < 0 {
			return p
		}
		cp := p.Clone()
		cp.Sections = append(cp.Sections[:i], cp.Sections[i+1:]...)
		return cp
	})
	return ok
}

// MoveSectionTo reorders a section to newIndex (clamped).
func (s *PromptService) MoveSectionTo(promptID, sectionID string, newIndex int) bool {
	_, ok := s.applyPrompt(promptID, func(p prompt.Prompt) prompt.Prompt {
		return prompt.MoveSectionTo(p, sectionID, newIndex)
	})
	return ok
}

// MoveSectionUp moves a section one slot toward the front.
func (s *PromptService) MoveSectionUp(promptID, sectionID string) bool {
	return s.moveSectionBy(promptID, sectionID, -1)
}

// MoveSectionDown moves a section one slot toward the back.
func (s *PromptService) MoveSectionDown(promptID, sectionID string) bool {
	return s.moveSectionBy(promptID, sectionID, +1)
}

func (s *PromptService) moveSectionBy(promptID, sectionID string, delta int) bool {
	_, ok := s.applyPrompt(promptID, func(p prompt.Prompt) prompt.Prompt {
		i := p.FindSection(sectionID)
		if i < 0 {
			return p
		}
		return prompt.MoveSectionTo(p, sectionID, i+delta)
	})
	return ok
}

// UpdateSection merges patch into the section (see prompt.UpdateSection for
// the dirty-flag derivation rules).
func (s *PromptService) UpdateSection(promptID, sectionID string, patch prompt.SectionPatch) (prompt.Prompt, bool) {
	return s.applyPrompt(promptID, func(p prompt.Prompt) prompt.Prompt {
		return prompt.UpdateSection(p, sectionID, patch)
	})
}

// LinkSection links a section to a library component, pulling the
// component's canonical content/type/name in and clearing drift.
func (s *PromptService) LinkSection(promptID, sectionID string, component *tree.Node) bool {
	if component == nil || component.IsFolder() {
		return false
	}
	_, ok := s.applyPrompt(promptID, func(p prompt.Prompt) prompt.Prompt {
		i := p.FindSection(sectionID)
		if i < 0 {
			return p
		}
		cp := p.Clone()
		section := prompt.SyncFromComponent(cp.Sections[i], component)
		section.LinkedComponentID = component.ID
		cp.Sections[i] = section
		return cp
	})
	return ok
}

// SaveSectionToLibrary pushes a section's edited content, name and type back
// onto the component it is linked to, then resets the section's drift
// snapshot so it is no longer dirty. Returns false when the section is not
// linked or the component no longer exists.
func (s *PromptService) SaveSectionToLibrary(promptID, sectionID string) bool {
	if s.updateComponent == nil {
		return false
	}

	s.mu.Lock()
	i := findPrompt(s.prompts, promptID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	j := s.prompts[i].FindSection(sectionID)
	if j < 0 {
		s.mu.Unlock()
		return false
	}
	section := s.prompts[i].Sections[j]
	s.mu.Unlock()

	if section.LinkedComponentID == "" {
		return false
	}

	ct := section.Type
	if s.updateComponent(section.LinkedComponentID, tree.Patch{
		Name:          &section.Name,
		Content:       &section.Content,
		ComponentType: &ct,
	}) == nil {
		return false
	}

	// The tree change notification will re-sync the section, but do it
	// explicitly too so the result does not depend on subscriber wiring.
	_, ok := s.UpdateSection(promptID, sectionID, prompt.SectionPatch{
		OriginalContent: &section.Content,
	})
	return ok
}

// SyncWithTree is the drift watch: for every section linked to a component,
// the component's current canonical state is looked up in the given forest
// and pulled in when it drifted. A link whose component no longer exists is
// left in place untouched.
func (s *PromptService) SyncWithTree(forest []*tree.Node) {
	s.mu.Lock()
	changed := false
	next := append([]prompt.Prompt(nil), s.prompts...)
	for pi := range next {
		for si := range next[pi].Sections {
			section := next[pi].Sections[si]
			if section.LinkedComponentID == "" {
				continue
			}
			component := tree.Find(forest, section.LinkedComponentID)
			if component == nil || component.IsFolder() {
				continue
			}
			if !prompt.LinkedSectionStale(section, component) {
				continue
			}
			if !changed {
				for i := range next {
					next[i] = next[i].Clone()
				}
				changed = true
			}
			next[pi].Sections[si] = prompt.SyncFromComponent(section, component)
		}
	}
	if changed {
		s.prompts = next
	}
	snapshot := s.prompts
	s.mu.Unlock()

	if changed {
		s.schedulePersist(snapshot)
	}
}

// Compiled renders the prompt's export text using the current app settings.
func (s *PromptService) Compiled(promptID string) (string, bool) {
	p, ok := s.Get(promptID)
	if !ok {
		return "", false
	}
	cfg := s.settingsFn()
	return prompt.Compile(p, prompt.CompileOptions{
		Markdown:     cfg.MarkdownPrompting,
		SystemPrompt: cfg.SystemPrompt,
	}), true
}

// ReplaceAll swaps the whole collection (library import).
func (s *PromptService) ReplaceAll(prompts []prompt.Prompt) {
	s.mu.Lock()
	s.prompts = append([]prompt.Prompt(nil), prompts...)
	if findPrompt(s.prompts, s.activeID) < 0 {
		s.activeID = ""
		if len(s.prompts) > 0 {
			s.activeID = s.prompts[0].ID
		}
	}
	snapshot := s.prompts
	s.mu.Unlock()

	s.schedulePersist(snapshot)
}

// Append adds imported prompts to the end of the collection.
func (s *PromptService) Append(prompts []prompt.Prompt) {
	if len(prompts) == 0 {
		return
	}
	s.mu.Lock()
	s.prompts = append(append([]prompt.Prompt(nil), s.prompts...), prompts...)
	snapshot := s.prompts
	s.mu.Unlock()

	s.schedulePersist(snapshot)
}

// Flush forces any pending write through, used at shutdown.
func (s *PromptService) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// applyPrompt replaces the prompt with op's result. The pure operations fail
// closed by returning their input, so an identical result means a target
// inside the prompt did not resolve; that is reported as false with nothing
// persisted.
func (s *PromptService) applyPrompt(promptID string, op func(prompt.Prompt) prompt.Prompt) (prompt.Prompt, bool) {
	s.mu.Lock()
	i := findPrompt(s.prompts, promptID)
	if i < 0 {
		s.mu.Unlock()
		return prompt.Prompt{}, false
	}
	updated := op(s.prompts[i])
	if samePrompt(updated, s.prompts[i]) {
		s.mu.Unlock()
		return prompt.Prompt{}, false
	}
	next := append([]prompt.Prompt(nil), s.prompts...)
	next[i] = updated
	s.prompts = next
	snapshot := next
	s.mu.Unlock()

	s.schedulePersist(snapshot)
	return updated, true
}

// samePrompt reports whether b is the untouched input a (by section-slice
// identity), i.e. the operation was a no-op.
func samePrompt(a, b prompt.Prompt) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Num != b.Num || len(a.Sections) != len(b.Sections) {
		return false
	}
	return len(a.Sections) == 0 || &a.Sections[0] == &b.Sections[0]
}

func (s *PromptService) schedulePersist(snapshot []prompt.Prompt) {
	s.writer.Schedule(func(ctx context.Context) error {
		return s.store.ReplacePrompts(ctx, snapshot)
	})
}

func (s *PromptService) persistActive(ctx context.Context, promptID string) {
	if err := s.store.SetActivePromptID(ctx, promptID); err != nil {
		s.log.Error("persisting active prompt pointer failed", "error", err)
	}
}

// normalizeType substitutes the configured default for an empty type and the
// safe default for an unknown one.
func (s *PromptService) normalizeType(sectionType tree.ComponentType) tree.ComponentType {
	if sectionType == "" {
		return s.settingsFn().DefaultSectionType
	}
	return tree.ParseComponentType(string(sectionType))
}

func findPrompt(prompts []prompt.Prompt, promptID string) int {
	if promptID == "" {
		return -1
	}
	for i := range prompts {
		if prompts[i].ID == promptID {
			return i
		}
	}
	return -1
}
