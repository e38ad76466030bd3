// Package service implements the synchronization controllers: each owns a
// live in-memory snapshot, applies the pure domain operations optimistically,
// and coalesces persistence into debounced whole-collection writes.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/idavillc/prompt-builder/internal/domain/id"
	"github.com/idavillc/prompt-builder/internal/domain/library"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
	"github.com/idavillc/prompt-builder/internal/port/database"
	"github.com/idavillc/prompt-builder/internal/writeback"
)

// TreeService owns the live component forest. Mutations run synchronously
// against the current snapshot and swap it atomically; the store only ever
// sees the trailing snapshot of an edit burst. Persist failures are logged
// and the session continues on in-memory state — there is no rollback.
type TreeService struct {
	log    *slog.Logger
	store  database.Store
	writer *writeback.Writer
	gen    id.Generator

	mu     sync.Mutex
	forest []*tree.Node
	ready  bool

	onChange []func([]*tree.Node)
}

// NewTreeService creates a TreeService persisting through store via writer.
func NewTreeService(store database.Store, writer *writeback.Writer, log *slog.Logger) *TreeService {
	return &TreeService{
		log:    log,
		store:  store,
		writer: writer,
		gen:    id.New,
	}
}

// OnChange registers fn to run with the new snapshot after every committed
// mutation. Register before Load; subscribers are invoked outside the
// service lock.
func (s *TreeService) OnChange(fn func([]*tree.Node)) {
	s.onChange = append(s.onChange, fn)
}

// Load brings the service to ready: store first, then the given seed
// document (persisted immediately so the store is populated for next time),
// then a bare root folder. Every fallback level degrades, none hangs — the
// service always reaches ready. Returns true when the seed was used.
func (s *TreeService) Load(ctx context.Context, seed *library.Document) bool {
	rows, err := s.store.ListComponents(ctx)
	if err != nil {
		s.log.Warn("loading component tree failed, falling back to starter library", "error", err)
	}

	usedSeed := false
	var forest []*tree.Node
	switch {
	case err == nil && len(rows) > 0:
		forest = tree.NormalizeExpansion(tree.Build(rows), true)
	case seed != nil:
		forest = seed.Tree
		usedSeed = true
		if err := s.store.ReplaceComponents(ctx, tree.Flatten(forest)); err != nil {
			s.log.Error("seeding component store failed", "error", err)
		}
	default:
		forest = []*tree.Node{tree.NewFolder(s.gen(), tree.RootFolderName)}
	}

	s.mu.Lock()
	s.forest = forest
	s.ready = true
	s.mu.Unlock()
	return usedSeed
}

// Ready reports whether Load has completed.
func (s *TreeService) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Snapshot returns the current immutable forest. Callers must not mutate it.
func (s *TreeService) Snapshot() []*tree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest
}

// Find returns the node with the given id from the current snapshot, or nil.
func (s *TreeService) Find(nodeID string) *tree.Node {
	return tree.Find(s.Snapshot(), nodeID)
}

// AddFolder appends a new folder under parentID. Returns nil when parentID
// does not resolve to a folder.
func (s *TreeService) AddFolder(parentID, name string) *tree.Node {
	n := tree.NewFolder(s.gen(), name)
	if !s.apply(func(f []*tree.Node) []*tree.Node { return tree.Insert(f, parentID, n) }) {
		return nil
	}
	return n
}

// AddComponent appends a new component under parentID. Returns nil when
// parentID does not resolve to a folder.
func (s *TreeService) AddComponent(parentID, name, content string, ct tree.ComponentType) *tree.Node {
	n := tree.NewComponent(s.gen(), name, content, ct)
	if !s.apply(func(f []*tree.Node) []*tree.Node { return tree.Insert(f, parentID, n) }) {
		return nil
	}
	return n
}

// UpdateNode shallow-merges patch into the node with the given id and
// returns the updated node, or nil when the id does not resolve.
func (s *TreeService) UpdateNode(nodeID string, patch tree.Patch) *tree.Node {
	if !s.apply(func(f []*tree.Node) []*tree.Node { return tree.Update(f, nodeID, patch) }) {
		return nil
	}
	return s.Find(nodeID)
}

// DeleteNode removes the node (recursively, for folders). Returns false when
// the id does not resolve.
func (s *TreeService) DeleteNode(nodeID string) bool {
	return s.apply(func(f []*tree.Node) []*tree.Node { return tree.Remove(f, nodeID) })
}

// ToggleFolder flips a folder's expanded display flag.
func (s *TreeService) ToggleFolder(nodeID string) bool {
	s.mu.Lock()
	n := tree.Find(s.forest, nodeID)
	s.mu.Unlock()
	if !n.IsFolder() {
		return false
	}
	expanded := n.Expanded == nil || !*n.Expanded
	return s.apply(func(f []*tree.Node) []*tree.Node {
		return tree.Update(f, nodeID, tree.Patch{Expanded: &expanded})
	})
}

// HandleNodeDrop moves the dragged node into the target folder. The drop is
// rejected — forest unchanged, false returned — when either id does not
// resolve, when the target is not a folder, or when the dragged node is a
// folder and the target is itself or one of its descendants (a cycle).
func (s *TreeService) HandleNodeDrop(draggedID, targetID string) bool {
	s.mu.Lock()
	dragged := tree.Find(s.forest, draggedID)
	target := tree.Find(s.forest, targetID)
	s.mu.Unlock()

	if dragged == nil || target == nil || !target.IsFolder() {
		return false
	}
	if dragged.IsFolder() && (draggedID == targetID || tree.IsDescendant(dragged, targetID)) {
		return false
	}
	return s.apply(func(f []*tree.Node) []*tree.Node { return tree.Move(f, draggedID, targetID) })
}

// ReplaceTree swaps the whole forest (POST /api/components, import-replace).
func (s *TreeService) ReplaceTree(forest []*tree.Node) {
	s.apply(func([]*tree.Node) []*tree.Node {
		return tree.NormalizeExpansion(forest, true)
	})
}

// MergeLibrary folds an imported document's tree into the live forest by
// name (see tree.Merge) and returns the translation from the document's ids
// to the ids now in the forest. The merge clones incoming nodes with fresh
// ids, so the document's prompt links must be re-resolved through the
// returned table before they are appended.
func (s *TreeService) MergeLibrary(doc *library.Document) map[string]string {
	remap := make(map[string]string)
	s.apply(func(f []*tree.Node) []*tree.Node { return tree.MergeRemap(f, doc.Tree, s.gen, remap) })
	return remap
}

// Flush forces any pending write through, used at shutdown.
func (s *TreeService) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// apply runs op against the current snapshot under the lock, commits the
// result if it changed, and schedules a debounced persist plus change
// notifications. Returns false when op left the forest untouched.
func (s *TreeService) apply(op func([]*tree.Node) []*tree.Node) bool {
	s.mu.Lock()
	next := op(s.forest)
	if sameForest(next, s.forest) {
		s.mu.Unlock()
		return false
	}
	s.forest = next
	s.mu.Unlock()

	s.schedulePersist(next)
	for _, fn := range s.onChange {
		fn(next)
	}
	return true
}

func (s *TreeService) schedulePersist(snapshot []*tree.Node) {
	s.writer.Schedule(func(ctx context.Context) error {
		return s.store.ReplaceComponents(ctx, tree.Flatten(snapshot))
	})
}

// sameForest reports whether two snapshots are identical by node identity.
// The pure operations fail closed by returning their input, so an unchanged
// slice means the operation was a no-op.
func sameForest(a, b []*tree.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
