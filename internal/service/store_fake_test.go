package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/idavillc/prompt-builder/internal/domain"
	"github.com/idavillc/prompt-builder/internal/domain/prompt"
	"github.com/idavillc/prompt-builder/internal/domain/settings"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
	"github.com/idavillc/prompt-builder/internal/writeback"
)

// fakeStore is an in-memory database.Store for service tests.
type fakeStore struct {
	mu         sync.Mutex
	components []tree.Row
	prompts    []prompt.Prompt
	settings   *settings.Settings
	activeID   string

	failReads bool
}

var errStoreDown = errors.New("store down")

func (f *fakeStore) ListComponents(context.Context) ([]tree.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, errStoreDown
	}
	return append([]tree.Row(nil), f.components...), nil
}

func (f *fakeStore) ReplaceComponents(_ context.Context, rows []tree.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.components = append([]tree.Row(nil), rows...)
	return nil
}

func (f *fakeStore) ListPrompts(context.Context) ([]prompt.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, errStoreDown
	}
	return append([]prompt.Prompt(nil), f.prompts...), nil
}

func (f *fakeStore) ReplacePrompts(_ context.Context, prompts []prompt.Prompt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append([]prompt.Prompt(nil), prompts...)
	return nil
}

func (f *fakeStore) GetSettings(context.Context) (*settings.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, errStoreDown
	}
	if f.settings == nil {
		return nil, domain.ErrNotFound
	}
	cp := *f.settings
	return &cp, nil
}

func (f *fakeStore) SaveSettings(_ context.Context, s settings.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = &s
	return nil
}

func (f *fakeStore) GetActivePromptID(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return "", errStoreDown
	}
	return f.activeID, nil
}

func (f *fakeStore) SetActivePromptID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activeID = id
	return nil
}

func (f *fakeStore) storedComponents() []tree.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tree.Row(nil), f.components...)
}

func (f *fakeStore) storedPrompts() []prompt.Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]prompt.Prompt(nil), f.prompts...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// manualWriter returns a Writer that only fires on Flush, so tests control
// exactly when snapshots hit the store.
func manualWriter() *writeback.Writer {
	return writeback.New(time.Hour, testLogger())
}

func defaultSettings() settings.Settings {
	return settings.Defaults()
}
