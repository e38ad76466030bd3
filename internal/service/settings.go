package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/idavillc/prompt-builder/internal/domain"
	"github.com/idavillc/prompt-builder/internal/domain/settings"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
	"github.com/idavillc/prompt-builder/internal/port/database"
)

// SettingsService owns the app settings. Settings change rarely, so unlike
// the tree and prompt collections they are written through immediately.
type SettingsService struct {
	log   *slog.Logger
	store database.Store

	mu      sync.Mutex
	current settings.Settings
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(store database.Store, log *slog.Logger) *SettingsService {
	return &SettingsService{log: log, store: store, current: settings.Defaults()}
}

// Load restores stored settings, seeding defaults when nothing is stored yet.
func (s *SettingsService) Load(ctx context.Context) {
	stored, err := s.store.GetSettings(ctx)
	switch {
	case err == nil:
		s.mu.Lock()
		s.current = *stored
		s.mu.Unlock()
	case errors.Is(err, domain.ErrNotFound):
		if err := s.store.SaveSettings(ctx, s.Get()); err != nil {
			s.log.Error("seeding settings failed", "error", err)
		}
	default:
		s.log.Warn("loading settings failed, using defaults", "error", err)
	}
}

// Get returns the current settings.
func (s *SettingsService) Get() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Patch is a shallow field merge applied by Update.
type Patch struct {
	MarkdownPrompting  *bool
	SystemPrompt       *string
	DefaultPromptName  *string
	DefaultSectionType *string
}

// Update merges patch into the settings and writes them through. An unknown
// default section type is substituted with the safe default rather than
// rejected. Persist failure is logged only; the in-memory settings stand.
func (s *SettingsService) Update(ctx context.Context, patch Patch) settings.Settings {
	s.mu.Lock()
	if patch.MarkdownPrompting != nil {
		s.current.MarkdownPrompting = *patch.MarkdownPrompting
	}
	if patch.SystemPrompt != nil {
		s.current.SystemPrompt = *patch.SystemPrompt
	}
	if patch.DefaultPromptName != nil {
		s.current.DefaultPromptName = *patch.DefaultPromptName
	}
	if patch.DefaultSectionType != nil {
		s.current.DefaultSectionType = tree.ParseComponentType(*patch.DefaultSectionType)
	}
	updated := s.current
	s.mu.Unlock()

	if err := s.store.SaveSettings(ctx, updated); err != nil {
		s.log.Error("persisting settings failed", "error", err)
	}
	return updated
}
