// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/idavillc/prompt-builder/internal/domain/prompt"
	"github.com/idavillc/prompt-builder/internal/domain/settings"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
)

// Store is the port interface the synchronization services persist through.
// The tree and the prompt collection are each written whole: the services
// coalesce bursts of edits into one trailing snapshot, so the store never
// sees intermediate states.
type Store interface {
	// Components (the library forest, flattened to parent-linked rows)
	ListComponents(ctx context.Context) ([]tree.Row, error)
	ReplaceComponents(ctx context.Context, rows []tree.Row) error

	// Prompts
	ListPrompts(ctx context.Context) ([]prompt.Prompt, error)
	ReplacePrompts(ctx context.Context, prompts []prompt.Prompt) error

	// Settings and the independently-persisted active prompt pointer
	GetSettings(ctx context.Context) (*settings.Settings, error)
	SaveSettings(ctx context.Context, s settings.Settings) error
	GetActivePromptID(ctx context.Context) (string, error)
	SetActivePromptID(ctx context.Context, id string) error
}
