// Package settings defines the user-facing application settings.
package settings

import "github.com/idavillc/prompt-builder/internal/domain/tree"

// Settings holds app preferences persisted in the backing store. The active
// prompt pointer is deliberately not here: it is UI focus, not content, and
// is persisted under its own key by the prompt service.
type Settings struct {
	MarkdownPrompting  bool               `json:"markdownPrompting"`
	SystemPrompt       string             `json:"systemPrompt"`
	DefaultPromptName  string             `json:"defaultPromptName"`
	DefaultSectionType tree.ComponentType `json:"defaultSectionType"`
}

// Defaults returns the out-of-the-box settings.
func Defaults() Settings {
	return Settings{
		MarkdownPrompting:  true,
		SystemPrompt:       "You are a helpful assistant.",
		DefaultPromptName:  "New Prompt",
		DefaultSectionType: tree.TypeInstruction,
	}
}
