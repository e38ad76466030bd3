package http

import "github.com/idavillc/prompt-builder/internal/service"

// Handlers bundles the services the REST surface is built on.
type Handlers struct {
	Tree     *service.TreeService
	Prompts  *service.PromptService
	Settings *service.SettingsService
}
