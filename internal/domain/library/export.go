package library

import (
	"encoding/json"
	"fmt"

	"github.com/idavillc/prompt-builder/internal/domain/prompt"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
)

// Export renders the current tree and prompts as the interchange document,
// the same shape Parse accepts.
func Export(forest []*tree.Node, prompts []prompt.Prompt) ([]byte, error) {
	doc := struct {
		Tree    []*tree.Node    `json:"tree"`
		Prompts []prompt.Prompt `json:"prompts"`
	}{
		Tree:    forest,
		Prompts: prompts,
	}
	if doc.Tree == nil {
		doc.Tree = []*tree.Node{}
	}
	if doc.Prompts == nil {
		doc.Prompts = []prompt.Prompt{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export document: %w", err)
	}
	return data, nil
}
