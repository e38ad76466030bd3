// Package library parses, merges and exports prompt-library documents. Ids
// in a document are never trusted: every parse re-issues fresh ids and
// resolves cross-references (section links) through the old-to-new mapping
// built along the way, so imported data can never collide with — or dangle
// into — the live forest.
package library

import (
	"encoding/json"
	"fmt"

	"github.com/idavillc/prompt-builder/internal/domain/prompt"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
)

// Document is the parsed form of an import file, with ids already re-issued.
type Document struct {
	Tree    []*tree.Node
	Prompts []prompt.Prompt
}

// flexID accepts both the current string ids and the numeric ids of legacy
// files, normalizing either to a string key for the remap table.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// wireNode is the on-disk node shape: folders carry children and expanded,
// components carry content and componentType.
type wireNode struct {
	ID            flexID     `json:"id"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	Children      []wireNode `json:"children"`
	Expanded      *bool      `json:"expanded"`
	Content       string     `json:"content"`
	ComponentType string     `json:"componentType"`
}

type wireSection struct {
	ID                flexID `json:"id"`
	Name              string `json:"name"`
	Content           string `json:"content"`
	Type              string `json:"type"`
	LinkedComponentID flexID `json:"linkedComponentId"`
	OriginalContent   string `json:"originalContent"`
	Open              bool   `json:"open"`
}

type wirePrompt struct {
	ID       flexID        `json:"id"`
	Name     string        `json:"name"`
	Num      int           `json:"num"`
	Sections []wireSection `json:"sections"`
}

type wireDocument struct {
	Tree    []wireNode   `json:"tree"`
	Prompts []wirePrompt `json:"prompts"`
}
