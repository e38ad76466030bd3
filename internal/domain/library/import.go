package library

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/idavillc/prompt-builder/internal/domain"
	"github.com/idavillc/prompt-builder/internal/domain/id"
	"github.com/idavillc/prompt-builder/internal/domain/prompt"
	"github.com/idavillc/prompt-builder/internal/domain/tree"
)

// Parse recognizes one of the known document shapes and converts it, with
// fresh ids throughout:
//
//   - current: {"tree": [...], "prompts": [...]}
//   - legacy:  a bare array of nodes (prompts omitted)
//   - legacy:  a single root folder object
//
// Anything else fails fast with domain.ErrValidation. Unknown component
// types are not an error; they parse to the safe default.
func Parse(data []byte, gen id.Generator) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrValidation)
	}

	switch trimmed[0] {
	case '[':
		var nodes []wireNode
		if err := json.Unmarshal(trimmed, &nodes); err != nil {
			return nil, fmt.Errorf("%w: malformed node array: %v", domain.ErrValidation, err)
		}
		return convertDocument(wireDocument{Tree: nodes}, gen)
	case '{':
		var probe struct {
			Tree json.RawMessage `json:"tree"`
			Type string          `json:"type"`
		}
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, fmt.Errorf("%w: malformed document: %v", domain.ErrValidation, err)
		}
		if probe.Tree != nil {
			var doc wireDocument
			if err := json.Unmarshal(trimmed, &doc); err != nil {
				return nil, fmt.Errorf("%w: malformed document: %v", domain.ErrValidation, err)
			}
			return convertDocument(doc, gen)
		}
		if probe.Type == string(tree.KindFolder) {
			var root wireNode
			if err := json.Unmarshal(trimmed, &root); err != nil {
				return nil, fmt.Errorf("%w: malformed root folder: %v", domain.ErrValidation, err)
			}
			return convertDocument(wireDocument{Tree: []wireNode{root}}, gen)
		}
		return nil, fmt.Errorf("%w: unrecognized document shape", domain.ErrValidation)
	default:
		return nil, fmt.Errorf("%w: document must be a JSON object or array", domain.ErrValidation)
	}
}

func convertDocument(doc wireDocument, gen id.Generator) (*Document, error) {
	remap := make(map[string]string)

	forest, err := convertNodes(doc.Tree, gen, remap)
	if err != nil {
		return nil, err
	}
	forest = tree.NormalizeExpansion(forest, true)

	prompts := make([]prompt.Prompt, 0, len(doc.Prompts))
	for _, wp := range doc.Prompts {
		prompts = append(prompts, convertPrompt(wp, gen, remap))
	}

	return &Document{Tree: forest, Prompts: prompts}, nil
}

func convertNodes(nodes []wireNode, gen id.Generator, remap map[string]string) ([]*tree.Node, error) {
	out := make([]*tree.Node, 0, len(nodes))
	for _, wn := range nodes {
		n, err := convertNode(wn, gen, remap)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func convertNode(wn wireNode, gen id.Generator, remap map[string]string) (*tree.Node, error) {
	if wn.Name == "" {
		return nil, fmt.Errorf("%w: node is missing a name", domain.ErrValidation)
	}

	newID := gen()
	if wn.ID != "" {
		remap[string(wn.ID)] = newID
	}

	switch wn.Type {
	case string(tree.KindFolder):
		n := &tree.Node{ID: newID, Name: wn.Name, Kind: tree.KindFolder, Expanded: wn.Expanded}
		children, err := convertNodes(wn.Children, gen, remap)
		if err != nil {
			return nil, err
		}
		n.Children = children
		return n, nil
	case string(tree.KindComponent):
		return tree.NewComponent(newID, wn.Name, wn.Content, tree.ParseComponentType(wn.ComponentType)), nil
	default:
		return nil, fmt.Errorf("%w: node %q has unknown type %q", domain.ErrValidation, wn.Name, wn.Type)
	}
}

// convertPrompt re-issues prompt and section ids and resolves every section
// link through the remap table. A link whose target id never appeared in the
// document is dropped rather than carried as a raw foreign value.
func convertPrompt(wp wirePrompt, gen id.Generator, remap map[string]string) prompt.Prompt {
	p := prompt.Prompt{
		ID:       gen(),
		Name:     wp.Name,
		Num:      wp.Num,
		Sections: make([]prompt.Section, 0, len(wp.Sections)),
	}
	for _, ws := range wp.Sections {
		s := prompt.Section{
			ID:              gen(),
			Name:            ws.Name,
			Content:         ws.Content,
			Type:            tree.ParseComponentType(ws.Type),
			OriginalContent: ws.OriginalContent,
			Open:            ws.Open,
		}
		if ws.LinkedComponentID != "" {
			s.LinkedComponentID = remap[string(ws.LinkedComponentID)]
		}
		if s.LinkedComponentID != "" {
			s.Dirty = s.Content != s.OriginalContent
		}
		p.Sections = append(p.Sections, s)
	}
	return p
}
