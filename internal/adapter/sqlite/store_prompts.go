package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/idavillc/prompt-builder/internal/domain/prompt"
)

// ListPrompts returns all prompts in collection order. Sections ride as a
// serialized JSON blob per row.
func (s *Store) ListPrompts(ctx context.Context) ([]prompt.Prompt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, num, sections FROM prompts ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var result []prompt.Prompt
	for rows.Next() {
		var p prompt.Prompt
		var sections string
		if err := rows.Scan(&p.ID, &p.Name, &p.Num, &sections); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		if err := json.Unmarshal([]byte(sections), &p.Sections); err != nil {
			return nil, fmt.Errorf("decode sections of prompt %s: %w", p.ID, err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ReplacePrompts swaps the entire prompt collection inside one transaction,
// mirroring the replace-all strategy of the components table.
func (s *Store) ReplacePrompts(ctx context.Context, prompts []prompt.Prompt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace prompts: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prompts`); err != nil {
		return fmt.Errorf("clear prompts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO prompts (id, name, num, position, sections) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert prompt: %w", err)
	}
	defer stmt.Close()

	for i, p := range prompts {
		sections := p.Sections
		if sections == nil {
			sections = []prompt.Section{}
		}
		blob, err := json.Marshal(sections)
		if err != nil {
			return fmt.Errorf("encode sections of prompt %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Num, i, string(blob)); err != nil {
			return fmt.Errorf("insert prompt %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace prompts: %w", err)
	}
	return nil
}
