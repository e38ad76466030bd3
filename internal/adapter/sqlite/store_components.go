package sqlite

import (
	"context"
	"fmt"

	"github.com/idavillc/prompt-builder/internal/domain/tree"
)

// ListComponents returns the full flat item list (folders and components),
// parent-linked, ordered by sibling position.
func (s *Store) ListComponents(ctx context.Context) ([]tree.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parent_id, name, type, sort_order, content, component_type, expanded
		 FROM components
		 ORDER BY parent_id NULLS FIRST, sort_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	var result []tree.Row
	for rows.Next() {
		var r tree.Row
		var expanded *int64
		if err := rows.Scan(&r.ID, &r.ParentID, &r.Name, &r.Kind, &r.SortOrder, &r.Content, &r.ComponentType, &expanded); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		if expanded != nil {
			b := *expanded != 0
			r.Expanded = &b
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ReplaceComponents swaps the entire tree: every existing row is deleted and
// the flattened payload reinserted inside one transaction.
func (s *Store) ReplaceComponents(ctx context.Context, items []tree.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace components: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM components`); err != nil {
		return fmt.Errorf("clear components: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO components (id, parent_id, name, type, sort_order, content, component_type, expanded)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert component: %w", err)
	}
	defer stmt.Close()

	for _, r := range items {
		var expanded *int64
		if r.Expanded != nil {
			v := int64(0)
			if *r.Expanded {
				v = 1
			}
			expanded = &v
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.ParentID, r.Name, r.Kind, r.SortOrder, r.Content, r.ComponentType, expanded); err != nil {
			return fmt.Errorf("insert component %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace components: %w", err)
	}
	return nil
}
