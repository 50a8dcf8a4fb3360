package sqlite

import (
	"context"
	"fmt"

	"github.com/warp/paperwork/books"
)

// =============================================================================
// TAXONOMY STORE (books.TaxonomyStore interface)
// =============================================================================
// All ten taxonomies share the {id, name} shape; the table comes from the
// kind, never from caller text.

// AddTaxonomyValue appends a value. Duplicate names are accepted.
func (s *Store) AddTaxonomyValue(ctx context.Context, kind books.TaxonomyKind, name string) (books.ID, error) {
	table, err := kind.Table()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id books.ID
	err = s.withConn(ctx, "add "+string(kind), func(q querier) (err error) {
		id, err = insertRow(ctx, q, fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", table), name)
		return err
	})
	return id, err
}

// ListTaxonomy returns every value of kind in id order.
func (s *Store) ListTaxonomy(ctx context.Context, kind books.TaxonomyKind) ([]books.TaxonomyValue, error) {
	table, err := kind.Table()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var values []books.TaxonomyValue
	err = s.withConn(ctx, "list "+string(kind), func(q querier) error {
		rows, err := q.QueryContext(ctx, fmt.Sprintf("SELECT id, name FROM %s ORDER BY id", table))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var v books.TaxonomyValue
			if err := rows.Scan(&v.ID, &v.Name); err != nil {
				return err
			}
			values = append(values, v)
		}
		return rows.Err()
	})
	return values, err
}

// DeleteTaxonomyValue removes a value by id. Records that use the name keep it.
func (s *Store) DeleteTaxonomyValue(ctx context.Context, kind books.TaxonomyKind, id books.ID) error {
	table, err := kind.Table()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withConn(ctx, "delete "+string(kind), func(q querier) error {
		return deleteRow(ctx, q, table, id)
	})
}
