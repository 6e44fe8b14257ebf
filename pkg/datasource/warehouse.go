package datasource

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Warehouse is a thin read-only client over the product database. The
// orchestration layer treats it as an opaque collaborator; the queries here
// are deliberately minimal.
type Warehouse struct {
	db     *sql.DB
	logger zerolog.Logger
}

// OpenWarehouse opens the sqlite product database at path.
func OpenWarehouse(path string, logger zerolog.Logger) (*Warehouse, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("warehouse not reachable: %w", err)
	}

	return &Warehouse{
		db:     db,
		logger: logger.With().Str("component", "warehouse").Logger(),
	}, nil
}

// RecordCount returns how many product records the warehouse holds. A
// missing products table counts as zero rather than an error, so a fresh
// database still serves analyses.
func (w *Warehouse) RecordCount(ctx context.Context) (int, error) {
	var count int
	err := w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		if !tableExists(ctx, w.db, "products") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// CategoryCounts returns product counts grouped by category.
func (w *Warehouse) CategoryCounts(ctx context.Context) (map[string]int, error) {
	if !tableExists(ctx, w.db, "products") {
		return map[string]int{}, nil
	}

	rows, err := w.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM products GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		counts[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category rows: %w", err)
	}
	return counts, nil
}

// Close closes the underlying database.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

func tableExists(ctx context.Context, db *sql.DB, name string) bool {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	return err == nil && n > 0
}
