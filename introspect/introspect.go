// Package introspect reads schema information back out of a live
// database.
package introspect

import (
	"context"
	"database/sql"
	"fmt"
)

// ListTables returns the user table names of the connected database,
// sorted. System tables are excluded.
func ListTables(ctx context.Context, db *sql.DB, provider string) ([]string, error) {
	query, err := tablesQuery(provider)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func tablesQuery(provider string) (string, error) {
	switch provider {
	case "sqlite", "sqlite3":
		return `
			SELECT name
			FROM sqlite_master
			WHERE type = 'table'
			  AND name NOT LIKE 'sqlite_%'
			ORDER BY name
		`, nil
	case "postgres", "postgresql":
		return `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = 'public'
			  AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`, nil
	case "mysql":
		return `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = DATABASE()
			  AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`, nil
	default:
		return "", fmt.Errorf("introspect: unsupported provider: %s", provider)
	}
}
