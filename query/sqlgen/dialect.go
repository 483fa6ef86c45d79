// Package sqlgen turns model metadata, predicate trees and query-set
// options into backend-specific SQL text plus an ordered parameter
// list. Values are always bound, never interpolated into the text.
package sqlgen

import (
	"fmt"
)

// Dialect captures what differs between supported backends: identifier
// quoting, placeholder style and the LIMIT/OFFSET window clause. It
// satisfies where.Dialect.
type Dialect interface {
	Name() string
	Quote(ident string) string
	Placeholder(n int) string
	EscapeClause() string
	// LimitOffset renders the row window. A negative limit means
	// unbounded from offset; both zero or negative-with-zero-offset
	// yields an empty clause.
	LimitOffset(limit, offset int) string
}

// New returns the dialect for a provider name, defaulting to postgres.
func New(provider string) Dialect {
	switch provider {
	case "mysql":
		return Mysql{}
	case "sqlite", "sqlite3":
		return Sqlite{}
	default:
		return Postgres{}
	}
}

// Postgres quotes with double quotes and numbers its placeholders.
type Postgres struct{}

func (Postgres) Name() string { return "postgresql" }

func (Postgres) Quote(ident string) string { return `"` + ident + `"` }

func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (Postgres) EscapeClause() string { return ` ESCAPE '\'` }

func (Postgres) LimitOffset(limit, offset int) string {
	switch {
	case limit >= 0 && offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	case limit >= 0:
		return fmt.Sprintf(" LIMIT %d", limit)
	case offset > 0:
		return fmt.Sprintf(" OFFSET %d", offset)
	default:
		return ""
	}
}

// Mysql quotes with backticks and requires a LIMIT whenever OFFSET is
// present.
type Mysql struct{}

func (Mysql) Name() string { return "mysql" }

func (Mysql) Quote(ident string) string { return "`" + ident + "`" }

func (Mysql) Placeholder(int) string { return "?" }

func (Mysql) EscapeClause() string { return ` ESCAPE '\\'` }

func (Mysql) LimitOffset(limit, offset int) string {
	switch {
	case limit >= 0 && offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	case limit >= 0:
		return fmt.Sprintf(" LIMIT %d", limit)
	case offset > 0:
		// MySQL has no offset-only form.
		return fmt.Sprintf(" LIMIT 18446744073709551615 OFFSET %d", offset)
	default:
		return ""
	}
}

// Sqlite quotes with double quotes and uses LIMIT -1 for offset-only
// windows.
type Sqlite struct{}

func (Sqlite) Name() string { return "sqlite" }

func (Sqlite) Quote(ident string) string { return `"` + ident + `"` }

func (Sqlite) Placeholder(int) string { return "?" }

func (Sqlite) EscapeClause() string { return ` ESCAPE '\'` }

func (Sqlite) LimitOffset(limit, offset int) string {
	switch {
	case limit >= 0 && offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	case limit >= 0:
		return fmt.Sprintf(" LIMIT %d", limit)
	case offset > 0:
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", offset)
	default:
		return ""
	}
}

func qualify(d Dialect, table, column string) string {
	if table == "" {
		return d.Quote(column)
	}
	return d.Quote(table) + "." + d.Quote(column)
}
