// Package executor runs compiled statements against a database and
// returns rows in a driver-neutral positional form. Query sets depend
// only on the Executor interface, which keeps execution mockable.
package executor

import (
	"context"
	"database/sql"

	"github.com/quillorm/quill/internal/debug"
	"github.com/quillorm/quill/query/sqlgen"
)

// Rows is a fetched result set: column names and one positional value
// slice per row.
type Rows struct {
	Columns []string
	Values  [][]interface{}
}

// Len returns the number of rows.
func (r *Rows) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Values)
}

// Executor executes compiled statements. Implementations classify
// driver failures (see ConstraintViolationError and ConnectionError)
// but never retry.
type Executor interface {
	// Query runs a statement that produces rows.
	Query(ctx context.Context, q *sqlgen.Query) (*Rows, error)
	// Exec runs a statement and reports the number of affected rows.
	Exec(ctx context.Context, q *sqlgen.Query) (int64, error)
}

// SQL is the database/sql-backed executor. Statements are prepared
// once and held in a bounded LRU cache.
type SQL struct {
	db       *sql.DB
	provider string
	stmts    *stmtCache
}

// NewSQL wraps an open database handle.
func NewSQL(db *sql.DB, provider string) *SQL {
	return &SQL{
		db:       db,
		provider: provider,
		stmts:    newStmtCache(db, defaultStmtCacheSize),
	}
}

// Query implements Executor.
func (e *SQL) Query(ctx context.Context, q *sqlgen.Query) (*Rows, error) {
	debug.Debug("executing query", "sql", q.SQL, "args", len(q.Args))

	stmt, err := e.stmts.get(ctx, q.SQL)
	if err != nil {
		return nil, classify(err)
	}
	rows, err := stmt.QueryContext(ctx, q.Args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, classify(err)
	}

	out := &Rows{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classify(err)
		}
		out.Values = append(out.Values, values)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// Exec implements Executor.
func (e *SQL) Exec(ctx context.Context, q *sqlgen.Query) (int64, error) {
	debug.Debug("executing statement", "sql", q.SQL, "args", len(q.Args))

	stmt, err := e.stmts.get(ctx, q.SQL)
	if err != nil {
		return 0, classify(err)
	}
	res, err := stmt.ExecContext(ctx, q.Args...)
	if err != nil {
		return 0, classify(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report affected rows; the statement
		// itself succeeded.
		return 0, nil
	}
	return affected, nil
}

// Close releases all cached prepared statements. The database handle
// itself stays open; its owner closes it.
func (e *SQL) Close() error {
	return e.stmts.close()
}

// CacheStats reports prepared-statement cache effectiveness.
func (e *SQL) CacheStats() (hits, misses int64) {
	return e.stmts.stats()
}
