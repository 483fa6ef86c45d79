// Package client ties the pieces together: it owns the database
// handle, the model registry and the executor, and hands out query
// sets bound to all three.
package client

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/quillorm/quill/model"
	"github.com/quillorm/quill/query/executor"
	"github.com/quillorm/quill/query/queryset"
	"github.com/quillorm/quill/query/sqlgen"
)

// Client is the main database client.
type Client struct {
	db       *sql.DB
	provider string
	reg      *model.Registry
	exec     executor.Executor
	sqlExec  *executor.SQL
	dialect  sqlgen.Dialect
}

// New opens a database for the given provider ("postgres", "mysql" or
// "sqlite") and binds it to the registry. The connection is verified
// lazily; call Connect to ping.
func New(provider, connectionString string, reg *model.Registry) (*Client, error) {
	driverName := driverNameFor(provider)
	if driverName == "" {
		return nil, fmt.Errorf("client: unsupported provider: %s", provider)
	}
	db, err := sql.Open(driverName, connectionString)
	if err != nil {
		return nil, err
	}
	return NewFromDB(provider, db, reg), nil
}

// NewFromDB binds an already-open database handle.
func NewFromDB(provider string, db *sql.DB, reg *model.Registry) *Client {
	sqlExec := executor.NewSQL(db, provider)
	return &Client{
		db:       db,
		provider: provider,
		reg:      reg,
		exec:     sqlExec,
		sqlExec:  sqlExec,
		dialect:  sqlgen.New(provider),
	}
}

// driverNameFor maps provider names to database/sql driver names.
func driverNameFor(provider string) string {
	switch provider {
	case "postgresql", "postgres":
		return "postgres"
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return ""
	}
}

// Connect verifies the database connection.
func (c *Client) Connect(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Disconnect releases cached statements and closes the connection.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.sqlExec != nil {
		if err := c.sqlExec.Close(); err != nil {
			return err
		}
	}
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database handle.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Registry returns the model registry the client was built with.
func (c *Client) Registry() *model.Registry {
	return c.reg
}

// Dialect returns the SQL dialect for the client's provider.
func (c *Client) Dialect() sqlgen.Dialect {
	return c.dialect
}

// QuerySet returns a fresh query set over a registered model.
func (c *Client) QuerySet(modelName string) (*queryset.QuerySet, error) {
	return queryset.New(c.reg, modelName, c.exec, c.dialect)
}
