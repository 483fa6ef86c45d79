package executor

import (
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Sqlite(t *testing.T) {
	err := classify(sqlite3.Error{Code: sqlite3.ErrConstraint})
	var cv *ConstraintViolationError
	require.ErrorAs(t, err, &cv)

	err = classify(sqlite3.Error{Code: sqlite3.ErrBusy})
	var conn *ConnectionError
	require.ErrorAs(t, err, &conn)

	// Unrelated sqlite errors pass through unwrapped.
	err = classify(sqlite3.Error{Code: sqlite3.ErrError})
	assert.False(t, errors.As(err, &cv))
	assert.False(t, errors.As(err, &conn))
}

func TestClassify_Postgres(t *testing.T) {
	err := classify(&pq.Error{Code: "23505"}) // unique_violation
	var cv *ConstraintViolationError
	require.ErrorAs(t, err, &cv)

	err = classify(&pq.Error{Code: "08006"}) // connection_failure
	var conn *ConnectionError
	require.ErrorAs(t, err, &conn)
}

func TestClassify_Mysql(t *testing.T) {
	err := classify(&mysql.MySQLError{Number: 1062})
	var cv *ConstraintViolationError
	require.ErrorAs(t, err, &cv)

	err = classify(&mysql.MySQLError{Number: 1452})
	require.ErrorAs(t, err, &cv)

	err = classify(&mysql.MySQLError{Number: 1049}) // unknown database
	assert.False(t, errors.As(err, &cv))
}

func TestClassify_BadConn(t *testing.T) {
	err := classify(driver.ErrBadConn)
	var conn *ConnectionError
	require.ErrorAs(t, err, &conn)
	assert.ErrorIs(t, err, driver.ErrBadConn)
}

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, classify(nil))

	plain := errors.New("boom")
	assert.Equal(t, plain, classify(plain))
}

func TestRows_Len(t *testing.T) {
	var r *Rows
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 2, (&Rows{Values: [][]interface{}{{1}, {2}}}).Len())
}
