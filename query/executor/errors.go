package executor

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ConstraintViolationError wraps a driver-reported uniqueness or
// foreign-key failure on write.
type ConstraintViolationError struct {
	Err error
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation: %v", e.Err)
}

func (e *ConstraintViolationError) Unwrap() error { return e.Err }

// ConnectionError wraps a transport or driver failure. It is surfaced
// as-is; retrying is the caller's decision.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// mysqlConstraintCodes are the duplicate-key and foreign-key error
// numbers MySQL reports on write conflicts.
var mysqlConstraintCodes = map[uint16]bool{
	1062: true, // ER_DUP_ENTRY
	1216: true, // ER_NO_REFERENCED_ROW
	1217: true, // ER_ROW_IS_REFERENCED
	1451: true, // ER_ROW_IS_REFERENCED_2
	1452: true, // ER_NO_REFERENCED_ROW_2
}

// classify wraps driver errors into the layer's taxonomy. Anything not
// recognized passes through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrConstraint {
			return &ConstraintViolationError{Err: err}
		}
		if sqliteErr.Code == sqlite3.ErrCantOpen || sqliteErr.Code == sqlite3.ErrBusy {
			return &ConnectionError{Err: err}
		}
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code.Class() == "23" { // integrity constraint violation
			return &ConstraintViolationError{Err: err}
		}
		if pqErr.Code.Class() == "08" { // connection exception
			return &ConnectionError{Err: err}
		}
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if mysqlConstraintCodes[myErr.Number] {
			return &ConstraintViolationError{Err: err}
		}
		return err
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &netErr) {
		return &ConnectionError{Err: err}
	}
	return err
}
