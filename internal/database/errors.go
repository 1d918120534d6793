package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Common errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrForeignKey       = errors.New("foreign key violation")
	ErrNotNull          = errors.New("not null constraint violation")
	ErrConnectionFailed = errors.New("database connection failed")
	ErrTimeout          = errors.New("operation timeout")
	ErrCanceled         = errors.New("operation canceled")
	ErrBusy             = errors.New("database is busy")
)

// Error provides detailed error information
type Error struct {
	Op         string // Operation that failed
	Table      string // Table involved
	Err        error  // Underlying error
	Constraint string // Constraint name (if applicable)
	Retryable  bool   // Whether the operation can be retried
}

func (e *Error) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("db: %s", e.Op))

	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("table=%s", e.Table))
	}

	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("constraint=%s", e.Constraint))
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ParseError converts driver errors into *Error values carrying one of the
// sentinels above. Errors that are already *Error pass through unchanged.
func ParseError(err error, op, table string) error {
	if err == nil {
		return nil
	}

	var dbErr *Error
	if errors.As(err, &dbErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Op: op, Table: table, Err: ErrNotFound}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return parsePQError(pqErr, op, table)
	}

	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "UNIQUE constraint failed"):
		return &Error{Op: op, Table: table, Err: ErrDuplicateKey, Constraint: sqliteConstraint(errStr)}
	case strings.Contains(errStr, "FOREIGN KEY constraint failed"):
		return &Error{Op: op, Table: table, Err: ErrForeignKey}
	case strings.Contains(errStr, "NOT NULL constraint failed"):
		return &Error{Op: op, Table: table, Err: ErrNotNull, Constraint: sqliteConstraint(errStr)}
	case strings.Contains(errStr, "database is locked"), strings.Contains(errStr, "SQLITE_BUSY"):
		return &Error{Op: op, Table: table, Err: fmt.Errorf("%w: %v", ErrBusy, err), Retryable: true}
	case strings.Contains(errStr, "context deadline exceeded"):
		return &Error{Op: op, Table: table, Err: ErrTimeout, Retryable: true}
	case strings.Contains(errStr, "context canceled"):
		return &Error{Op: op, Table: table, Err: ErrCanceled}
	case strings.Contains(errStr, "connection refused"),
		strings.Contains(errStr, "connection reset"),
		strings.Contains(errStr, "broken pipe"):
		return &Error{Op: op, Table: table, Err: fmt.Errorf("%w: %v", ErrConnectionFailed, err), Retryable: true}
	}

	return &Error{Op: op, Table: table, Err: err}
}

func parsePQError(pqErr *pq.Error, op, table string) error {
	switch pqErr.Code {
	case "23505":
		return &Error{Op: op, Table: table, Err: ErrDuplicateKey, Constraint: pqErr.Constraint}
	case "23503":
		return &Error{Op: op, Table: table, Err: ErrForeignKey, Constraint: pqErr.Constraint}
	case "23502":
		return &Error{Op: op, Table: table, Err: ErrNotNull, Constraint: pqErr.Column}
	case "57014":
		return &Error{Op: op, Table: table, Err: ErrCanceled}
	case "40001", "40P01":
		return &Error{Op: op, Table: table, Err: pqErr, Retryable: true}
	}

	if pqErr.Code.Class() == "08" {
		return &Error{Op: op, Table: table, Err: fmt.Errorf("%w: %v", ErrConnectionFailed, pqErr), Retryable: true}
	}

	return &Error{Op: op, Table: table, Err: pqErr}
}

// sqliteConstraint extracts "table.column" from messages such as
// "UNIQUE constraint failed: selected_lists.owner".
func sqliteConstraint(errStr string) string {
	idx := strings.LastIndex(errStr, "constraint failed: ")
	if idx == -1 {
		return ""
	}
	rest := errStr[idx+len("constraint failed: "):]
	if end := strings.IndexAny(rest, " ,)"); end != -1 {
		rest = rest[:end]
	}
	return rest
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Retryable
	}
	return false
}
