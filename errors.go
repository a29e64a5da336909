package fsqlexec

import (
	"fmt"
)

// ErrorKind tells where a statement failure came from.
type ErrorKind int

const (
	// KindDriver is a failure raised by the driver or database/sql itself.
	KindDriver ErrorKind = iota
	// KindServer is a failure reported by the database engine.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindServer:
		return "server"
	default:
		return "driver"
	}
}

// FileAccessError is returned when a SQL file or an exclude file cannot be
// opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read file %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// ExtractionError is returned when the contents of a file could not be
// scanned for statements.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("error extracting SQL statements from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ConnectionError is returned when no execution context (transaction) could
// be obtained from the database.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot begin transaction: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatementExecutionError identifies the statement that stopped a run.
type StatementExecutionError struct {
	// FileIndex is the position of File in the executor's file list.
	FileIndex int
	File      string
	Statement Statement

	// Kind and Code describe the underlying failure. Code is the SQLSTATE for
	// PostgreSQL and the result code name for SQLite; empty for driver errors.
	Kind ErrorKind
	Code string

	Err error
}

func (e *StatementExecutionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("SQL execution error: file=%s sql=%s: %v (%s %s)", e.File, e.Statement, e.Err, e.Kind, e.Code)
	}
	return fmt.Sprintf("SQL execution error: file=%s sql=%s: %v", e.File, e.Statement, e.Err)
}

func (e *StatementExecutionError) Unwrap() error { return e.Err }
