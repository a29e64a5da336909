// SPDX-License-Identifier: MIT

// Package fsqlexec reads plain *.sql* files, pulls the SQL statements out
// of them and executes every statement against a database inside a single
// transaction.  It is meant for small schema bootstraps and batch SQL jobs
// where a full migration tool is more than you need.
//
// A thin dialect layer (currently PostgreSQL and SQLite) supplies the
// driver-specific bits: opening a connection and telling server-reported
// errors apart from plain driver errors.  Companion CLI tools live under
// sub-packages *pg* and *sqlite*; the core logic is here.
//
// # Install
//
//	go get github.com/bcomnes/fsqlexec@latest
//
// # Quick start
//
//	import (
//	    "context"
//	    "database/sql"
//
//	    _ "github.com/jackc/pgx/v5/stdlib"
//	    "github.com/bcomnes/fsqlexec"
//	)
//
//	func main() {
//	    db, _ := sql.Open("pgx", os.Getenv("DATABASE_URL"))
//	    ex, err := fsqlexec.NewExecutor(fsqlexec.Config{Driver: "pg"},
//	        []string{"schema/tables.sql", "schema/indexes.sql"}, db)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer ex.Close()
//	    if err := ex.Run(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Statement extraction
//
// Statements are found by pattern matching, not by a SQL parser.  A
// statement starts at one of the keywords SELECT, INSERT, DELETE, UPDATE,
// CREATE, ALTER or DROP (any case) followed by a space or tab, and ends at
// the next semicolon.  Lines starting with "-" are dropped first.  Each
// statement is flattened to one line and the semicolon is removed.
//
// Semicolons or keywords inside string literals are not understood.  Text
// after the last semicolon is ignored.
//
// # Transactions
//
// Run executes everything in one transaction.  The first failing statement
// stops the run and is reported as a *StatementExecutionError naming the
// file and the statement.  What happens to the transaction after a failure
// is chosen by Config.OnFailure:
//
//   - "commit"   commits whatever the database accepted (default)
//   - "rollback" rolls the whole run back
//
// # Errors
//
//	*FileAccessError          a SQL or exclude file cannot be read
//	*ExtractionError          a file could not be scanned for statements
//	*ConnectionError          no transaction could be started
//	*StatementExecutionError  a statement failed; carries file and SQL
//
// # CLI helpers
//
//	go install github.com/bcomnes/fsqlexec/pg@latest      # PostgreSQL
//	go install github.com/bcomnes/fsqlexec/sqlite@latest  # SQLite
//
// The CLIs exit with status 2 when a file is missing and 3 on any other
// failure.
package fsqlexec
