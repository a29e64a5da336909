// SPDX-License-Identifier: MIT

// Package main provides fsqlexec-sqlite, a SQLite-specific command-line
// interface for the fsqlexec library.
//
// # Install
//
//	go install github.com/bcomnes/fsqlexec/sqlite@latest
//
// # Synopsis
//
//	fsqlexec-sqlite [options] FILE...
//
// # Flags
//
//	--exclude-file string  File listing SQL files to skip, one path per line.
//	--ini-file string      INI file with connection settings (default "sqlite.ini").
//	--profile string       Section of the INI file (default "SQLite").
//	--conn string          Database file. Overrides $SQLITE_URL and the INI file.
//	--on-failure string    "commit" (default) or "rollback" after a failed statement.
//	--dry-run              Print the extracted statements and exit.
//	--timeout duration     Limit for the whole run (default 10m).
//	--log-level string     debug, info, warn or error (default "info").
//	--log-format string    auto, console or json (default "auto").
//	--version              Print fsqlexec-sqlite version.
//
// # INI file
//
//	[SQLite]
//	path = ./app.db
//
// # Example
//
//	fsqlexec-sqlite --conn ./app.db schema.sql seed.sql
//
// Exit status is 0 on success, 1 for an invalid command line, 2 when a file
// is missing and 3 on any other failure.
package main
