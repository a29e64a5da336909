// SPDX-License-Identifier: MIT

// Package main provides fsqlexec-pg, a PostgreSQL-specific command-line
// interface for the fsqlexec library.
//
// # Install
//
//	go install github.com/bcomnes/fsqlexec/pg@latest
//
// # Synopsis
//
//	fsqlexec-pg [options] FILE...
//
// Every statement of every FILE runs, in order, inside one transaction.
//
// # Flags
//
//	--exclude-file string  File listing SQL files to skip, one path per line.
//	--ini-file string      INI file with connection settings (default "postgres.ini").
//	--profile string       Section of the INI file (default "PostgreSQL").
//	--conn string          PostgreSQL connection URL. Overrides $DATABASE_URL and
//	                       the INI file.
//	--on-failure string    "commit" (default) or "rollback" after a failed statement.
//	--dry-run              Print the extracted statements and exit.
//	--timeout duration     Limit for the whole run (default 10m).
//	--log-level string     debug, info, warn or error (default "info").
//	--log-format string    auto, console or json (default "auto").
//	--version              Print fsqlexec-pg version.
//
// *Precedence:* --conn flag ➜ $DATABASE_URL ➜ INI profile
//
// # INI file
//
//	[PostgreSQL]
//	host     = localhost
//	port     = 5432
//	dbname   = app
//	user     = app
//	password = secret
//	sslmode  = disable
//
// Any key can be overridden with an FSQLEXEC_ environment variable, for
// example FSQLEXEC_PASSWORD.
//
// # Examples
//
//	# Create tables, then indexes
//	fsqlexec-pg schema/tables.sql schema/indexes.sql
//
//	# Everything in sql/ except what is listed in skip.txt
//	fsqlexec-pg --exclude-file skip.txt sql/*.sql
//
// # Exit status
//
//	0  all statements executed and committed
//	1  invalid command line
//	2  a SQL, exclude or INI file is missing
//	3  any other failure
//
// For driver-agnostic details see the root fsqlexec package.
package main
