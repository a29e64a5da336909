// Package main implements a SQLite-specific CLI for fsqlexec.
// It accepts a connection URL via the --conn flag, the SQLITE_URL
// environment variable (typically a file path like "./db.sqlite"),
// or the "path" key of an INI file section.
package main

import (
	"os"

	"github.com/bcomnes/fsqlexec/internal/cli"
)

func main() {
	os.Exit(cli.Main(cli.Options{
		Name:    "fsqlexec-sqlite",
		Driver:  "sqlite3",
		ConnEnv: "SQLITE_URL",
		IniFile: "sqlite.ini",
		Profile: "SQLite",
	}))
}
