// Package main implements the driver-agnostic fsqlexec CLI. The database
// driver is chosen with --driver (pg or sqlite3).
package main

import (
	"os"

	"github.com/bcomnes/fsqlexec/internal/cli"
)

func main() {
	os.Exit(cli.Main(cli.Options{
		Name:    "fsqlexec",
		ConnEnv: "DATABASE_URL",
	}))
}
