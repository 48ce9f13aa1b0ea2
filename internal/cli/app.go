// Package cli implements wealthctl, the operator tool that edits groups and
// accounts directly in the database. It is how users are placed into groups
// out of band and how system admins are appointed.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/wealthwise/internal/storage"
	"github.com/mmynk/wealthwise/internal/storage/sqlite"
)

// DefaultDBPath is used when neither -db nor DB_PATH is given.
const DefaultDBPath = "./data/wealthwise.db"

// app is shared by every command.
type app struct {
	dbPath string
	stdout io.Writer
	stderr io.Writer
}

// withStore opens the database, runs fn and closes it again.
func (a *app) withStore(fn func(storage.Store) error) subcommands.ExitStatus {
	store, err := sqlite.New(a.dbPath)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error opening database %s: %v\n", a.dbPath, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	if err := fn(store); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (a *app) usageError(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// Run parses args (without the program name) and executes the selected command.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) subcommands.ExitStatus {
	a := &app{stdout: stdout, stderr: stderr}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBPath
	}

	fs := flag.NewFlagSet("wealthctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&a.dbPath, "db", dbPath, "path to the SQLite database")

	commander := subcommands.NewCommander(fs, "wealthctl")
	commander.Output = stdout
	commander.Error = stderr
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&createGroupCmd{app: a}, "groups")
	commander.Register(&listGroupsCmd{app: a}, "groups")
	commander.Register(&deleteGroupCmd{app: a}, "groups")
	commander.Register(&createUserCmd{app: a}, "users")
	commander.Register(&assignUserCmd{app: a}, "users")
	commander.Register(&setAdminCmd{app: a}, "users")

	if err := fs.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}
	return commander.Execute(ctx)
}
