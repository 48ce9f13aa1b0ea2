package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/storage"
)

type createGroupCmd struct {
	*app
}

func (*createGroupCmd) Name() string     { return "create-group" }
func (*createGroupCmd) Synopsis() string { return "create a new group" }
func (*createGroupCmd) Usage() string {
	return `create-group <name>

  Creates a group and prints its ID.
`
}

func (c *createGroupCmd) SetFlags(f *flag.FlagSet) {}

func (c *createGroupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || f.Arg(0) == "" {
		return c.usageError("exactly one group name is required")
	}

	return c.withStore(func(store storage.Store) error {
		group := &models.Group{Name: f.Arg(0)}
		if err := store.CreateGroup(ctx, group); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, group.ID)
		return nil
	})
}

type listGroupsCmd struct {
	*app
}

func (*listGroupsCmd) Name() string     { return "list-groups" }
func (*listGroupsCmd) Synopsis() string { return "list every group with its members" }
func (*listGroupsCmd) Usage() string {
	return `list-groups

  Prints one line per group: ID, name, creation date and member count.
`
}

func (c *listGroupsCmd) SetFlags(f *flag.FlagSet) {}

func (c *listGroupsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.withStore(func(store storage.Store) error {
		groups, err := store.ListGroups(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCREATED\tMEMBERS")
		for _, g := range groups {
			members, err := store.ListUsersByGroup(ctx, g.ID)
			if err != nil {
				return err
			}
			created := time.Unix(g.CreatedAt, 0).UTC().Format(time.DateOnly)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", g.ID, g.Name, created, len(members))
		}
		return w.Flush()
	})
}

type deleteGroupCmd struct {
	*app
}

func (*deleteGroupCmd) Name() string     { return "delete-group" }
func (*deleteGroupCmd) Synopsis() string { return "delete a group and all of its items" }
func (*deleteGroupCmd) Usage() string {
	return `delete-group <group-id>

  Deletes the group with its net worth items and invite links.
  Its members are kept but no longer belong to any group.
`
}

func (c *deleteGroupCmd) SetFlags(f *flag.FlagSet) {}

func (c *deleteGroupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.usageError("exactly one group ID is required")
	}

	return c.withStore(func(store storage.Store) error {
		if err := store.DeleteGroup(ctx, f.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Deleted group %s\n", f.Arg(0))
		return nil
	})
}
