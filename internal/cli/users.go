package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/wealthwise/internal/auth"
	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/storage"
)

type createUserCmd struct {
	*app
	email       string
	password    string
	group       string
	role        string
	systemAdmin bool
}

func (*createUserCmd) Name() string     { return "create-user" }
func (*createUserCmd) Synopsis() string { return "create a user account" }
func (*createUserCmd) Usage() string {
	return `create-user -password <password> [-email <email>] [-group <group-id> -role <role>] [-system-admin] <username>

  Creates an account. Without -group the account has no group and, unless it
  is a system admin, no permissions.
`
}

func (c *createUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "email address")
	f.StringVar(&c.password, "password", "", "initial password (required)")
	f.StringVar(&c.group, "group", "", "ID of the group to join")
	f.StringVar(&c.role, "role", string(models.RoleViewer), "role within the group: admin, editor or viewer")
	f.BoolVar(&c.systemAdmin, "system-admin", false, "grant every permission")
}

func (c *createUserCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || !auth.ValidUsername(f.Arg(0)) {
		return c.usageError("%v", auth.ErrInvalidUsername)
	}
	if len(c.password) < auth.MinPasswordLength {
		return c.usageError("%v", auth.ErrWeakPassword)
	}
	role := models.Role(c.role)
	if !role.Valid() {
		return c.usageError("unknown role %q", c.role)
	}

	return c.withStore(func(store storage.Store) error {
		if c.group != "" {
			if _, err := store.GetGroup(ctx, c.group); err != nil {
				return err
			}
		}

		hash, err := auth.HashPassword(c.password, bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.NewUser(f.Arg(0), c.email, hash)
		user.GroupID = c.group
		user.Role = role
		user.IsSystemAdmin = c.systemAdmin
		if err := store.CreateUser(ctx, user); err != nil {
			return err
		}

		fmt.Fprintln(c.stdout, user.ID)
		return nil
	})
}

type assignUserCmd struct {
	*app
	group string
	role  string
}

func (*assignUserCmd) Name() string     { return "assign-user" }
func (*assignUserCmd) Synopsis() string { return "move a user into a group, or out of every group" }
func (*assignUserCmd) Usage() string {
	return `assign-user [-group <group-id>] [-role <role>] <username>

  Sets the user's group and role. An empty -group detaches the user.
`
}

func (c *assignUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "ID of the group to join, empty to leave")
	f.StringVar(&c.role, "role", string(models.RoleViewer), "role within the group: admin, editor or viewer")
}

func (c *assignUserCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.usageError("exactly one username is required")
	}
	role := models.Role(c.role)
	if !role.Valid() {
		return c.usageError("unknown role %q", c.role)
	}

	return c.withStore(func(store storage.Store) error {
		user, err := store.GetUserByUsername(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		if c.group != "" {
			if _, err := store.GetGroup(ctx, c.group); err != nil {
				return err
			}
		}

		user.GroupID = c.group
		user.Role = role
		if err := store.UpdateUser(ctx, user); err != nil {
			return err
		}

		if c.group == "" {
			fmt.Fprintf(c.stdout, "Removed %s from their group\n", user.Username)
		} else {
			fmt.Fprintf(c.stdout, "Assigned %s to group %s as %s\n", user.Username, c.group, role)
		}
		return nil
	})
}

type setAdminCmd struct {
	*app
	revoke bool
}

func (*setAdminCmd) Name() string     { return "set-admin" }
func (*setAdminCmd) Synopsis() string { return "grant or revoke system admin" }
func (*setAdminCmd) Usage() string {
	return `set-admin [-revoke] <username>

  System admins hold every permission in their own group regardless of role.
`
}

func (c *setAdminCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.revoke, "revoke", false, "revoke instead of grant")
}

func (c *setAdminCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.usageError("exactly one username is required")
	}

	return c.withStore(func(store storage.Store) error {
		user, err := store.GetUserByUsername(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		user.IsSystemAdmin = !c.revoke
		if err := store.UpdateUser(ctx, user); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "%s system admin: %t\n", user.Username, user.IsSystemAdmin)
		return nil
	})
}
