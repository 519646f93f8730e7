package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/user"
)

// addUser creates a user with the named roles; defaults are seeded first so
// the command works on a fresh database.
func (cli *commandLine) addUser(email, name, pwd, roles string) error {
	ctx := context.Background()

	if err := cli.usrSvc.EnsureDefaultRoles(ctx); err != nil {
		return err
	}

	var roleIDs []int
	if roles != "" {
		all, err := cli.usrSvc.QueryAllRoles(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]user.Role, len(all))
		for _, role := range all {
			byName[role.Name] = role
		}
		for _, name := range strings.Split(roles, ",") {
			role, ok := byName[core.CleanString(name)]
			if !ok {
				return fmt.Errorf("unknown role %q", name)
			}
			roleIDs = append(roleIDs, role.ID)
		}
	}

	nu := user.NewUser{
		Email:    core.CleanString(email, true /* lower */),
		FullName: core.CleanString(name),
		Password: pwd,
		RoleIDs:  roleIDs,
	}
	usr, err := cli.usrSvc.Create(ctx, nu)
	if err != nil {
		return err
	}
	logger.Printf("user %d (%s) created\n", usr.ID, usr.Email)
	return nil
}
