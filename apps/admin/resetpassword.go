package main

import (
	"context"

	"github.com/unidigital/academia/core/user"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if _, err = cli.usrSvc.Update(ctx, usr.ID, user.UpdateUser{Password: &pwd}); err != nil {
		return err
	}
	logger.Printf("password reset for %s\n", usr.Email)
	return nil
}
