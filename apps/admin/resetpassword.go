package main

import (
	"context"

	"github.com/trezcool/registrar/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByUsername(ctx, uname)
	if err != nil {
		return err
	}

	// same policy as new users
	check := user.NewUser{Username: usr.Username, Password: pwd, PasswordConfirm: pwd}
	if err = cli.validate.Struct(check); err != nil {
		return cli.translate(err)
	}

	_, err = cli.usrSvc.SetPassword(ctx, usr.Username, pwd)
	return err
}
