package main

import (
	"context"
	"fmt"

	"github.com/trezcool/registrar/core/user"
)

// addUser creates an active administrator after applying the username & password policies.
func (cli *commandLine) addUser(uname, pwd string) error {
	ctx := context.Background()
	nu := user.NewUser{
		Username:        uname,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := nu.Validate(ctx, cli.validate, cli.usrSvc); err != nil {
		return cli.translate(err)
	}
	usr, err := cli.usrSvc.Create(ctx, nu)
	if err != nil {
		return err
	}
	fmt.Printf("user %q created\n", usr.Username)
	return nil
}
