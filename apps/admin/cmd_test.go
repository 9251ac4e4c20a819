package main

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registrar/core/user"
	sqlxrepos "github.com/trezcool/registrar/storage/database/sqlx"
	"github.com/trezcool/registrar/testutil"
)

const strongPassword = "Kp9#vWq2Lm"

func setup(t *testing.T) (*commandLine, user.Repository) {
	db := testutil.PrepareDB(t)
	usrRepo := sqlxrepos.NewUserRepository(db)
	validate, translator := testutil.NewValidator()

	return &commandLine{
		db:         db,
		usrSvc:     user.NewService(usrRepo),
		validate:   validate,
		translator: translator,
	}, usrRepo
}

func mockPassword(t *testing.T, pwd string) {
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func (tt cliTest) check(t *testing.T, err error) {
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		assert.EqualError(t, err, tt.wantErrStr)
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	orig := runMigrationsFunc
	t.Cleanup(func() { runMigrationsFunc = orig })
	runMigrationsFunc = func(db *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}
}

func Test_commandLine_migrateStatus(t *testing.T) {
	cli, _ := setup(t)
	assert.NoError(t, cli.run([]string{"admin", "migrate", "status"}))
}

func Test_commandLine_addUser(t *testing.T) {
	cli, usrRepo := setup(t)
	testutil.CreateUser(t, usrRepo, "registrar", strongPassword, true)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no username", args: []string{"adduser"}, pwd: strongPassword, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "office"}, wantErr: errHelp},
		{name: "short password", args: []string{"adduser", "-username", "office"}, pwd: "Kp9#v", wantErrStr: "password must contain at least 8 characters"},
		{name: "numeric password", args: []string{"adduser", "-username", "office"}, pwd: "1234567890", wantErrStr: "password cannot be entirely numeric"},
		{name: "duplicate username", args: []string{"adduser", "-username", "Registrar"}, pwd: strongPassword, wantErrStr: user.ErrUsernameExists.Error()},
		{name: "success", args: []string{"adduser", "-username", " Office "}, pwd: strongPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	usr, err := cli.usrSvc.Authenticate(context.Background(), "office", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, "office", usr.Username)
	assert.True(t, usr.Active)
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrRepo := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "registrar", strongPassword, true)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, pwd: "Zx8$mTr4Qa", wantErr: user.ErrNotFound},
		{name: "weak password", args: []string{"resetpassword", "-username", usr.Username}, pwd: "password", wantErrStr: "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"},
		{name: "reset", args: []string{"resetpassword", "-username", "REGISTRAR"}, pwd: "Zx8$mTr4Qa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	_, err := cli.usrSvc.Authenticate(context.Background(), usr.Username, strongPassword)
	assert.Equal(t, user.ErrInvalidCredential, err)
	_, err = cli.usrSvc.Authenticate(context.Background(), usr.Username, "Zx8$mTr4Qa")
	assert.NoError(t, err)
}
