package user

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/andrebq/doorman/auth"
	"github.com/andrebq/doorman/internal/cmdflags"
	"github.com/andrebq/doorman/userstore"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	storePath := "doorman.db"
	return &cli.Command{
		Name:  "user",
		Usage: "Manage user records directly against the store",
		Flags: []cli.Flag{
			cmdflags.UserStore(&storePath),
		},
		Subcommands: []*cli.Command{
			registerCmd(&storePath),
		},
	}
}

func registerCmd(storePath *string) *cli.Command {
	var email string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email of the user to register",
				Destination: &email,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(os.Stdin)
			if !sc.Scan() {
				return sc.Err()
			}
			password := strings.TrimSpace(sc.Text())
			if len(password) == 0 {
				return errors.New("missing password from stdin")
			}
			store, err := userstore.OpenSQLite(ctx.Context, *storePath)
			if err != nil {
				return err
			}
			defer store.Close()
			_, err = auth.NewService(store).Register(ctx.Context, email, password)
			return err
		},
	}
}
