package serve

import (
	"fmt"

	"github.com/andrebq/doorman/auth"
	"github.com/andrebq/doorman/auth/api"
	"github.com/andrebq/doorman/internal/cmdflags"
	"github.com/andrebq/doorman/internal/httpserver"
	"github.com/andrebq/doorman/userstore"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:7070"
	storePath := "doorman.db"
	strategyName := "session"
	var openPaths cli.StringSlice
	var insecureCookie bool
	var inMemory bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the authentication API",
		Flags: []cli.Flag{
			cmdflags.Bind(&bindAddr),
			cmdflags.UserStore(&storePath),
			cmdflags.OpenPaths(&openPaths),
			cmdflags.InsecureCookie(&insecureCookie),
			&cli.StringFlag{
				Name:        "strategy",
				Usage:       "Authentication strategy for protected paths (none, basic or session)",
				Value:       strategyName,
				Destination: &strategyName,
			},
			&cli.BoolFlag{
				Name:        "in-memory",
				Usage:       "Keep user records in memory instead of sqlite (development only)",
				Destination: &inMemory,
			},
		},
		Action: func(ctx *cli.Context) error {
			var users userstore.Directory
			if inMemory {
				users = userstore.InMemory()
			} else {
				store, err := userstore.OpenSQLite(ctx.Context, storePath)
				if err != nil {
					return err
				}
				defer store.Close()
				users = store
			}
			svc := auth.NewService(users)
			var strategy auth.Strategy
			switch strategyName {
			case "none":
				strategy = auth.NoAuth{}
			case "basic":
				strategy = auth.NewBasic(svc)
			case "session":
				strategy = auth.NewSession(svc)
			default:
				return fmt.Errorf("unknown strategy %v", strategyName)
			}
			// account endpoints stay reachable without credentials,
			// they perform their own session checks where needed
			open := append([]string{"/", "/users", "/sessions", "/reset_password"}, openPaths.Value()...)
			guard := api.NewGuard(strategy, open)
			handler := guard.Protect(api.AsHandler(svc, insecureCookie))
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}
