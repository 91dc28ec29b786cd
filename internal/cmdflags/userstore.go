package cmdflags

import (
	"github.com/urfave/cli/v2"
)

func UserStore(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "user-store",
		Aliases:     []string{"s", "store"},
		Usage:       "Path to the sqlite file holding the user records",
		Destination: out,
		Value:       *out,
	}
}

func Bind(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "bind",
		Usage:       "Address to bind the authentication API",
		Destination: out,
		Value:       *out,
	}
}

func OpenPaths(out *cli.StringSlice) cli.Flag {
	return &cli.StringSliceFlag{
		Name:        "open-path",
		Aliases:     []string{"open"},
		Usage:       "Path that can be reached without credentials (entries ending in * are prefix wildcards)",
		Destination: out,
	}
}

func InsecureCookie(out *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "insecure-cookie",
		Usage:       "Allow the session cookie over plain HTTP (development only)",
		Destination: out,
		Value:       *out,
	}
}
