package commands

import (
	"context"
	"fmt"
	"os"

	"simplemdm/internal/app"
	"simplemdm/internal/cli"
	"simplemdm/internal/domain"
	"simplemdm/internal/version"
)

// ClientSource hands commands an authenticated API client.
type ClientSource interface {
	Client(ctx context.Context, creds domain.CredentialProvider) (domain.MDMClient, error)
}

// Register adds every simplemdm command to reg, in help order.
func Register(reg *cli.Registry, src ClientSource) error {
	for _, d := range []cli.Descriptor{
		listCmd(src),
		softwareCmd(src),
		deviceCmd(src),
		appsCmd(src),
		logsCmd(src),
	} {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI for argv and returns the process exit code.
func Execute(ctx context.Context, argv []string) int {
	a := app.New(os.Stdin, os.Stderr)

	reg := cli.NewRegistry()
	if err := Register(reg, a); err != nil {
		fmt.Fprintf(os.Stderr, "simplemdm: %v\n", err)
		return cli.ExitFailure
	}

	d := &cli.Dispatcher{
		Registry:    reg,
		Version:     version.String(),
		Prepare:     a.Prepare,
		Interrupted: a.RestoreTerminal,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
	return d.Run(ctx, argv)
}
