package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"simplemdm/internal/cli"
	"simplemdm/internal/domain"
	"simplemdm/internal/output"
)

// softwareCmd prints "email",id,"name","version" for every installed app
// whose name contains the argument. Apps without a version are skipped and
// no match is not an error.
func softwareCmd(src ClientSource) cli.Descriptor {
	return cli.Descriptor{
		Name:  "software",
		Help:  "find devices that have an app installed",
		Use:   "<name>",
		Owner: "commands.software",
		Args:  cobra.ExactArgs(1),
		Flags: func(fs *pflag.FlagSet) {
			fs.Bool("exact", false, "match the app name exactly (still case-insensitive)")
		},
		Run: func(ctx context.Context, inv cli.Invocation) error {
			exact, err := inv.Flags.GetBool("exact")
			if err != nil {
				return err
			}
			match := appMatcher(inv.Args[0], exact)

			c, err := src.Client(ctx, inv.Credentials)
			if err != nil {
				return err
			}
			devices, err := c.ListDevices(ctx)
			if err != nil {
				return fmt.Errorf("listing devices: %w", err)
			}
			for _, d := range devices {
				apps, err := c.ListInstalledApps(ctx, d.ID)
				if err != nil {
					return fmt.Errorf("installed apps of device %s: %w", d.ID, err)
				}
				var hits []domain.InstalledApp
				for _, app := range apps {
					if app.Attributes.Version != "" && match(app.Attributes.Name) {
						hits = append(hits, app)
					}
				}
				if len(hits) == 0 {
					continue
				}

				email, err := deviceEmail(ctx, c, d.ID)
				if err != nil {
					return err
				}
				for _, app := range hits {
					if err := output.Record(inv.Stdout,
						output.Quote(email),
						d.ID.String(),
						output.Quote(app.Attributes.Name),
						output.Quote(app.Attributes.Version),
					); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

func appMatcher(name string, exact bool) func(string) bool {
	want := strings.ToLower(strings.TrimSpace(name))
	if exact {
		return func(s string) bool { return strings.ToLower(s) == want }
	}
	return func(s string) bool { return strings.Contains(strings.ToLower(s), want) }
}

func appsCmd(src ClientSource) cli.Descriptor {
	return cli.Descriptor{
		Name:  "apps",
		Help:  "list the apps installed on a device",
		Use:   "<device-id>",
		Owner: "commands.apps",
		Args:  cobra.ExactArgs(1),
		Run: func(ctx context.Context, inv cli.Invocation) error {
			c, err := src.Client(ctx, inv.Credentials)
			if err != nil {
				return err
			}
			id := domain.ID(inv.Args[0])
			apps, err := c.ListInstalledApps(ctx, id)
			if err != nil {
				return fmt.Errorf("installed apps of device %s: %w", id, err)
			}
			for _, app := range apps {
				if err := output.Record(inv.Stdout,
					output.Quote(app.Attributes.Name),
					output.Quote(app.Attributes.Identifier),
					output.Quote(app.Attributes.Version),
				); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
