package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"simplemdm/internal/cli"
	"simplemdm/internal/output"
)

const formatCSV = "csv"

func logsCmd(src ClientSource) cli.Descriptor {
	return cli.Descriptor{
		Name:  "logs",
		Help:  "print the account audit log",
		Owner: "commands.logs",
		Flags: func(fs *pflag.FlagSet) {
			fs.StringP("format", "f", output.FormatJSON, "output format: json, yaml or csv")
			fs.IntP("limit", "n", 0, "stop after this many entries (0 = all)")
		},
		Run: func(ctx context.Context, inv cli.Invocation) error {
			format, err := inv.Flags.GetString("format")
			if err != nil {
				return err
			}
			format = strings.ToLower(format)
			switch format {
			case output.FormatJSON, output.FormatYAML, formatCSV:
			default:
				return fmt.Errorf("unknown --format %q (want json, yaml or csv)", format)
			}
			limit, err := inv.Flags.GetInt("limit")
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			c, err := src.Client(ctx, inv.Credentials)
			if err != nil {
				return err
			}
			entries, err := c.ListLogs(ctx, limit)
			if err != nil {
				return fmt.Errorf("fetching logs: %w", err)
			}

			if format != formatCSV {
				return output.Encode(inv.Stdout, format, entries)
			}
			for _, e := range entries {
				a := e.Attributes
				level := ""
				if a.Level != nil {
					level = fmt.Sprint(a.Level)
				}
				if err := output.Record(inv.Stdout,
					output.Quote(e.ID.String()),
					output.Quote(a.At),
					output.Quote(a.Namespace),
					output.Quote(a.EventType),
					output.Quote(level),
					output.Quote(a.Source),
				); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
