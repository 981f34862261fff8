package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"simplemdm/internal/cli"
	"simplemdm/internal/domain"
	"simplemdm/internal/output"
)

func listCmd(src ClientSource) cli.Descriptor {
	return cli.Descriptor{
		Name:  "list",
		Help:  "list managed devices",
		Owner: "commands.list",
		Run: func(ctx context.Context, inv cli.Invocation) error {
			c, err := src.Client(ctx, inv.Credentials)
			if err != nil {
				return err
			}
			devices, err := c.ListDevices(ctx)
			if err != nil {
				return fmt.Errorf("listing devices: %w", err)
			}
			for _, d := range devices {
				email, err := deviceEmail(ctx, c, d.ID)
				if err != nil {
					return err
				}
				if err := writeDevice(inv.Stdout, d, email); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func deviceCmd(src ClientSource) cli.Descriptor {
	return cli.Descriptor{
		Name:  "device",
		Help:  "show one managed device",
		Use:   "<id>",
		Owner: "commands.device",
		Args:  cobra.ExactArgs(1),
		Run: func(ctx context.Context, inv cli.Invocation) error {
			c, err := src.Client(ctx, inv.Credentials)
			if err != nil {
				return err
			}
			id := domain.ID(inv.Args[0])
			d, err := c.GetDevice(ctx, id)
			if err != nil {
				return fmt.Errorf("fetching device %s: %w", id, err)
			}
			email, err := deviceEmail(ctx, c, d.ID)
			if err != nil {
				return err
			}
			return writeDevice(inv.Stdout, d, email)
		},
	}
}

// deviceEmail returns the device's "username" custom attribute, or "".
func deviceEmail(ctx context.Context, c domain.MDMClient, id domain.ID) (string, error) {
	values, err := c.ListCustomAttributeValues(ctx, id)
	if err != nil {
		return "", fmt.Errorf("custom attributes of device %s: %w", id, err)
	}
	email := ""
	for _, v := range values {
		if v.ID == domain.UsernameAttribute {
			email = v.Attributes.Value
		}
	}
	return email, nil
}

// writeDevice prints id,"email","device_name","model","model_name",
// "serial_number","os_version","available_device_capacity","is_cloud_backup_enabled".
func writeDevice(w io.Writer, d domain.Device, email string) error {
	a := d.Attributes
	return output.Record(w,
		d.ID.String(),
		output.Quote(email),
		output.Quote(a.DeviceName),
		output.Quote(a.Model),
		output.Quote(a.ModelName),
		output.Quote(a.SerialNumber),
		output.Quote(a.OSVersion),
		output.Quote(output.Float(a.AvailableDeviceCapacity)),
		output.Quote(output.Bool(a.IsCloudBackupEnabled)),
	)
}
