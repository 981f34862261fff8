package interfaces

import (
	"context"

	domaintypes "simplemdm/internal/domain/types"
)

// MDMClient is how commands talk to the SimpleMDM REST API.
type MDMClient interface {
	ListDevices(ctx context.Context) ([]domaintypes.Device, error)
	GetDevice(ctx context.Context, id domaintypes.ID) (domaintypes.Device, error)
	ListCustomAttributeValues(
		ctx context.Context,
		deviceID domaintypes.ID,
	) ([]domaintypes.CustomAttributeValue, error)
	ListInstalledApps(ctx context.Context, deviceID domaintypes.ID) ([]domaintypes.InstalledApp, error)
	ListLogs(ctx context.Context, limit int) ([]domaintypes.LogEntry, error)
}
