package types

// Device is a managed device as returned by GET /devices.
type Device struct {
	ID         ID               `json:"id"`
	Attributes DeviceAttributes `json:"attributes"`
}

// DeviceAttributes carries the subset of device attributes the CLI prints.
// Pointer fields are null for devices that have not reported them yet.
type DeviceAttributes struct {
	Name                    string   `json:"name"`
	DeviceName              string   `json:"device_name"`
	Status                  string   `json:"status"`
	Model                   string   `json:"model"`
	ModelName               string   `json:"model_name"`
	SerialNumber            string   `json:"serial_number"`
	OSVersion               string   `json:"os_version"`
	AvailableDeviceCapacity *float64 `json:"available_device_capacity"`
	IsCloudBackupEnabled    *bool    `json:"is_cloud_backup_enabled"`
	LastSeenAt              string   `json:"last_seen_at"`
}

// UsernameAttribute is the custom attribute holding the enrolled user's email.
const UsernameAttribute = "username"

// CustomAttributeValue is one entry of GET /devices/{id}/custom_attribute_values.
type CustomAttributeValue struct {
	ID         ID `json:"id"`
	Attributes struct {
		Value string `json:"value"`
	} `json:"attributes"`
}

// InstalledApp is one entry of GET /devices/{id}/installed_apps.
type InstalledApp struct {
	ID         ID `json:"id"`
	Attributes struct {
		Name         string `json:"name"`
		Identifier   string `json:"identifier"`
		Version      string `json:"version"`
		ShortVersion string `json:"short_version"`
		Managed      bool   `json:"managed"`
	} `json:"attributes"`
}
