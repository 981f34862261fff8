package domain

import (
	interfaces "simplemdm/internal/domain/interfaces"
	types "simplemdm/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	ID                   = types.ID
	Credential           = types.Credential
	Device               = types.Device
	DeviceAttributes     = types.DeviceAttributes
	CustomAttributeValue = types.CustomAttributeValue
	InstalledApp         = types.InstalledApp
	LogEntry             = types.LogEntry
	LogAttributes        = types.LogAttributes
)

// UsernameAttribute is the custom attribute holding the device user's email.
const UsernameAttribute = types.UsernameAttribute

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	SecretStore        = interfaces.SecretStore
	CredentialProvider = interfaces.CredentialProvider
	MDMClient          = interfaces.MDMClient
)
