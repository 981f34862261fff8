package interfaces

import (
	"context"

	domaintypes "simplemdm/internal/domain/types"
)

// CredentialProvider hands out the API key for the current run, resolving it
// on first use.
type CredentialProvider interface {
	Resolve(ctx context.Context) (domaintypes.Credential, error)
}
