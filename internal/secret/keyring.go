package secret

import (
	"errors"

	"github.com/zalando/go-keyring"

	"simplemdm/internal/domain"
)

// Keyring stores secrets in the host's credential store.
type Keyring struct{}

// NewKeyring returns a Keyring store.
func NewKeyring() *Keyring { return &Keyring{} }

// Get reads the secret for (service, account).
func (k *Keyring) Get(service, account string) (string, error) {
	s, err := keyring.Get(service, account)
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrNotFound
	default:
		return "", unavailable(BackendKeyring, "get", err)
	}
}

// Set saves secret under (service, account), replacing any previous value.
func (k *Keyring) Set(service, account, secret string) error {
	if err := keyring.Set(service, account, secret); err != nil {
		if errors.Is(err, keyring.ErrSetDataTooBig) {
			return &Error{Op: "set", Backend: BackendKeyring, Err: err}
		}
		return unavailable(BackendKeyring, "set", err)
	}
	return nil
}

// Compile-time assertion that Keyring implements domain.SecretStore.
var _ domain.SecretStore = (*Keyring)(nil)
