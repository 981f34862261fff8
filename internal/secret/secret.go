package secret

import (
	"errors"
	"fmt"
	"strings"

	"simplemdm/internal/domain"
)

const (
	// ServiceName is the keyring service the API key lives under.
	ServiceName = "SimpleMDMpy"
	// AccountName is the keyring account label for the API key.
	AccountName = "SimpleMDMKey"
)

var (
	// ErrNotFound is returned when no secret is saved under the given name.
	ErrNotFound = errors.New("secret not found")
	// ErrUnavailable is returned when the backing store cannot be used on this host.
	ErrUnavailable = errors.New("secret store unavailable")
)

// Error records a failed store operation.
type Error struct {
	Op      string // "get" or "set"
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s secret store: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Backend names accepted by Open.
const (
	BackendKeyring = "keyring"
	BackendFile    = "file"
	BackendMemory  = "memory"
)

// Options configure Open.
type Options struct {
	Backend    string
	Dir        string // File backend directory
	Passphrase string // File backend passphrase
}

// Open returns the store selected by opts.Backend. An empty name selects the
// keyring.
func Open(opts Options) (domain.SecretStore, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendKeyring:
		return NewKeyring(), nil
	case BackendFile:
		return NewFile(opts.Dir, opts.Passphrase), nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown secret store backend %q (want %s, %s or %s)",
			opts.Backend, BackendKeyring, BackendFile, BackendMemory)
	}
}

func unavailable(backend, op string, err error) error {
	return &Error{Op: op, Backend: backend, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
}
