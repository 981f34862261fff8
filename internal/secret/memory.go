package secret

import (
	"sync"

	"simplemdm/internal/domain"
)

// Memory keeps secrets in a map for the life of the process.
type Memory struct {
	mu      sync.Mutex
	secrets map[entryID]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{secrets: make(map[entryID]string)}
}

func (m *Memory) Get(service, account string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.secrets[entryID{Service: service, Account: account}]
	if !ok {
		return "", ErrNotFound
	}
	return s, nil
}

func (m *Memory) Set(service, account, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.secrets[entryID{Service: service, Account: account}] = secret
	return nil
}

var _ domain.SecretStore = (*Memory)(nil)
