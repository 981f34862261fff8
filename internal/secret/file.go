package secret

import (
	"errors"
	"path/filepath"
	"sync"

	"simplemdm/internal/domain"
)

const secretsFilename = "secrets.json.enc"

// File persists secrets in a passphrase-sealed JSON file under dir.
type File struct {
	dir        string
	passphrase string
	kdf        scryptParams
	mu         sync.Mutex
}

// NewFile returns a File store rooted at dir. An empty passphrase or dir
// makes every operation fail with ErrUnavailable.
func NewFile(dir, passphrase string) *File {
	return &File{dir: dir, passphrase: passphrase, kdf: defaultScryptParams()}
}

// Path is the location of the sealed file.
func (s *File) Path() string { return filepath.Join(s.dir, secretsFilename) }

func (s *File) Get(service, account string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load("get")
	if err != nil {
		return "", err
	}
	v, ok := secrets[entryID{Service: service, Account: account}]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *File) Set(service, account, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secrets, err := s.load("set")
	if err != nil {
		return err
	}
	secrets[entryID{Service: service, Account: account}] = secret

	blob, err := sealEntries(s.passphrase, secrets, s.kdf)
	if err != nil {
		return &Error{Op: "set", Backend: BackendFile, Err: err}
	}
	if err := writeFile(s.Path(), blob, 0o600); err != nil {
		return unavailable(BackendFile, "set", err)
	}
	return nil
}

// load returns the decrypted secrets; a missing file is an empty map.
func (s *File) load(op string) (map[entryID]string, error) {
	if s.dir == "" {
		return nil, unavailable(BackendFile, op, errors.New("no directory configured"))
	}
	if s.passphrase == "" {
		return nil, unavailable(BackendFile, op, errors.New("no passphrase configured (secret_store.passphrase)"))
	}
	blob, err := readFile(s.Path())
	if err != nil {
		return nil, unavailable(BackendFile, op, err)
	}
	if blob == nil {
		return make(map[entryID]string), nil
	}
	secrets, err := openEntries(s.passphrase, blob)
	if err != nil {
		return nil, &Error{Op: op, Backend: BackendFile, Err: err}
	}
	return secrets, nil
}

// Compile-time assertion that File implements domain.SecretStore.
var _ domain.SecretStore = (*File)(nil)
