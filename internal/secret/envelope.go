package secret

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"simplemdm/internal/util/memzero"
)

// sealedFormatVersion is the newest on-disk format this build can open.
const sealedFormatVersion = 1

// errWrongPassphrase covers a bad passphrase, a tampered entry and an entry
// moved to another service or account.
var errWrongPassphrase = errors.New("wrong passphrase or corrupted secrets file")

// entryID names one stored secret.
type entryID struct {
	Service string
	Account string
}

// additionalData binds a ciphertext to the entry it was written for.
func (id entryID) additionalData() []byte {
	return []byte(fmt.Sprintf("simplemdm/secret/v%d\x00%s\x00%s", sealedFormatVersion, id.Service, id.Account))
}

// sealedFile is the on-disk JSON layout. The KDF parameters are shared by
// every entry; each entry carries its own random nonce.
type sealedFile struct {
	V       int           `json:"v"`
	KDF     kdfHeader     `json:"kdf"`
	Entries []sealedEntry `json:"entries"`
}

type kdfHeader struct {
	Salt []byte `json:"salt"`
	N    int    `json:"n"`
	R    int    `json:"r"`
	P    int    `json:"p"`
}

type sealedEntry struct {
	Service string `json:"service"`
	Account string `json:"account"`
	Nonce   []byte `json:"nonce"`
	Cipher  []byte `json:"cipher"`
}

// sealEntries encrypts every secret under a key derived from passphrase
// with a fresh salt. Output is ordered by service, then account.
func sealEntries(passphrase string, secrets map[entryID]string, params scryptParams) ([]byte, error) {
	hdr := kdfHeader{Salt: make([]byte, 16), N: params.N, R: params.R, P: params.P}
	if _, err := rand.Read(hdr.Salt); err != nil {
		return nil, err
	}
	aead, wipe, err := deriveAEAD(passphrase, hdr)
	if err != nil {
		return nil, err
	}
	defer wipe()

	ids := make([]entryID, 0, len(secrets))
	for id := range secrets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Service != ids[j].Service {
			return ids[i].Service < ids[j].Service
		}
		return ids[i].Account < ids[j].Account
	})

	out := sealedFile{V: sealedFormatVersion, KDF: hdr, Entries: make([]sealedEntry, 0, len(ids))}
	for _, id := range ids {
		nonce := make([]byte, aead.NonceSize())
		if _, err := rand.Read(nonce); err != nil {
			return nil, err
		}
		pt := []byte(secrets[id])
		out.Entries = append(out.Entries, sealedEntry{
			Service: id.Service,
			Account: id.Account,
			Nonce:   nonce,
			Cipher:  aead.Seal(nil, nonce, pt, id.additionalData()),
		})
		memzero.Zero(pt)
	}
	return json.Marshal(out)
}

// openEntries reverses sealEntries. Any entry failing authentication fails
// the whole file.
func openEntries(passphrase string, b []byte) (map[entryID]string, error) {
	var in sealedFile
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, fmt.Errorf("decode secrets file: %w", err)
	}
	if in.V < 1 || in.V > sealedFormatVersion {
		return nil, fmt.Errorf("unsupported secrets file version %d", in.V)
	}
	aead, wipe, err := deriveAEAD(passphrase, in.KDF)
	if err != nil {
		return nil, err
	}
	defer wipe()

	secrets := make(map[entryID]string, len(in.Entries))
	for _, e := range in.Entries {
		if len(e.Nonce) != aead.NonceSize() {
			return nil, errWrongPassphrase
		}
		id := entryID{Service: e.Service, Account: e.Account}
		pt, err := aead.Open(nil, e.Nonce, e.Cipher, id.additionalData())
		if err != nil {
			return nil, errWrongPassphrase
		}
		secrets[id] = string(pt)
		memzero.Zero(pt)
	}
	return secrets, nil
}

// deriveAEAD stretches passphrase with scrypt into an XChaCha20-Poly1305
// key. The returned func wipes the key.
func deriveAEAD(passphrase string, hdr kdfHeader) (cipher.AEAD, func(), error) {
	if len(hdr.Salt) == 0 {
		return nil, nil, errors.New("secrets file has no salt")
	}
	key, err := scrypt.Key([]byte(passphrase), hdr.Salt, hdr.N, hdr.R, hdr.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, nil, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		memzero.Zero(key)
		return nil, nil, err
	}
	return aead, func() { memzero.Zero(key) }, nil
}

type scryptParams struct{ N, R, P int }

// Tunables for scrypt key derivation.
func defaultScryptParams() scryptParams { return scryptParams{N: 1 << 15, R: 8, P: 1} }
