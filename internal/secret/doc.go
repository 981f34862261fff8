// Package secret provides the backends that hold the saved SimpleMDM API key.
//
// Every backend implements domain.SecretStore and addresses a secret by a
// (service, account) pair. The CLI always uses ServiceName and AccountName.
//
// Backends:
//   - Keyring: the host's credential store (macOS Keychain, Secret Service,
//     Windows Credential Manager).
//   - File: a passphrase-sealed JSON file for hosts without a keyring.
//   - Memory: a process-local map.
//
// A backend that cannot be reached returns an *Error wrapping ErrUnavailable,
// so callers can tell "nothing saved" (ErrNotFound) apart from "no store".
package secret
