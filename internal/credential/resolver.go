package credential

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"simplemdm/internal/domain"
	"simplemdm/internal/logging"
	"simplemdm/internal/secret"
	"simplemdm/internal/util/memzero"
)

var (
	// ErrInteractiveRequired is returned when no key is known and the
	// process cannot prompt for one.
	ErrInteractiveRequired = errors.New("no API key available and cannot prompt: " +
		"stdin and stderr must both be terminals (pass --key, or run once interactively to save a key)")
	// ErrEmptyKey is returned when the prompt was answered with nothing.
	ErrEmptyKey = errors.New("empty API key")
)

const (
	keyPrompt     = "SimpleMDM API Key: "
	persistPrompt = "Would you like to save this API key to the system keychain? [Yn] "
	savedMsg      = "New API key saved to the system keychain."
	sessionMsg    = "New API key will only be used for this session."
)

// Resolver produces the API key for a run and caches it.
// It is not safe for concurrent use; a CLI run resolves on one goroutine.
type Resolver struct {
	store    domain.SecretStore
	console  Console
	service  string
	account  string
	key      domain.Credential
	resolved bool
}

// New returns a Resolver backed by store that prompts through console.
func New(store domain.SecretStore, console Console) *Resolver {
	return &Resolver{
		store:   store,
		console: console,
		service: secret.ServiceName,
		account: secret.AccountName,
	}
}

// Install makes key the credential for this run, ahead of the store and the
// prompt. An empty key is ignored.
func (r *Resolver) Install(key string) {
	if key == "" {
		return
	}
	r.key = domain.Credential(key)
	r.resolved = true
}

// Resolve returns the cached key, resolving it on first call.
func (r *Resolver) Resolve(ctx context.Context) (domain.Credential, error) {
	if r.resolved {
		return r.key, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	saved, err := r.store.Get(r.service, r.account)
	switch {
	case err == nil && saved != "":
		logging.Debugf("using API key from the secret store")
		r.cache(domain.Credential(saved))
		return r.key, nil
	case err == nil, errors.Is(err, secret.ErrNotFound):
		logging.Debugf("no saved API key")
	default:
		logging.Warnf("could not read saved API key: %v", err)
	}
	return r.prompt(ctx)
}

// ForcePrompt asks for a key even when one is cached or saved, and replaces
// the cached key with the answer.
func (r *Resolver) ForcePrompt(ctx context.Context) (domain.Credential, error) {
	return r.prompt(ctx)
}

func (r *Resolver) prompt(ctx context.Context) (domain.Credential, error) {
	if !r.console.Interactive() {
		return "", ErrInteractiveRequired
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	raw, err := r.console.ReadSecret(keyPrompt)
	if err != nil {
		memzero.Zero(raw)
		return "", fmt.Errorf("read API key: %w", err)
	}
	key := strings.TrimSpace(string(raw))
	memzero.Zero(raw)
	if key == "" {
		return "", ErrEmptyKey
	}

	if r.confirmPersist(ctx) {
		if err := r.store.Set(r.service, r.account, key); err != nil {
			r.console.Say(fmt.Sprintf("Could not save the API key: %v", err))
			r.console.Say(sessionMsg)
		} else {
			r.console.Say(savedMsg)
		}
	} else {
		r.console.Say(sessionMsg)
	}

	r.cache(domain.Credential(key))
	return r.key, nil
}

// confirmPersist asks until it gets yes, no or an empty (yes) answer.
// Read errors and EOF count as no.
func (r *Resolver) confirmPersist(ctx context.Context) bool {
	for ctx.Err() == nil {
		answer, err := r.console.ReadLine(persistPrompt)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logging.Warnf("reading answer: %v", err)
			}
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "", "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
	return false
}

func (r *Resolver) cache(key domain.Credential) {
	r.key = key
	r.resolved = true
}

// Compile-time assertion that Resolver implements domain.CredentialProvider.
var _ domain.CredentialProvider = (*Resolver)(nil)
