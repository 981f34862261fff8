package app

import (
	"net/http"

	"simplemdm/internal/api"
	"simplemdm/internal/credential"
	"simplemdm/internal/domain"
	"simplemdm/internal/secret"
)

// Wire bundles the stores, resolver and HTTP client for one run.
type Wire struct {
	Config   Config
	Secrets  domain.SecretStore
	Resolver *credential.Resolver
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg. Prompts go through console.
func NewWire(cfg Config, console credential.Console) (*Wire, error) {
	secrets, err := secret.Open(secret.Options{
		Backend:    cfg.SecretStore.Backend,
		Dir:        cfg.SecretStore.Dir,
		Passphrase: cfg.SecretStore.Passphrase,
	})
	if err != nil {
		return nil, err
	}

	return &Wire{
		Config:   cfg,
		Secrets:  secrets,
		Resolver: credential.New(secrets, console),
		HTTP:     &http.Client{Timeout: cfg.API.Timeout},
	}, nil
}

// NewClient returns an API client authenticated with key.
func (w *Wire) NewClient(key domain.Credential) *api.Client {
	return api.New(w.Config.API.BaseURL, key, w.HTTP)
}
