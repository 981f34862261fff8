package app

import (
	"context"
	"errors"
	"os"

	"simplemdm/internal/cli"
	"simplemdm/internal/credential"
	"simplemdm/internal/domain"
	"simplemdm/internal/logging"
)

// App builds the run's Wire once global flags are known and serves API
// clients to commands.
type App struct {
	stderr  *os.File
	console *credential.Terminal
	wire    *Wire
}

// New returns an App that prompts on stderr and reads from stdin.
func New(stdin, stderr *os.File) *App {
	return &App{stderr: stderr, console: credential.NewTerminal(stdin, stderr)}
}

// RestoreTerminal undoes a key prompt that an interrupt cut short.
func (a *App) RestoreTerminal() {
	if err := a.console.Restore(); err != nil {
		logging.Warnf("restore terminal: %v", err)
	}
}

// Prepare implements cli.PrepareFunc.
func (a *App) Prepare(_ context.Context, g cli.GlobalFlags) (cli.CredentialSource, error) {
	logging.SetOutput(a.stderr)
	cfg, err := LoadConfig(g.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		logging.Warnf("%v", err)
	}
	if g.Debug {
		logging.SetDebug(true)
	}

	w, err := NewWire(cfg, a.console)
	if err != nil {
		return nil, err
	}
	logging.Debugf("secret store backend %q, api %s", cfg.SecretStore.Backend, cfg.API.BaseURL)
	a.wire = w
	return w.Resolver, nil
}

// Client resolves the API key through creds and returns a client using it.
func (a *App) Client(ctx context.Context, creds domain.CredentialProvider) (domain.MDMClient, error) {
	if a.wire == nil {
		return nil, errors.New("app not prepared")
	}
	key, err := creds.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return a.wire.NewClient(key), nil
}
