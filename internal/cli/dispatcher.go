package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"simplemdm/internal/domain"
)

// Exit codes returned by Dispatcher.Run.
const (
	ExitOK          = 0
	ExitInterrupted = 1
	ExitFailure     = 2
)

// CredentialSource is the resolver surface the dispatcher drives.
type CredentialSource interface {
	domain.CredentialProvider
	Install(key string)
	ForcePrompt(ctx context.Context) (domain.Credential, error)
}

// GlobalFlags are the parsed root flags of one invocation.
type GlobalFlags struct {
	Key          string
	PromptForKey bool
	Version      bool
	Debug        bool
	ConfigFile   string
}

// PrepareFunc loads run-wide state (configuration, logging, secret store)
// once the global flags are known and returns the credential source to use.
type PrepareFunc func(ctx context.Context, g GlobalFlags) (CredentialSource, error)

// Dispatcher parses an argument vector and runs the selected command.
type Dispatcher struct {
	Registry *Registry
	Version  string
	// Prepare is called after the version check. When nil, Credentials is used as is.
	Prepare     PrepareFunc
	Credentials CredentialSource
	// Interrupted runs when ctx is cancelled, before Run returns. The
	// binary uses it to restore a terminal left in no-echo mode.
	Interrupted func()
	Stdout      io.Writer
	Stderr      io.Writer
}

// errVersionShown stops cobra after --version without running a command.
var errVersionShown = errors.New("version shown")

// Run executes argv (without the program name) and returns the exit code.
// Cancelling ctx, which the binary ties to SIGINT and SIGTERM, ends the run
// with ExitInterrupted even if the command is blocked on terminal input.
func (d *Dispatcher) Run(ctx context.Context, argv []string) int {
	root := d.rootCommand()
	root.SetArgs(argv)

	// Terminal reads ignore ctx, so the command runs on its own goroutine
	// and an interrupt returns without waiting for it.
	errc := make(chan error, 1)
	go func() { errc <- root.ExecuteContext(ctx) }()

	select {
	case err := <-errc:
		return d.exitCode(ctx, err)
	case <-ctx.Done():
		if d.Interrupted != nil {
			d.Interrupted()
		}
		fmt.Fprintln(d.stderr(), "simplemdm: interrupted")
		return ExitInterrupted
	}
}

func (d *Dispatcher) exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil, errors.Is(err, errVersionShown):
		return ExitOK
	case errors.Is(err, context.Canceled), ctx.Err() != nil:
		fmt.Fprintln(d.stderr(), "simplemdm: interrupted")
		return ExitInterrupted
	default:
		fmt.Fprintf(d.stderr(), "simplemdm: %v\n", err)
		return ExitFailure
	}
}

func (d *Dispatcher) rootCommand() *cobra.Command {
	var g GlobalFlags
	var creds CredentialSource

	root := &cobra.Command{
		Use:           "simplemdm",
		Short:         "Query a SimpleMDM account from the command line",
		SilenceErrors: true,
		SilenceUsage:  true,
		// A no-op Run makes a bare invocation exit 0 without printing help.
		Run: func(cmd *cobra.Command, args []string) {},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("key") && flags.Changed("prompt-for-key") {
				return errors.New("--key and --prompt-for-key cannot be used together")
			}
			if g.Version {
				fmt.Fprintf(cmd.OutOrStdout(), "simplemdm %s\n", d.Version)
				return errVersionShown
			}
			// A bare invocation does nothing, so it needs no configuration.
			if cmd == cmd.Root() && !flags.Changed("key") && !g.PromptForKey {
				return nil
			}

			var err error
			if creds, err = d.prepare(cmd.Context(), g); err != nil {
				return err
			}
			creds.Install(g.Key)
			if g.PromptForKey {
				if _, err := creds.ForcePrompt(cmd.Context()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(d.stdout())
	root.SetErr(d.stderr())

	pf := root.PersistentFlags()
	pf.StringVarP(&g.Key, "key", "k", "",
		"use the provided API key; if omitted, a previously saved key is loaded from the secret store; "+
			"if no key has been saved and stdin is a TTY, you are prompted for one")
	pf.BoolVarP(&g.PromptForKey, "prompt-for-key", "p", false,
		"prompt for an API key even if one is already saved")
	pf.BoolVarP(&g.Version, "version", "v", false, "print the version and exit")
	pf.BoolVar(&g.Debug, "debug", false, "log diagnostics to stderr")
	pf.StringVar(&g.ConfigFile, "config", "", "config file (default $XDG_CONFIG_HOME/simplemdm/simplemdm.yaml)")

	for _, desc := range d.Registry.All() {
		root.AddCommand(d.subcommand(desc, &g, &creds))
	}
	return root
}

func (d *Dispatcher) subcommand(desc Descriptor, g *GlobalFlags, creds *CredentialSource) *cobra.Command {
	validate := desc.Args
	if validate == nil {
		validate = cobra.NoArgs
	}
	cmd := &cobra.Command{
		Use:   strings.TrimSpace(desc.Name + " " + desc.Use),
		Short: desc.Help,
		// --version wins over a subcommand even when its arguments are incomplete.
		Args: func(cmd *cobra.Command, args []string) error {
			if g.Version {
				return nil
			}
			return validate(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return desc.Run(cmd.Context(), Invocation{
				Args:        args,
				Flags:       cmd.Flags(),
				Credentials: *creds,
				Stdout:      cmd.OutOrStdout(),
				Stderr:      cmd.ErrOrStderr(),
			})
		},
	}
	if desc.Flags != nil {
		desc.Flags(cmd.Flags())
	}
	return cmd
}

func (d *Dispatcher) prepare(ctx context.Context, g GlobalFlags) (CredentialSource, error) {
	if d.Prepare != nil {
		return d.Prepare(ctx, g)
	}
	if d.Credentials == nil {
		return nil, errors.New("no credential source configured")
	}
	return d.Credentials, nil
}

func (d *Dispatcher) stdout() io.Writer {
	if d.Stdout != nil {
		return d.Stdout
	}
	return os.Stdout
}

func (d *Dispatcher) stderr() io.Writer {
	if d.Stderr != nil {
		return d.Stderr
	}
	return os.Stderr
}
