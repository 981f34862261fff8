package cli

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"simplemdm/internal/domain"
)

// Handler runs one command.
type Handler func(ctx context.Context, inv Invocation) error

// Invocation is what a handler gets for one run.
type Invocation struct {
	Args        []string
	Flags       *pflag.FlagSet
	Credentials domain.CredentialProvider
	Stdout      io.Writer
	Stderr      io.Writer
}

// Descriptor describes one subcommand.
type Descriptor struct {
	Name string
	Help string
	// Use is the argument synopsis shown after the name, e.g. "<name>".
	Use string
	// Owner identifies who registered the command in error messages.
	// Defaults to the handler's function name.
	Owner string
	// Args validates positional arguments; nil accepts none.
	Args  cobra.PositionalArgs
	Flags func(fs *pflag.FlagSet)
	Run   Handler
}

// ConfigurationError reports a descriptor that cannot be registered.
type ConfigurationError struct {
	Name          string
	Owner         string
	ExistingOwner string
	Reason        string
}

func (e *ConfigurationError) Error() string {
	if e.ExistingOwner != "" {
		return fmt.Sprintf("command %q (%s) is already defined by %s", e.Name, e.Owner, e.ExistingOwner)
	}
	return fmt.Sprintf("command %q (%s): %s", e.Name, e.Owner, e.Reason)
}

// Registry maps command names to descriptors and remembers insertion order.
// It is filled once at startup and read-only afterwards.
type Registry struct {
	byName map[string]*Descriptor
	order  []*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register validates d and adds it. On error the registry is unchanged.
func (r *Registry) Register(d Descriptor) error {
	if d.Owner == "" {
		d.Owner = handlerName(d.Run)
	}
	switch {
	case d.Name == "":
		return &ConfigurationError{Owner: d.Owner, Reason: "name is required"}
	case d.Help == "":
		return &ConfigurationError{Name: d.Name, Owner: d.Owner, Reason: "help is required"}
	case d.Run == nil:
		return &ConfigurationError{Name: d.Name, Owner: d.Owner, Reason: "handler is required"}
	}
	if prev, ok := r.byName[d.Name]; ok {
		return &ConfigurationError{Name: d.Name, Owner: d.Owner, ExistingOwner: prev.Owner}
	}
	r.byName[d.Name] = &d
	r.order = append(r.order, &d)
	return nil
}

// MustRegister is Register that panics on a configuration error.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return *d, true
}

// All returns the descriptors in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, d := range r.order {
		out = append(out, *d)
	}
	return out
}

// Len is the number of registered commands.
func (r *Registry) Len() int { return len(r.order) }

func handlerName(h Handler) string {
	if h == nil {
		return "<nil handler>"
	}
	if fn := runtime.FuncForPC(reflect.ValueOf(h).Pointer()); fn != nil {
		return fn.Name()
	}
	return "<unknown>"
}
