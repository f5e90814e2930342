// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"dtask/internal/commands"
	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
)

// ServiceFactory opens the task store selected by cfg.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the named command, or to "list"
// when args is empty. Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name := "list"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}

	// Flags require a command, so a leading flag is an unknown command
	cmd, ok := d.registry.Find(name)
	if !ok || strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	backend   string
	quiet     bool
	debug     bool
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	common, positional, err := parseArgs(cmd, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cfg, err := loadConfig(common)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	if !cmd.NeedsStore() {
		return cmd.Run(ctx, cfg, nil, positional, out, errOut)
	}

	svc, code := d.openStore(ctx, cfg, errOut)
	if svc == nil {
		return code
	}
	if closer, ok := svc.(service.Closer); ok {
		defer closer.Close()
	}
	return cmd.Run(ctx, cfg, svc, positional, out, errOut)
}

// parseArgs binds the common and command flags and returns the positional
// arguments. Errors are phrased for the "error: " prefix.
func parseArgs(cmd commands.Command, args []string) (commonFlags, []string, error) {
	var common commonFlags
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&common.configDir, "config", "", "")
	fs.StringVar(&common.backend, "backend", "", "")
	fs.BoolVar(&common.quiet, "quiet", false, "")
	fs.BoolVar(&common.debug, "debug", false, "")
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		msg := err.Error()
		if rest, ok := strings.CutPrefix(msg, "flag needs an argument:"); ok {
			return common, nil, fmt.Errorf("flag needs an argument: %s", strings.TrimSpace(rest))
		}
		if rest, ok := strings.CutPrefix(msg, "flag provided but not defined:"); ok {
			return common, nil, fmt.Errorf("unknown flag: %s", strings.TrimSpace(rest))
		}
		return common, nil, err
	}

	// Flags after a "--" terminator are still rejected
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		return common, nil, fmt.Errorf("unknown flag: %s", positional[0])
	}
	return common, positional, nil
}

func loadConfig(common commonFlags) (*config.Config, error) {
	cfg, err := config.New(common.configDir)
	if err != nil {
		return nil, err
	}
	cfg.Quiet = common.quiet
	cfg.Debug = cfg.Debug || common.debug
	if common.backend != "" {
		cfg.Backend = common.backend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// openStore checks credentials and calls the factory. On failure it reports
// the error and returns a nil service with the exit code.
func (d *Dispatcher) openStore(ctx context.Context, cfg *config.Config, errOut io.Writer) (service.Service, int) {
	// Firestore needs a stored login unless it talks to the emulator
	if cfg.NeedsOAuth() {
		switch {
		case !cfg.HasOAuthClient():
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return nil, exitcode.AuthError
		case !cfg.HasToken():
			fmt.Fprintln(errOut, "error: not logged in (run: dtask login)")
			return nil, exitcode.AuthError
		}
	}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no task store configured")
		return nil, exitcode.BackendError
	}
	svc, err := d.factory(ctx, cfg)
	switch {
	case err == nil && svc == nil:
		fmt.Fprintln(errOut, "error: no task store configured")
		return nil, exitcode.BackendError
	case err == nil:
		return svc, exitcode.Success
	case errors.Is(err, service.ErrAuth), errors.Is(err, config.ErrNotConfigured):
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return nil, exitcode.BackendError
	}
}
