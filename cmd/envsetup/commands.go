package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/kxue43/envsetup/config"
	"github.com/kxue43/envsetup/interpreter"
	"github.com/kxue43/envsetup/setup"
	"github.com/kxue43/envsetup/shell"
)

type (
	globals struct {
		Config  string           `name:"config" type:"path" help:"Project configuration file. Defaults to ./envsetup.toml when present."`
		Python  string           `name:"python" help:"Python interpreter to use instead of python3/python on PATH."`
		Verbose bool             `name:"verbose" short:"v" help:"Log every command envsetup runs."`
		Version kong.VersionFlag `name:"version" help:"Show version information and quit."`
	}

	setupCmd struct {
		Choice string `name:"choice" xor:"menu" help:"Setup method (1-3) to use instead of asking."`
		TUI    bool   `name:"tui" xor:"menu" help:"Pick the setup method from a full-screen list."`
		Strict bool   `name:"strict" help:"Exit with status 1 when the chosen setup method fails."`
	}

	checkCmd struct{}

	environment struct {
		logger       *log.Logger
		console      *setup.Console
		orchestrator *setup.Orchestrator
		probe        setup.ProbeFunc
		stdin        io.Reader
		stdout       io.Writer
	}
)

// newEnvironment always returns a usable logger, even with a non-nil error.
func newEnvironment(g globals) (*environment, error) {
	env := environment{
		logger: newLogger(os.Stderr, g.Verbose),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}

	dir, err := os.Getwd()
	if err != nil {
		return &env, fmt.Errorf("failed to get current working directory: %w", err)
	}

	cfg, found, err := config.Load(dir, g.Config)
	if err != nil {
		return &env, err
	}

	if found != "" {
		env.logger.Debug("loaded configuration", "path", found)
	}

	python := g.Python
	if python == "" {
		python = cfg.Python
	}

	env.probe = func(ctx context.Context) (interpreter.Interpreter, error) {
		path, err := interpreter.Locate(python, runtime.GOOS, exec.LookPath)
		if err != nil {
			return interpreter.Interpreter{}, err
		}

		env.logger.Debug("probing interpreter", "path", path)

		return interpreter.Probe(ctx, path)
	}

	env.console = setup.NewConsole(env.stdout)

	env.orchestrator = setup.New(cfg, dir, runtime.GOOS, shell.NewRunner(dir, env.logger), env.console, env.logger)

	return &env, nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "envsetup"})

	if verbose {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	return logger
}

func (c *setupCmd) chooser(env *environment) setup.Chooser {
	switch {
	case c.Choice != "":
		return setup.FixedChoice(c.Choice)
	case c.TUI:
		return setup.Picker{In: env.stdin, Out: env.stdout}
	default:
		return setup.NewLinePrompter(env.console, env.stdin)
	}
}

// Run keeps a failed setup method out of the exit status unless --strict is given.
func (c *setupCmd) Run(ctx context.Context, env *environment) error {
	err := env.orchestrator.Run(ctx, env.probe, c.chooser(env))
	if err == nil || c.Strict || setup.IsFatal(err) || !setup.Reported(err) {
		return err
	}

	env.logger.Debug("setup method did not complete", "err", err)

	return nil
}

func (c *checkCmd) Run(ctx context.Context, env *environment) error {
	report := env.orchestrator.Check(ctx, env.probe)

	report.Render(env.stdout)

	if !report.Compatible {
		return fmt.Errorf("%w: see the report above", setup.ErrIncompatibleRuntime)
	}

	return nil
}
