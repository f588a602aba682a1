// Package setup bootstraps the Python environment of a project: it checks the interpreter
// version, asks for a setup method and runs the matching package-installation commands.
//
// Failures of a setup method stop that method only. The caller decides whether they
// affect the exit status; see [IsFatal].
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/kxue43/envsetup/condaenv"
	"github.com/kxue43/envsetup/config"
	"github.com/kxue43/envsetup/interpreter"
	"github.com/kxue43/envsetup/shell"
)

type (
	Executor interface {
		Run(ctx context.Context, command string) shell.Result
	}

	Chooser interface {
		Choose(ctx context.Context, methods []Method) (string, error)
	}

	ProbeFunc func(context.Context) (interpreter.Interpreter, error)

	// Method is one entry of the setup menu.
	Method struct {
		Key   string
		Label string
	}

	Orchestrator struct {
		exec    Executor
		console *Console
		logger  *log.Logger
		cfg     config.Config
		dir     string
		goos    string
		python  interpreter.Interpreter
	}

	venvLayout struct {
		activate string
		python   string
	}
)

const (
	VirtualEnv = "1"
	Global     = "2"
	Conda      = "3"
)

var (
	ErrIncompatibleRuntime = errors.New("incompatible Python runtime")
	ErrNoInterpreter       = errors.New("Python interpreter unavailable")
	ErrMissingFile         = errors.New("required input file missing")
	ErrCommandFailed       = errors.New("command failed")
	ErrInvalidChoice       = errors.New("invalid setup choice")

	Methods = []Method{
		{Key: VirtualEnv, Label: "Create virtual environment and install packages"},
		{Key: Global, Label: "Install packages globally (not recommended)"},
		{Key: Conda, Label: "Use conda environment (if conda is available)"},
	}
)

// IsFatal reports whether err must terminate the process with a non-zero status
// regardless of strictness.
func IsFatal(err error) bool {
	return errors.Is(err, ErrIncompatibleRuntime) || errors.Is(err, ErrNoInterpreter)
}

// Reported reports whether err was already explained on the console.
func Reported(err error) bool {
	return IsFatal(err) ||
		errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrCommandFailed) ||
		errors.Is(err, ErrInvalidChoice)
}

func New(cfg config.Config, dir, goos string, exec Executor, console *Console, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		dir:     dir,
		goos:    goos,
		exec:    exec,
		console: console,
		logger:  logger,
	}
}

// Run is the whole interactive flow: version check, menu, dispatch.
func (o *Orchestrator) Run(ctx context.Context, probe ProbeFunc, chooser Chooser) error {
	o.console.Banner(fmt.Sprintf("Setting up environment for %s...", o.cfg.Project))

	ip, err := probe(ctx)
	if err != nil {
		o.console.Failure("No usable Python interpreter found!")
		o.console.Println(err.Error())

		return fmt.Errorf("%w: %s", ErrNoInterpreter, err.Error())
	}

	if err = o.CheckVersion(ip); err != nil {
		return err
	}

	choice, err := chooser.Choose(ctx, Methods)
	if err != nil {
		return fmt.Errorf("failed to read setup choice: %w", err)
	}

	o.logger.Debug("setup method chosen", "choice", choice)

	return o.Dispatch(ctx, choice)
}

// CheckVersion accepts ip when it satisfies the configured minimum version.
// Non-nil returned error wraps [ErrIncompatibleRuntime].
func (o *Orchestrator) CheckVersion(ip interpreter.Interpreter) error {
	if !ip.Version.Compatible(o.cfg.MinPython) {
		o.console.Failure(fmt.Sprintf("Python %s or higher is required!", o.cfg.MinPython))
		o.console.Println("Current version: " + ip.Version.String())

		return fmt.Errorf("%w: %s is older than %s", ErrIncompatibleRuntime, ip.Version, o.cfg.MinPython)
	}

	o.console.Success(fmt.Sprintf("Python version %s is compatible!", ip.Version))

	o.python = ip

	return nil
}

// Dispatch runs the setup method selected by choice. Invalid choices run nothing.
// It requires a successful [Orchestrator.CheckVersion] first.
func (o *Orchestrator) Dispatch(ctx context.Context, choice string) error {
	if o.python.Executable == "" {
		o.console.Failure("No usable Python interpreter found!")

		return fmt.Errorf("%w: version check has not passed", ErrNoInterpreter)
	}

	switch choice {
	case VirtualEnv:
		return o.setupVirtualEnv(ctx)
	case Global:
		return o.setupGlobal(ctx)
	case Conda:
		return o.setupConda(ctx)
	default:
		o.console.Failure("Invalid choice!")

		return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
}

func layoutFor(goos, venvDir string) venvLayout {
	if goos == "windows" {
		return venvLayout{
			activate: venvDir + `\Scripts\activate`,
			python:   venvDir + `\Scripts\python.exe`,
		}
	}

	return venvLayout{
		activate: "source " + venvDir + "/bin/activate",
		python:   venvDir + "/bin/python",
	}
}

// path resolves name against the project directory unless it is already absolute.
func (o *Orchestrator) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(o.dir, name)
}

func (o *Orchestrator) exists(name string) bool {
	_, err := os.Stat(o.path(name))

	return err == nil
}

// Non-nil returned error wraps [ErrMissingFile].
func (o *Orchestrator) requireFile(name string) error {
	if !o.exists(name) {
		o.console.Failure(name + " not found!")

		return fmt.Errorf("%w: %s", ErrMissingFile, name)
	}

	return nil
}

// step runs one external command and reports its outcome.
// Non-nil returned error wraps [ErrCommandFailed].
func (o *Orchestrator) step(ctx context.Context, desc string, args ...string) error {
	command, err := shell.Join(args...)
	if err != nil {
		o.console.Failure(desc + " failed!")
		o.console.Println("Error: " + err.Error())

		return fmt.Errorf("%w: %s: %s", ErrCommandFailed, desc, err.Error())
	}

	o.console.Step(desc)

	stop := o.console.Spin(desc)
	res := o.exec.Run(ctx, command)
	stop()

	if !res.OK() {
		o.console.Failure(desc + " failed!")
		o.console.Println("Error: " + res.Diagnostic())

		return fmt.Errorf("%w: %s: %s", ErrCommandFailed, desc, res.Diagnostic())
	}

	o.console.Success(desc + " completed successfully!")

	return nil
}

func (o *Orchestrator) nextSteps(first ...string) {
	o.console.Note("Next steps:")

	steps := append(first, o.cfg.NextSteps...)

	for i, s := range steps {
		o.console.Println(strconv.Itoa(i+1) + ". " + s)
	}
}

func (o *Orchestrator) ensureVirtualEnv(ctx context.Context) error {
	if o.exists(o.cfg.VenvDir) {
		o.console.Success("Virtual environment already exists at " + o.cfg.VenvDir)

		return nil
	}

	return o.step(ctx, "Creating virtual environment", o.python.Executable, "-m", "venv", o.cfg.VenvDir)
}

func (o *Orchestrator) setupVirtualEnv(ctx context.Context) error {
	if err := o.ensureVirtualEnv(ctx); err != nil {
		return err
	}

	layout := layoutFor(o.goos, o.cfg.VenvDir)

	o.console.Note("To activate the virtual environment, run:")
	o.console.Println("   " + layout.activate)

	if err := o.requireFile(o.cfg.Requirements); err != nil {
		return err
	}

	err := o.step(ctx, "Installing packages in virtual environment",
		layout.python, "-m", "pip", "install", "-r", o.cfg.Requirements)
	if err != nil {
		return err
	}

	o.console.Celebrate("Environment setup completed successfully!")
	o.nextSteps("Activate the virtual environment")

	return nil
}

func (o *Orchestrator) setupGlobal(ctx context.Context) error {
	if err := o.requireFile(o.cfg.Requirements); err != nil {
		return err
	}

	err := o.step(ctx, "Installing Python packages from "+o.cfg.Requirements,
		o.python.Executable, "-m", "pip", "install", "-r", o.cfg.Requirements)
	if err != nil {
		return err
	}

	o.console.Celebrate("Environment setup completed successfully!")
	o.nextSteps()

	return nil
}

func (o *Orchestrator) setupConda(ctx context.Context) error {
	if err := o.step(ctx, "Checking conda availability", o.cfg.Conda, "--version"); err != nil {
		o.console.Failure("Conda not found! Please install Anaconda or Miniconda first.")

		return err
	}

	if err := o.requireFile(o.cfg.EnvironmentFile); err != nil {
		return err
	}

	envFile, err := condaenv.Read(o.path(o.cfg.EnvironmentFile))
	if err != nil {
		// conda reports problems with the file itself
		o.logger.Warn("cannot read environment file", "file", o.cfg.EnvironmentFile, "err", err)
	} else {
		conda, pip := envFile.Packages()

		o.logger.Debug("environment file", "name", envFile.Name, "conda", conda, "pip", pip)
	}

	err = o.step(ctx, "Creating conda environment", o.cfg.Conda, "env", "create", "-f", o.cfg.EnvironmentFile)
	if err != nil {
		return err
	}

	o.console.Celebrate("Conda environment setup completed successfully!")
	o.nextSteps("Activate conda environment: conda activate " + envFile.ActivateName())

	return nil
}
