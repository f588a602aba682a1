// Package shell runs command strings through an embedded POSIX shell interpreter,
// so the same command strings work on hosts without /bin/sh.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// Result is the outcome of one command. Both standard streams are captured as text.
	Result struct {
		Err      error
		Command  string
		Stdout   string
		Stderr   string
		ExitCode int
		Elapsed  time.Duration
	}

	Runner struct {
		logger *log.Logger
		dir    string
		env    []string
	}
)

// ExitCodeUnknown is reported when the command never produced an exit status.
const ExitCodeUnknown = -1

var ErrParse = errors.New("invalid command string")

// NewRunner returns a Runner executing commands in dir with the current process environment.
func NewRunner(dir string, logger *log.Logger) *Runner {
	return &Runner{dir: dir, env: os.Environ(), logger: logger}
}

// WithEnv returns a copy of r that runs commands with env instead of the process environment.
func (r *Runner) WithEnv(env []string) *Runner {
	c := *r
	c.env = env

	return &c
}

func (res Result) OK() bool {
	return res.Err == nil && res.ExitCode == 0
}

// Diagnostic is the text worth showing when the command failed.
func (res Result) Diagnostic() string {
	if s := strings.TrimSpace(res.Stderr); s != "" {
		return s
	}

	if res.Err != nil {
		return res.Err.Error()
	}

	return fmt.Sprintf("exit status %d", res.ExitCode)
}

// Run executes command and blocks until it finishes. A non-zero exit status is not an error:
// Result.Err is only set when the command could not be run at all.
func (r *Runner) Run(ctx context.Context, command string) (res Result) {
	var stdout, stderr bytes.Buffer

	res.Command = command
	res.ExitCode = ExitCodeUnknown

	r.logger.Debug("running command", "command", command, "dir", r.dir)

	start := time.Now()

	defer func() {
		res.Elapsed = time.Since(start)

		r.logger.Debug("command finished", "command", command, "exit", res.ExitCode, "elapsed", res.Elapsed)
	}()

	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		res.Err = fmt.Errorf("%w: %s", ErrParse, err.Error())

		return res
	}

	runner, err := interp.New(
		interp.Dir(r.dir),
		interp.Env(expand.ListEnviron(r.env...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		res.Err = fmt.Errorf("failed to create shell interpreter: %w", err)

		return res
	}

	err = runner.Run(ctx, file)

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	status, isStatus := interp.IsExitStatus(err)

	switch {
	case err == nil:
		res.ExitCode = 0
	case isStatus:
		res.ExitCode = int(status)
	default:
		res.Err = fmt.Errorf("failed to run %q: %w", command, err)
	}

	return res
}

// Join quotes each argument for the shell and joins them into one command string.
func Join(args ...string) (string, error) {
	quoted := make([]string, len(args))

	for i, arg := range args {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("failed to quote argument %q: %w", arg, err)
		}

		quoted[i] = q
	}

	return strings.Join(quoted, " "), nil
}
