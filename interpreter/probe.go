// Package interpreter locates the host Python interpreter and asks it for its version.
package interpreter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/kxue43/envsetup/jsonstream"
)

type (
	// Interpreter is what a Python interpreter reports about itself.
	Interpreter struct {
		Executable string
		Platform   string
		Version    Version
	}

	LookPathFunc func(string) (string, error)
)

// probeScript prints one JSON object and runs on any CPython since 2.6.
const probeScript = `import json, sys; print(json.dumps({"major": sys.version_info[0], "minor": sys.version_info[1], "micro": sys.version_info[2], "executable": sys.executable, "platform": sys.platform}))`

var (
	ErrNotFound = errors.New("no Python interpreter found")

	probeKeys = []string{"major", "minor", "micro", "executable", "platform"}
)

// Candidates returns the executable names tried, in order, on the given GOOS.
func Candidates(goos string) []string {
	if goos == "windows" {
		return []string{"python", "python3"}
	}

	return []string{"python3", "python"}
}

// Locate returns explicit when it is set, otherwise the first candidate found by lookPath.
// Non-nil returned error wraps [ErrNotFound].
func Locate(explicit, goos string, lookPath LookPathFunc) (string, error) {
	if explicit != "" {
		path, err := lookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not executable: %s", ErrNotFound, explicit, err.Error())
		}

		return path, nil
	}

	candidates := Candidates(goos)

	for _, name := range candidates {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: tried %s on PATH", ErrNotFound, strings.Join(candidates, ", "))
}

// Probe runs python with a one-line script and decodes what it reports.
func Probe(ctx context.Context, python string) (Interpreter, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, python, "-c", probeScript)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Interpreter{}, fmt.Errorf("failed to probe interpreter %q: %w: %s", python, err, strings.TrimSpace(stderr.String()))
	}

	return Decode(ctx, &stdout)
}

// Decode reads the probe script output.
func Decode(ctx context.Context, r io.Reader) (ip Interpreter, err error) {
	net, err := jsonstream.NewNet(r, probeKeys...)
	if err != nil {
		return ip, err
	}

	catch, err := net.Haul(ctx)
	if err != nil {
		return ip, fmt.Errorf("failed to decode interpreter probe output: %w", err)
	}

	if ip.Version.Major, err = jsonstream.Int(catch, "major"); err != nil {
		return ip, fmt.Errorf("invalid interpreter probe output: %w", err)
	}

	if ip.Version.Minor, err = jsonstream.Int(catch, "minor"); err != nil {
		return ip, fmt.Errorf("invalid interpreter probe output: %w", err)
	}

	if ip.Version.Micro, err = jsonstream.Int(catch, "micro"); err != nil {
		return ip, fmt.Errorf("invalid interpreter probe output: %w", err)
	}

	if ip.Executable, err = jsonstream.String(catch, "executable"); err != nil {
		return ip, fmt.Errorf("invalid interpreter probe output: %w", err)
	}

	// platform is informational only
	ip.Platform, _ = jsonstream.String(catch, "platform")

	return ip, nil
}
