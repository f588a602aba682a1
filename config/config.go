// Package config loads the optional envsetup.toml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kxue43/envsetup/interpreter"
)

type Config struct {
	Project         string                 `toml:"project"`
	Python          string                 `toml:"python"`
	VenvDir         string                 `toml:"venv_dir"`
	Requirements    string                 `toml:"requirements"`
	EnvironmentFile string                 `toml:"environment_file"`
	Conda           string                 `toml:"conda"`
	NextSteps       []string               `toml:"next_steps"`
	MinPython       interpreter.MinVersion `toml:"min_python"`
}

// FileName is looked up in the working directory when no explicit path is given.
const FileName = "envsetup.toml"

var ErrConfig = errors.New("invalid configuration")

func Default() Config {
	return Config{
		Project:         "Python project",
		VenvDir:         "venv",
		Requirements:    "requirements.txt",
		EnvironmentFile: "environment.yml",
		Conda:           "conda",
		MinPython:       interpreter.DefaultMinVersion,
	}
}

// Load reads path, or FileName inside dir when path is empty. A missing implicit file
// yields the defaults; a missing explicit file is an error.
// Non-nil returned error wraps [ErrConfig].
func Load(dir, path string) (cfg Config, found string, err error) {
	cfg = Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	if _, err = os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, "", nil
		}

		return cfg, "", fmt.Errorf("%w: cannot read %q: %s", ErrConfig, path, err.Error())
	}

	var file Config

	md, err := toml.DecodeFile(filepath.Clean(path), &file)
	if err != nil {
		return cfg, path, fmt.Errorf("%w: failed to parse %q: %s", ErrConfig, path, err.Error())
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))

		for i := range undecoded {
			keys[i] = undecoded[i].String()
		}

		sort.Strings(keys)

		return cfg, path, fmt.Errorf("%w: unknown keys in %q: %s", ErrConfig, path, strings.Join(keys, ", "))
	}

	cfg.merge(file, md.IsDefined("min_python"))

	if err = cfg.Validate(); err != nil {
		return cfg, path, err
	}

	return cfg, path, nil
}

func (c *Config) merge(file Config, minDefined bool) {
	set := func(dst *string, src string) {
		if src = strings.TrimSpace(src); src != "" {
			*dst = src
		}
	}

	set(&c.Project, file.Project)
	set(&c.Python, file.Python)
	set(&c.VenvDir, file.VenvDir)
	set(&c.Requirements, file.Requirements)
	set(&c.EnvironmentFile, file.EnvironmentFile)
	set(&c.Conda, file.Conda)

	if len(file.NextSteps) > 0 {
		c.NextSteps = file.NextSteps
	}

	if minDefined {
		c.MinPython = file.MinPython
	}
}

// Non-nil returned error wraps [ErrConfig].
func (c Config) Validate() error {
	if filepath.IsAbs(c.VenvDir) {
		return fmt.Errorf("%w: venv_dir %q must be relative to the project directory", ErrConfig, c.VenvDir)
	}

	if strings.ContainsAny(c.Conda, " \t") {
		return fmt.Errorf("%w: conda %q must be a single executable name or path", ErrConfig, c.Conda)
	}

	if c.MinPython.Major < 2 {
		return fmt.Errorf("%w: min_python %s is below any supported interpreter", ErrConfig, c.MinPython)
	}

	return nil
}
