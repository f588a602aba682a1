// Package condaenv reads the declarative conda environment file.
package condaenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

type (
	File struct {
		Name         string       `yaml:"name"`
		Channels     []string     `yaml:"channels"`
		Dependencies []Dependency `yaml:"dependencies"`
	}

	// Dependency is either a conda package spec or the nested pip section.
	Dependency struct {
		Spec string
		Pip  []string
	}
)

var ErrEnvFile = errors.New("invalid environment file")

func (d *Dependency) UnmarshalYAML(unmarshal func(any) error) error {
	var spec string

	if err := unmarshal(&spec); err == nil {
		d.Spec = spec

		return nil
	}

	var nested struct {
		Pip []string `yaml:"pip"`
	}

	if err := unmarshal(&nested); err != nil {
		return fmt.Errorf("dependency is neither a package spec nor a pip section: %w", err)
	}

	d.Pip = nested.Pip

	return nil
}

// Non-nil returned error wraps [ErrEnvFile].
func Parse(contents []byte) (f File, err error) {
	if err = yaml.Unmarshal(contents, &f); err != nil {
		return File{}, fmt.Errorf("%w: %s", ErrEnvFile, err.Error())
	}

	return f, nil
}

// Non-nil returned error wraps [ErrEnvFile] or an [os.ErrNotExist].
func Read(path string) (File, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return File{}, fmt.Errorf("failed to read %q: %w", path, err)
	}

	return Parse(contents)
}

// Packages counts the conda and pip packages the file declares.
func (f File) Packages() (conda, pip int) {
	for _, d := range f.Dependencies {
		if d.Spec != "" {
			conda += 1
		}

		pip += len(d.Pip)
	}

	return conda, pip
}

// ActivateName is the name to pass to "conda activate".
func (f File) ActivateName() string {
	if f.Name == "" {
		return "<env-name>"
	}

	return f.Name
}
