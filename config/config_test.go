package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxue43/envsetup/interpreter"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	err := os.WriteFile(path, []byte(contents), 0600)
	require.NoError(t, err, "should be able to write %q", name)

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, found, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Empty(t, found)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "venv", cfg.VenvDir)
	assert.Equal(t, "requirements.txt", cfg.Requirements)
	assert.Equal(t, "environment.yml", cfg.EnvironmentFile)
	assert.Equal(t, interpreter.MinVersion{Major: 3, Minor: 8}, cfg.MinPython)
}

func TestLoadImplicitFile(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, FileName, `
project = "Academic Performance Analysis"
venv_dir = ".venv"
min_python = "3.10"
next_steps = ["Start Jupyter notebook: jupyter notebook", "Open analysis.ipynb"]
conda = ""
`)

	cfg, found, err := Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, path, found)
	assert.Equal(t, "Academic Performance Analysis", cfg.Project)
	assert.Equal(t, ".venv", cfg.VenvDir)
	assert.Equal(t, interpreter.MinVersion{Major: 3, Minor: 10}, cfg.MinPython)
	assert.Equal(t, []string{"Start Jupyter notebook: jupyter notebook", "Open analysis.ipynb"}, cfg.NextSteps)
	assert.Equal(t, "conda", cfg.Conda, "empty values should fall back to defaults")
	assert.Equal(t, "requirements.txt", cfg.Requirements)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Load(dir, filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, ErrConfig, "a missing explicit file should be an error")

	path := writeFile(t, dir, "unknown.toml", `
venv_dir = "venv"
requirement = "typo.txt"
`)

	_, _, err = Load(dir, path)
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "requirement")

	path = writeFile(t, dir, "badversion.toml", `min_python = "3"`)

	_, _, err = Load(dir, path)
	require.ErrorIs(t, err, ErrConfig)

	path = writeFile(t, dir, "absolute.toml", `venv_dir = "`+filepath.ToSlash(filepath.Join(dir, "venv"))+`"`)

	_, _, err = Load(dir, path)
	require.ErrorIs(t, err, ErrConfig)

	path = writeFile(t, dir, "broken.toml", `venv_dir = `)

	_, _, err = Load(dir, path)
	require.ErrorIs(t, err, ErrConfig)
}
