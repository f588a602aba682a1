package condaenv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const environmentYml = `name: academic-performance-analysis
channels:
  - conda-forge
  - defaults
dependencies:
  - python=3.10
  - pandas>=1.5
  - jupyter
  - pip
  - pip:
      - shap==0.42.1
      - xgboost
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(environmentYml))
	require.NoError(t, err)

	assert.Equal(t, "academic-performance-analysis", f.Name)
	assert.Equal(t, "academic-performance-analysis", f.ActivateName())
	assert.Equal(t, []string{"conda-forge", "defaults"}, f.Channels)

	conda, pip := f.Packages()
	assert.Equal(t, 4, conda)
	assert.Equal(t, 2, pip)

	assert.Equal(t, []string{"shap==0.42.1", "xgboost"}, f.Dependencies[4].Pip)
}

func TestParseWithoutName(t *testing.T) {
	f, err := Parse([]byte("dependencies:\n  - numpy\n"))
	require.NoError(t, err)

	assert.Equal(t, "<env-name>", f.ActivateName())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed\n"))
	require.ErrorIs(t, err, ErrEnvFile)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "environment.yml"))
	require.True(t, errors.Is(err, os.ErrNotExist))

	err = os.WriteFile(filepath.Join(dir, "environment.yml"), []byte(environmentYml), 0600)
	require.NoError(t, err)

	f, err := Read(filepath.Join(dir, "environment.yml"))
	require.NoError(t, err)

	assert.Equal(t, "academic-performance-analysis", f.Name)
}
