package interpreter

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatible(t *testing.T) {
	var tests = []struct {
		version  Version
		expected bool
	}{
		{Version{3, 7, 0}, false},
		{Version{3, 7, 17}, false},
		{Version{2, 7, 18}, false},
		{Version{3, 0, 0}, false},
		{Version{3, 8, 0}, true},
		{Version{3, 10, 2}, true},
		{Version{3, 13, 1}, true},
		{Version{4, 0, 0}, true},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.version.Compatible(DefaultMinVersion), "version %s", test.version)
	}
}

func TestCompatibleExhaustive(t *testing.T) {
	for major := 0; major < 6; major++ {
		for minor := 0; minor < 20; minor++ {
			v := Version{Major: major, Minor: minor, Micro: 5}

			expected := major > 3 || (major == 3 && minor >= 8)

			assert.Equal(t, expected, v.Compatible(DefaultMinVersion), "version %s", v)
		}
	}
}

func TestMinVersionUnmarshalText(t *testing.T) {
	var mv MinVersion

	require.NoError(t, mv.UnmarshalText([]byte("3.11")))
	assert.Equal(t, MinVersion{Major: 3, Minor: 11}, mv)
	assert.Equal(t, "3.11", mv.String())

	for _, bad := range []string{"3", "3.8.1", "three.eight", ""} {
		assert.Error(t, mv.UnmarshalText([]byte(bad)), "%q should be rejected", bad)
	}

	assert.True(t, Version{3, 11, 0}.Compatible(mv))
	assert.False(t, Version{3, 10, 9}.Compatible(mv))
}

func TestLocate(t *testing.T) {
	onPath := map[string]string{
		"python":  "/usr/bin/python",
		"custom":  "/opt/py/bin/custom",
		"python3": "",
	}

	lookPath := func(name string) (string, error) {
		if path := onPath[name]; path != "" {
			return path, nil
		}

		return "", errors.New("not found")
	}

	path, err := Locate("", "linux", lookPath)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/python", path, "python3 is missing so python should be picked")

	path, err = Locate("custom", "linux", lookPath)
	require.NoError(t, err)
	assert.Equal(t, "/opt/py/bin/custom", path)

	_, err = Locate("missing", "linux", lookPath)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = Locate("", "linux", func(string) (string, error) { return "", errors.New("not found") })
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"python", "python3"}, Candidates("windows"))
	assert.Equal(t, []string{"python3", "python"}, Candidates("darwin"))
}

func TestDecode(t *testing.T) {
	output := `{"major": 3, "minor": 10, "micro": 2, "executable": "/usr/bin/python3", "platform": "linux"}` + "\n"

	ip, err := Decode(context.Background(), strings.NewReader(output))
	require.NoError(t, err)

	assert.Equal(t, Version{Major: 3, Minor: 10, Micro: 2}, ip.Version)
	assert.Equal(t, "/usr/bin/python3", ip.Executable)
	assert.Equal(t, "linux", ip.Platform)

	_, err = Decode(context.Background(), strings.NewReader(`{"major": 3, "minor": 10, "executable": "x"}`))
	assert.Error(t, err, "a missing micro version should be rejected")

	_, err = Decode(context.Background(), strings.NewReader(`Python 3.10.2`))
	assert.Error(t, err)
}

func TestProbe(t *testing.T) {
	python, err := Locate("", runtime.GOOS, exec.LookPath)
	if err != nil {
		t.Skip("Python not available, skipping")
	}

	ip, err := Probe(context.Background(), python)
	require.NoError(t, err)

	assert.NotEmpty(t, ip.Executable)
	assert.GreaterOrEqual(t, ip.Version.Major, 2)
}
