package shell

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()

	return NewRunner(t.TempDir(), log.New(io.Discard))
}

func TestRunBuiltins(t *testing.T) {
	r := newTestRunner(t)

	res := r.Run(context.Background(), `echo hello; echo oops >&2`)
	require.NoError(t, res.Err)

	assert.True(t, res.OK())
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Equal(t, "oops\n", res.Stderr)

	res = r.Run(context.Background(), `echo broken >&2; exit 3`)
	require.NoError(t, res.Err)

	assert.False(t, res.OK())
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "broken", res.Diagnostic())
}

func TestRunMissingExecutable(t *testing.T) {
	r := newTestRunner(t).WithEnv([]string{"PATH=" + t.TempDir()})

	res := r.Run(context.Background(), `conda --version`)
	require.NoError(t, res.Err)

	assert.False(t, res.OK())
	assert.Equal(t, 127, res.ExitCode)
	assert.Contains(t, res.Diagnostic(), "conda")
}

func TestRunParseError(t *testing.T) {
	r := newTestRunner(t)

	res := r.Run(context.Background(), `echo "unterminated`)

	require.ErrorIs(t, res.Err, ErrParse)
	assert.False(t, res.OK())
	assert.Equal(t, ExitCodeUnknown, res.ExitCode)
	assert.NotEmpty(t, res.Diagnostic())
}

func TestRunInDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the pwd builtin printing a POSIX path")
	}

	dir := t.TempDir()

	r := NewRunner(dir, log.New(io.Discard))

	res := r.Run(context.Background(), `mkdir -p made && pwd`)
	if !res.OK() {
		t.Skipf("mkdir not available: %s", res.Diagnostic())
	}

	info, err := os.Stat(filepath.Join(dir, "made"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestJoin(t *testing.T) {
	var tests = []struct {
		args     []string
		expected string
	}{
		{
			args:     []string{"/usr/bin/python3", "-m", "venv", "venv"},
			expected: "/usr/bin/python3 -m venv venv",
		},
		{
			args:     []string{`venv\Scripts\python.exe`, "-m", "pip"},
			expected: `'venv\Scripts\python.exe' -m pip`,
		},
		{
			args:     []string{"/opt/my python/bin/python", "-m", "pip"},
			expected: `'/opt/my python/bin/python' -m pip`,
		},
	}

	for _, test := range tests {
		command, err := Join(test.args...)
		require.NoError(t, err)

		assert.Equal(t, test.expected, command)
	}
}

func TestJoinRoundTrip(t *testing.T) {
	r := newTestRunner(t)

	command, err := Join("echo", `C:\Users\me\venv`, "two words")
	require.NoError(t, err)

	res := r.Run(context.Background(), command)
	require.True(t, res.OK(), res.Diagnostic())

	assert.Equal(t, "C:\\Users\\me\\venv two words\n", res.Stdout)
}
