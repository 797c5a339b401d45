package exec

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/devboot/internal/errors"
	"github.com/felixgeelhaar/devboot/internal/log"
)

type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) Update(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, msg)
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestSpecBuilders(t *testing.T) {
	spec := Sync("/opt/sdk/tools/bin/sdkmanager", "--licenses")
	confirmed := spec.WithConfirm("y")

	assert.Equal(t, ModeSync, spec.Mode())
	assert.Equal(t, "", spec.Confirm(), "WithConfirm must not mutate the receiver")
	assert.Equal(t, "y", confirmed.Confirm())
	assert.Equal(t, "sdkmanager --licenses", confirmed.String())

	args := confirmed.Args()
	args[0] = "mutated"
	assert.Equal(t, []string{"--licenses"}, confirmed.Args(), "Args must return a copy")

	streamed := Streamed("brew", "install", "watchman")
	assert.Equal(t, ModeStreamed, streamed.Mode())
	assert.Equal(t, "streamed", streamed.Mode().String())
}

func TestRunSync(t *testing.T) {
	requireShell(t)
	runner := NewLocalRunner(log.Discard())

	result, err := runner.Run(Sync("sh", "-c", "echo out; echo err 1>&2"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Output, "out")
	assert.Contains(t, result.Output, "err")
}

func TestRunSyncNonZeroExit(t *testing.T) {
	requireShell(t)
	runner := NewLocalRunner(log.Discard())

	result, err := runner.Run(Sync("sh", "-c", "echo oops; exit 3"), nil)
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, stderrors.As(err, &cmdErr))
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Contains(t, cmdErr.Output, "oops")
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "sh exited with code 3", cmdErr.Error())
}

func TestRunSyncWithConfirm(t *testing.T) {
	requireShell(t)
	runner := NewLocalRunner(log.Discard())

	result, err := runner.Run(Sync("sh", "-c", `read a; read b; echo "$a$b"`).WithConfirm("y"), nil)
	require.NoError(t, err)
	assert.Equal(t, "yy", strings.TrimSpace(result.Output))
}

func TestRunStreamed(t *testing.T) {
	requireShell(t)
	runner := NewLocalRunner(log.Discard())
	sink := &recordingSink{}

	result, err := runner.Run(Streamed("sh", "-c", `printf 'one\ntwo\rthree\n\n'`), sink)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, sink.lines)
	assert.Equal(t, "one\ntwo\nthree", result.Output)
}

func TestRunStreamedNonZeroKeepsTail(t *testing.T) {
	requireShell(t)
	runner := NewLocalRunner(log.Discard())
	runner.TailLines = 2
	sink := &recordingSink{}

	_, err := runner.Run(Streamed("sh", "-c", "echo a; echo b; echo c; exit 7"), sink)

	var cmdErr *CommandError
	require.True(t, stderrors.As(err, &cmdErr))
	assert.Equal(t, 7, cmdErr.ExitCode)
	assert.Equal(t, "b\nc", cmdErr.Output)
	assert.Len(t, sink.lines, 3)
}

func TestRunCommandNotFound(t *testing.T) {
	runner := NewLocalRunner(log.Discard())

	result, err := runner.Run(Sync(filepath.Join(t.TempDir(), "missing-tool")), nil)
	require.Error(t, err)
	assert.Nil(t, result)

	var bootErr *errors.BootError
	require.True(t, stderrors.As(err, &bootErr))
	assert.Equal(t, errors.ErrCodeCommandNotFound, bootErr.Code)
}

func TestRunWritesManifest(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	runner := NewLocalRunner(log.Discard())
	runner.ManifestDir = dir
	runner.RunID = "run-123"

	_, err := runner.Run(Sync("sh", "-c", "echo hello"), nil)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var manifest RunManifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, "run-123", manifest.RunID)
	assert.Equal(t, []string{"sh", "-c", "echo hello"}, manifest.Command)
	assert.Equal(t, "sync", manifest.Mode)
	assert.Equal(t, DigestOutput("hello\n"), manifest.OutputDigest)
}

func TestConfirmReader(t *testing.T) {
	r := newConfirmReader("no")
	buf := make([]byte, 7)

	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "no\nno\nn", string(buf))

	n, err = r.Read(buf[:2])
	require.NoError(t, err)
	assert.Equal(t, "o\n", string(buf[:n]))
}

func TestDigestOutputStable(t *testing.T) {
	assert.Equal(t, DigestOutput("abc"), DigestOutput("abc"))
	assert.NotEqual(t, DigestOutput("abc"), DigestOutput("abd"))
	assert.Len(t, DigestOutput(""), 64)
}
