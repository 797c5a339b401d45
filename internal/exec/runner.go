package exec

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/devboot/internal/errors"
	"github.com/felixgeelhaar/devboot/internal/log"
)

// defaultTailLines bounds how much streamed output a CommandError keeps
const defaultTailLines = 40

// Runner executes command specs
type Runner interface {
	Run(spec CommandSpec, sink Sink) (*Result, error)
}

// LocalRunner runs commands on the host. Commands inherit the working
// directory and environment of the current process.
type LocalRunner struct {
	// ManifestDir, when set, receives one JSON manifest per command
	ManifestDir string
	// RunID is stamped on every manifest
	RunID string
	// TailLines bounds the streamed output kept for errors
	TailLines int
	Logger    *log.Logger
}

// NewLocalRunner creates a runner that logs through logger
func NewLocalRunner(logger *log.Logger) *LocalRunner {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &LocalRunner{
		TailLines: defaultTailLines,
		Logger:    logger,
	}
}

// Run executes spec according to its mode. A non-zero exit yields a
// *CommandError; a command that cannot be started yields a BootError.
func (r *LocalRunner) Run(spec CommandSpec, sink Sink) (*Result, error) {
	r.Logger.Debug("running command", "command", spec.String(), "mode", spec.Mode().String())

	var (
		result *Result
		err    error
	)
	switch spec.Mode() {
	case ModeStreamed:
		result, err = r.runStreamed(spec, sink)
	default:
		result, err = r.runSync(spec)
	}

	if result != nil && r.ManifestDir != "" {
		manifest := CreateManifest(spec, result, r.RunID)
		if saveErr := SaveManifest(manifest, r.ManifestDir); saveErr != nil {
			r.Logger.WithError(saveErr).Warn("failed to save run manifest")
		}
	}

	return result, err
}

func (r *LocalRunner) runSync(spec CommandSpec) (*Result, error) {
	startTime := time.Now()

	cmd := exec.Command(spec.Path(), spec.Args()...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if spec.Confirm() != "" {
		cmd.Stdin = newConfirmReader(spec.Confirm())
	}

	err := cmd.Run()
	result := &Result{
		Output:   output.String(),
		Duration: time.Since(startTime),
	}
	return r.finish(spec, result, err)
}

func (r *LocalRunner) runStreamed(spec CommandSpec, sink Sink) (*Result, error) {
	startTime := time.Now()

	cmd := exec.Command(spec.Path(), spec.Args()...)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	if spec.Confirm() != "" {
		cmd.Stdin = newConfirmReader(spec.Confirm())
	}

	tail := newTailBuffer(r.TailLines)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		relayLines(pr, sink, tail)
	}()

	err := cmd.Run()
	_ = pw.Close()
	wg.Wait()

	result := &Result{
		Output:   tail.String(),
		Duration: time.Since(startTime),
	}
	return r.finish(spec, result, err)
}

func (r *LocalRunner) finish(spec CommandSpec, result *Result, err error) (*Result, error) {
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if !stderrors.As(err, &exitErr) {
		return nil, errors.NewCommandNotFoundError(spec.Path(), err)
	}

	result.ExitCode = exitErr.ExitCode()
	return result, &CommandError{
		Path:     spec.Path(),
		Args:     spec.Args(),
		ExitCode: result.ExitCode,
		Output:   result.Output,
	}
}

// relayLines forwards every non-empty line to sink. Carriage returns count
// as line breaks so download progress bars surface as separate updates.
func relayLines(r io.Reader, sink Sink, tail *tailBuffer) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(scanLinesOrReturns)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tail.Add(line)
		if sink != nil {
			sink.Update(line)
		}
	}
	// Drain whatever is left so the writer never blocks.
	_, _ = io.Copy(io.Discard, r)
}

func scanLinesOrReturns(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// confirmReader endlessly yields "<answer>\n"
type confirmReader struct {
	line []byte
	off  int
}

func newConfirmReader(answer string) *confirmReader {
	return &confirmReader{line: []byte(answer + "\n")}
}

func (c *confirmReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		copied := copy(p[n:], c.line[c.off:])
		n += copied
		c.off = (c.off + copied) % len(c.line)
	}
	return n, nil
}

// tailBuffer keeps the last N lines
type tailBuffer struct {
	max   int
	lines []string
}

func newTailBuffer(max int) *tailBuffer {
	if max <= 0 {
		max = defaultTailLines
	}
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Add(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

func (t *tailBuffer) String() string {
	return strings.Join(t.lines, "\n")
}

var _ Runner = (*LocalRunner)(nil)
