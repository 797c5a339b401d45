// Package progress renders installer progress and the end-of-run summary on
// a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/felixgeelhaar/devboot/internal/installer"
	"github.com/felixgeelhaar/devboot/internal/task"
)

// Indicator shows which installer is running and relays its progress
// updates. It implements task.Sink, task.LineSink and installer.Observer.
type Indicator struct {
	writer      io.Writer
	mu          sync.Mutex
	startTime   time.Time
	current     string
	message     string
	finished    int
	showSpinner bool
	spinnerIdx  int
	stopChan    chan struct{}
	stopOnce    sync.Once
	isCI        bool
	verbose     bool
	lastLine    string

	ok, warn, fail, faint *color.Color
}

// Config holds configuration for progress indicator
type Config struct {
	Writer      io.Writer
	ShowSpinner bool
	IsCI        bool // Set to true in CI/CD environments to disable fancy output
	// Verbose prints every line of tool output. Otherwise only the latest
	// line is kept, for the spinner and for failure reports.
	Verbose bool
	NoColor bool
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const lineWidth = 80

// NewIndicator creates a new progress indicator
func NewIndicator(cfg Config) *Indicator {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	// Auto-detect CI environment
	if !cfg.IsCI {
		cfg.IsCI = DetectCI()
	}

	p := &Indicator{
		writer:      cfg.Writer,
		startTime:   time.Now(),
		showSpinner: cfg.ShowSpinner && !cfg.IsCI && !cfg.Verbose,
		stopChan:    make(chan struct{}),
		isCI:        cfg.IsCI,
		verbose:     cfg.Verbose,
		ok:          color.New(color.FgGreen),
		warn:        color.New(color.FgYellow),
		fail:        color.New(color.FgRed, color.Bold),
		faint:       color.New(color.Faint),
	}
	if cfg.NoColor {
		for _, c := range []*color.Color{p.ok, p.warn, p.fail, p.faint} {
			c.DisableColor()
		}
	}
	return p
}

// DetectCI reports whether the process runs under a CI system
func DetectCI() bool {
	return os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
}

// Start begins the progress indicator display
func (p *Indicator) Start() {
	if p.showSpinner {
		go p.spinnerLoop()
	}
}

// Stop stops the progress indicator
func (p *Indicator) Stop() {
	p.stopOnce.Do(func() {
		if p.showSpinner {
			close(p.stopChan)
			p.mu.Lock()
			p.clearLine()
			p.mu.Unlock()
		}
	})
}

func (p *Indicator) spinnerLoop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.current != "" {
				p.renderSpinner()
			}
			p.spinnerIdx = (p.spinnerIdx + 1) % len(spinnerFrames)
			p.mu.Unlock()
		}
	}
}

func (p *Indicator) renderSpinner() {
	line := fmt.Sprintf("%s %s", spinnerFrames[p.spinnerIdx], p.current)
	if p.message != "" {
		line += ": " + p.message
	}
	fmt.Fprintf(p.writer, "\r%-*s", lineWidth, truncate(line, lineWidth))
}

func (p *Indicator) clearLine() {
	fmt.Fprintf(p.writer, "\r%s\r", strings.Repeat(" ", lineWidth))
}

// Update implements task.Sink
func (p *Indicator) Update(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.message = strings.TrimSpace(msg)
	if p.message == "" || p.showSpinner {
		return
	}
	fmt.Fprintf(p.writer, "    %s\n", p.faint.Sprint(p.message))
}

// Line implements task.LineSink. Carriage-return frames of a progress bar
// collapse to the last frame.
func (p *Indicator) Line(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := strings.LastIndex(line, "\r"); i >= 0 {
		line = line[i+1:]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	p.lastLine = line
	if p.showSpinner {
		p.message = line
		return
	}
	if p.verbose {
		fmt.Fprintf(p.writer, "      %s\n", p.faint.Sprint(line))
	}
}

// TaskStarted implements installer.Observer
func (p *Indicator) TaskStarted(o *installer.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = o.Description
	p.message = ""
	p.lastLine = ""
	if !p.showSpinner && (p.isCI || p.verbose) {
		fmt.Fprintf(p.writer, "▶ %s\n", o.Description)
	}
}

// TaskFinished implements installer.Observer
func (p *Indicator) TaskFinished(o *installer.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.showSpinner {
		p.clearLine()
	}
	p.current = ""
	p.message = ""
	p.finished++
	p.printTaskStatus(o)
	if o.State == installer.StateFailed && !p.verbose && p.lastLine != "" {
		fmt.Fprintf(p.writer, "    %s\n", p.faint.Sprint("last output: "+p.lastLine))
	}
	p.lastLine = ""
}

// printTaskStatus prints one status line for a finished task
func (p *Indicator) printTaskStatus(o *installer.Outcome) {
	var line string
	switch o.State {
	case installer.StateSucceeded:
		line = p.ok.Sprintf("✓ %s installed", o.Description)
	case installer.StateAlreadySatisfied:
		line = p.ok.Sprintf("✓ %s already installed", o.Description)
	case installer.StateSkipped:
		line = p.warn.Sprintf("⊘ %s skipped (%s)", o.Description, o.Reason)
	case installer.StateFailed:
		line = p.fail.Sprintf("✗ %s failed", o.Description)
		if o.Error != "" {
			line += " - " + firstLine(o.Error)
		}
	default:
		line = fmt.Sprintf("⟲ %s [%s]", o.Description, o.State)
	}
	if o.Duration >= time.Second {
		line += p.faint.Sprintf(" (%s)", formatDuration(o.Duration))
	}
	fmt.Fprintln(p.writer, line)
}

var summaryStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// PrintSummary prints the end-of-run summary for report
func (p *Indicator) PrintSummary(report *installer.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if report == nil {
		return
	}

	var b strings.Builder
	b.WriteString("Install Summary\n\n")
	fmt.Fprintf(&b, "Installers:      %d\n", len(report.Outcomes))
	fmt.Fprintf(&b, "Installed:       %d\n", len(report.Succeeded()))
	fmt.Fprintf(&b, "Already present: %d\n", len(report.Satisfied()))
	fmt.Fprintf(&b, "Skipped:         %d\n", len(report.Skipped()))
	fmt.Fprintf(&b, "Failed:          %d\n", len(report.Failed()))
	if notRun := len(report.NotRun()); notRun > 0 {
		fmt.Fprintf(&b, "Not run:         %d\n", notRun)
	}
	fmt.Fprintf(&b, "Total Time:      %s", formatDuration(report.Duration()))

	fmt.Fprintln(p.writer)
	fmt.Fprintln(p.writer, summaryStyle.Render(b.String()))

	failed := report.Failed()
	if len(failed) == 0 {
		return
	}

	fmt.Fprintln(p.writer)
	fmt.Fprintln(p.writer, "Failed Installers:")
	for _, o := range failed {
		fmt.Fprintf(p.writer, "  %s\n", p.fail.Sprintf("✗ %s", o.Description))
		fmt.Fprintf(p.writer, "    %s\n", o.Mitigation)
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

var (
	_ installer.Observer = (*Indicator)(nil)
	_ task.Sink          = (*Indicator)(nil)
	_ task.LineSink      = (*Indicator)(nil)
)
