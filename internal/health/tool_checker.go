package health

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// ToolChecker checks that a command-line tool is on PATH and reports its
// version. Tools older than MinMajor are Degraded.
type ToolChecker struct {
	Binary     string
	VersionArg string
	MinMajor   int
	InstallURL string

	lookPath func(string) (string, error)
	output   func(ctx context.Context, path, arg string) ([]byte, error)
}

// NewToolChecker creates a checker for binary, pointing at installURL when it
// is missing.
func NewToolChecker(binary, installURL string) *ToolChecker {
	return &ToolChecker{
		Binary:     binary,
		VersionArg: "--version",
		InstallURL: installURL,
		lookPath:   exec.LookPath,
		output: func(ctx context.Context, path, arg string) ([]byte, error) {
			return exec.CommandContext(ctx, path, arg).CombinedOutput()
		},
	}
}

// Name returns the name of this health check.
func (c *ToolChecker) Name() string {
	return c.Binary + "-binary"
}

// Check runs `<binary> --version`.
func (c *ToolChecker) Check(ctx context.Context) *Result {
	path, err := c.lookPath(c.Binary)
	if err != nil {
		return Unhealthy(c.Binary+" command not found in PATH").
			WithDetail("error", err.Error()).
			WithDetail("suggestion", "Install "+c.Binary+" from "+c.InstallURL)
	}

	output, err := c.output(ctx, path, c.VersionArg)
	if err != nil {
		return Unhealthy("failed to execute "+c.Binary).
			WithDetail("error", err.Error()).
			WithDetail("output", strings.TrimSpace(string(output)))
	}

	version := parseVersion(string(output))
	if version == "" {
		return Degraded(c.Binary+" installed but version cannot be parsed").
			WithDetail("path", path).
			WithDetail("version_output", strings.TrimSpace(string(output)))
	}

	if major, ok := majorVersion(version); ok && major < c.MinMajor {
		return Degraded(c.Binary+" version is older than "+strconv.Itoa(c.MinMajor)).
			WithDetail("path", path).
			WithDetail("version", version).
			WithDetail("suggestion", "Upgrade "+c.Binary+" from "+c.InstallURL)
	}

	return Healthy(c.Binary+" is installed").
		WithDetail("path", path).
		WithDetail("version", version)
}

// parseVersion returns the first token on the first line that starts with a
// digit, e.g. "4.2.1" from "Homebrew 4.2.1" or "2024.01.22.00" from watchman.
func parseVersion(output string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	for _, field := range strings.Fields(line) {
		field = strings.Trim(field, `"(),`)
		if field != "" && field[0] >= '0' && field[0] <= '9' {
			return field
		}
	}
	return ""
}

func majorVersion(version string) (int, bool) {
	head, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return major, true
}

var _ Checker = (*ToolChecker)(nil)
