package health

import (
	"context"

	"github.com/felixgeelhaar/devboot/internal/installer"
)

// InstallerChecker reports an installer's state using only its read-only
// probes. Run is never called.
type InstallerChecker struct {
	task installer.Task
}

// NewInstallerChecker creates a checker for t
func NewInstallerChecker(t installer.Task) *InstallerChecker {
	return &InstallerChecker{task: t}
}

// Name returns the installer's selector
func (c *InstallerChecker) Name() string {
	return installer.NameOf(c.task)
}

type probeResult struct {
	installed bool
	err       error
}

// Check maps the installer probes onto a Result:
//   - Skipped when the installer does not apply to this host
//   - Healthy when it is installed
//   - Unhealthy with the mitigation when it is missing
//   - Unhealthy with the error when the probe fails or times out
func (c *InstallerChecker) Check(ctx context.Context) *Result {
	desc := c.task.Describe()
	if !c.task.IsApplicable() {
		return Skipped(desc + " is not applicable on this host")
	}

	done := make(chan probeResult, 1)
	go func() {
		installed, err := c.task.IsInstalled()
		done <- probeResult{installed: installed, err: err}
	}()

	var res probeResult
	select {
	case <-ctx.Done():
		return Unhealthy(desc+" probe timed out").
			WithDetail("error", ctx.Err().Error())
	case res = <-done:
	}

	switch {
	case res.err != nil:
		return Unhealthy("cannot determine whether "+desc+" is installed").
			WithDetail("error", res.err.Error())
	case res.installed:
		return Healthy(desc + " is installed")
	default:
		return Unhealthy(desc+" is not installed").
			WithDetail("suggestion", "Run 'devboot install "+c.Name()+"'").
			WithDetail("mitigation", c.task.MitigationMessage())
	}
}

var _ Checker = (*InstallerChecker)(nil)
