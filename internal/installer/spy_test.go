package installer

import (
	"github.com/felixgeelhaar/devboot/internal/task"
)

// spyTask records every call the orchestrator makes
type spyTask struct {
	name       string
	applicable bool
	installed  bool
	probeErr   error
	runErr     error
	mitigation string
	onRun      func(tc *task.Context) error
	applyCalls int
	probeCalls int
	runCalls   int
	callSeq    *[]string
}

func newSpy(name string) *spyTask {
	return &spyTask{name: name, applicable: true, mitigation: "install " + name + " from https://example.com/" + name}
}

func (s *spyTask) Name() string     { return s.name }
func (s *spyTask) Describe() string { return "Spy " + s.name }

func (s *spyTask) IsApplicable() bool {
	s.applyCalls++
	return s.applicable
}

func (s *spyTask) IsInstalled() (bool, error) {
	s.probeCalls++
	return s.installed, s.probeErr
}

func (s *spyTask) MitigationMessage() string { return s.mitigation }

func (s *spyTask) Run(tc *task.Context) error {
	s.runCalls++
	if s.callSeq != nil {
		*s.callSeq = append(*s.callSeq, s.name)
	}
	if s.onRun != nil {
		return s.onRun(tc)
	}
	return s.runErr
}

var _ Task = (*spyTask)(nil)
