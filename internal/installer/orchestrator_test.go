package installer

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/devboot/internal/consent"
	"github.com/felixgeelhaar/devboot/internal/exec"
	"github.com/felixgeelhaar/devboot/internal/log"
	"github.com/felixgeelhaar/devboot/internal/task"
)

func newRun(opts task.Options) (*Orchestrator, *task.Context) {
	return NewOrchestrator(log.Discard()), task.New(opts, nil, log.Discard())
}

func commandErr(code int) error {
	return &exec.CommandError{Path: "/sdk/tools/bin/sdkmanager", ExitCode: code, Output: "license not accepted"}
}

func TestInstalledTaskIsNeverRun(t *testing.T) {
	spy := newSpy("sdk")
	spy.installed = true

	first, _ := spy.IsInstalled()
	second, _ := spy.IsInstalled()
	assert.Equal(t, first, second, "IsInstalled must be repeatable")

	orch, tc := newRun(task.DefaultOptions())
	report := orch.Run(context.Background(), []Task{spy}, tc)

	assert.Equal(t, 0, spy.runCalls)
	assert.Equal(t, StateAlreadySatisfied, report.Outcomes[0].State)
	assert.Len(t, report.Satisfied(), 1)
	assert.NoError(t, report.Err())
}

func TestStopsAfterFirstFailureByDefault(t *testing.T) {
	var seq []string
	one, two, three := newSpy("one"), newSpy("two"), newSpy("three")
	for _, s := range []*spyTask{one, two, three} {
		s.callSeq = &seq
	}
	two.runErr = commandErr(1)

	orch, tc := newRun(task.DefaultOptions())
	report := orch.Run(context.Background(), []Task{one, two, three}, tc)

	assert.Equal(t, []string{"one", "two"}, seq)
	assert.Equal(t, 0, three.runCalls)
	assert.Equal(t, 0, three.probeCalls, "later tasks are not even probed after an abort")

	assert.Equal(t, StateSucceeded, report.Outcomes[0].State)
	assert.Equal(t, StateFailed, report.Outcomes[1].State)
	assert.Equal(t, StateNotStarted, report.Outcomes[2].State)
	assert.Equal(t, reasonAborted, report.Outcomes[2].Reason)
	assert.True(t, report.Aborted)

	var cmdErr *exec.CommandError
	require.True(t, stderrors.As(report.Err(), &cmdErr))
	assert.Equal(t, 1, cmdErr.ExitCode)
}

func TestContinueOnFailure(t *testing.T) {
	one, two, three := newSpy("one"), newSpy("two"), newSpy("three")
	two.runErr = commandErr(2)

	orch, tc := newRun(task.Options{StopOnFailure: false})
	report := orch.Run(context.Background(), []Task{one, two, three}, tc)

	assert.Equal(t, 1, three.runCalls)
	assert.Len(t, report.Succeeded(), 2)
	assert.Len(t, report.Failed(), 1)
	assert.False(t, report.Aborted)
}

func TestNotApplicableIsNeverProbed(t *testing.T) {
	spy := newSpy("mac-only")
	spy.applicable = false

	orch, tc := newRun(task.DefaultOptions())
	report := orch.Run(context.Background(), []Task{spy}, tc)

	assert.Equal(t, 1, spy.applyCalls)
	assert.Equal(t, 0, spy.probeCalls)
	assert.Equal(t, 0, spy.runCalls)
	assert.Equal(t, StateSkipped, report.Outcomes[0].State)
	assert.Equal(t, reasonNotApplicable, report.Outcomes[0].Reason)
}

func TestEveryFailureCarriesMitigation(t *testing.T) {
	probe := newSpy("probe")
	probe.probeErr = &ProbeError{Task: "Spy probe", Reason: "SDK root not found"}

	failing := newSpy("failing")
	failing.runErr = commandErr(1)

	silent := newSpy("silent")
	silent.mitigation = ""
	silent.runErr = stderrors.New("boom")

	orch, tc := newRun(task.Options{StopOnFailure: false})
	report := orch.Run(context.Background(), []Task{probe, failing, silent}, tc)

	require.Len(t, report.Failed(), 3)
	for _, o := range report.Failed() {
		assert.NotEmpty(t, o.Mitigation, "%s has no mitigation", o.Name)
		assert.NotEmpty(t, o.Error)
	}
	assert.Equal(t, probe.mitigation, report.Outcomes[0].Mitigation)
	assert.Equal(t, 0, probe.runCalls, "a probe error must not fall through to Run")

	var probeErr *ProbeError
	assert.True(t, stderrors.As(report.Err(), &probeErr))

	var runErr *RunError
	require.True(t, stderrors.As(report.Err(), &runErr))
	assert.Len(t, runErr.Mitigations(), 3)
}

func TestConsentStates(t *testing.T) {
	gateTask := func(approve bool) *spyTask {
		spy := newSpy("gated")
		gate := consent.NewGate(consent.PrompterFunc(func(consent.Request) (bool, error) { return approve, nil }))
		spy.onRun = func(tc *task.Context) error {
			return gate.Request(spy, tc, "https://example.com/terms")
		}
		return spy
	}

	t.Run("approved", func(t *testing.T) {
		orch, tc := newRun(task.DefaultOptions())
		report := orch.Run(context.Background(), []Task{gateTask(true)}, tc)

		assert.Equal(t, []State{StateNotStarted, StateAwaitingConsent, StateRunning, StateSucceeded},
			report.Outcomes[0].History)
	})

	t.Run("declined", func(t *testing.T) {
		orch, tc := newRun(task.DefaultOptions())
		report := orch.Run(context.Background(), []Task{gateTask(false)}, tc)

		assert.Equal(t, []State{StateNotStarted, StateAwaitingConsent, StateFailed},
			report.Outcomes[0].History)
		assert.True(t, stderrors.Is(report.Err(), consent.ErrDeclined))
	})

	t.Run("no consent needed", func(t *testing.T) {
		orch, tc := newRun(task.DefaultOptions())
		report := orch.Run(context.Background(), []Task{newSpy("plain")}, tc)

		assert.Equal(t, []State{StateNotStarted, StateRunning, StateSucceeded}, report.Outcomes[0].History)
	})
}

func TestDryRunDoesNotInstall(t *testing.T) {
	missing := newSpy("missing")
	present := newSpy("present")
	present.installed = true

	orch, tc := newRun(task.Options{DryRun: true, StopOnFailure: true})
	report := orch.Run(context.Background(), []Task{missing, present}, tc)

	assert.Equal(t, 0, missing.runCalls)
	assert.Equal(t, StateSkipped, report.Outcomes[0].State)
	assert.Equal(t, reasonDryRun, report.Outcomes[0].Reason)
	assert.Equal(t, StateAlreadySatisfied, report.Outcomes[1].State)
}

func TestCancelledContextStopsIssuingTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first, second := newSpy("first"), newSpy("second")
	first.onRun = func(*task.Context) error {
		cancel()
		return nil
	}

	orch, tc := newRun(task.DefaultOptions())
	report := orch.Run(ctx, []Task{first, second}, tc)

	assert.Equal(t, StateSucceeded, report.Outcomes[0].State, "the in-flight task completes")
	assert.Equal(t, 0, second.runCalls)
	assert.Equal(t, reasonInterrupted, report.Outcomes[1].Reason)
	assert.ErrorIs(t, report.Interrupted, context.Canceled)
}

func TestPanickingTaskFailsAlone(t *testing.T) {
	bad, good := newSpy("bad"), newSpy("good")
	bad.onRun = func(*task.Context) error { panic("nil map") }

	orch, tc := newRun(task.Options{StopOnFailure: false})
	report := orch.Run(context.Background(), []Task{bad, good}, tc)

	assert.Equal(t, StateFailed, report.Outcomes[0].State)
	assert.Contains(t, report.Outcomes[0].Error, "nil map")
	assert.Equal(t, StateSucceeded, report.Outcomes[1].State)
}

type recordingObserver struct {
	events []string
}

func (r *recordingObserver) TaskStarted(o *Outcome) { r.events = append(r.events, "start:"+o.Name) }
func (r *recordingObserver) TaskFinished(o *Outcome) {
	r.events = append(r.events, "finish:"+o.Name+":"+o.State.String())
}

func TestObserverSeesEachTask(t *testing.T) {
	skip := newSpy("skip")
	skip.applicable = false
	obs := &recordingObserver{}

	orch, tc := newRun(task.DefaultOptions())
	orch.Observer = obs
	orch.Run(context.Background(), []Task{skip, newSpy("run")}, tc)

	assert.Equal(t, []string{
		"start:skip", "finish:skip:skipped",
		"start:run", "finish:run:succeeded",
	}, obs.events)
}

func TestReportCarriesRunID(t *testing.T) {
	orch, tc := newRun(task.DefaultOptions())
	report := orch.Run(context.Background(), nil, tc)

	assert.Equal(t, tc.RunID, report.RunID)
	assert.Empty(t, report.Outcomes)
	assert.NoError(t, report.Err())
	assert.False(t, report.EndTime.Before(report.StartTime))
}
