package pipeline

import (
	"context"
	"os"

	"github.com/getsentry/raven-go"
	"golang.org/x/xerrors"
	"lib.kevinlin.info/aperture/lib"

	"scopemeasure/internal/log"
	"scopemeasure/internal/metrics"
	"scopemeasure/internal/scope"
)

// Runner runs the steps of a pipeline in order, measuring the run as a scope labelled with the
// pipeline's name and reporting one stopover per step.
type Runner struct {
	Name         string
	Steps        []Step
	Exec         Executor
	Logger       log.Logger
	ScopeHook    metrics.ScopeHook
	PipelineHook metrics.PipelineHook
	Opts         RunnerOpts
}

// RunnerOpts formalizes configuration options for the runner.
type RunnerOpts struct {
	// FailurePolicy decides whether the steps following a failed step are run.
	FailurePolicy FailurePolicy

	// MeasureOpts are applied to the Measure covering the run, after the scope hook.
	MeasureOpts []scope.Option
}

// Run executes every step. With the Abort policy, the error of the first failed step is returned
// as-is; with Continue, an error wrapping the first failure is returned after all steps ran. A
// done context stops the run before its next operation regardless of the policy.
func (r *Runner) Run(ctx context.Context) error {
	r.setDefaults()

	opts := append([]scope.Option{scope.WithHook(r.ScopeHook)}, r.Opts.MeasureOpts...)
	m := scope.New(r.Name, r.Logger, opts...)
	defer m.End()

	r.Logger.Info(
		"pipeline: starting: name=%s steps=%d policy=%s",
		r.Name,
		len(r.Steps),
		r.Opts.FailurePolicy,
	)

	var failures []error
	for _, step := range r.Steps {
		err := r.runStep(ctx, step)
		m.Stopover(step.Name)

		if err == nil {
			continue
		}

		r.consumeError(step, err)

		if ctx.Err() != nil || r.Opts.FailurePolicy == Abort {
			return err
		}

		failures = append(failures, err)
	}

	if len(failures) > 0 {
		return xerrors.Errorf(
			"pipeline: steps failed: name=%s failed=%d total=%d: %w",
			r.Name,
			len(failures),
			len(r.Steps),
			failures[0],
		)
	}

	r.Logger.Info("pipeline: finished: name=%s", r.Name)

	return nil
}

// runStep runs the operations of a single step in order, stopping at the first failure.
func (r *Runner) runStep(ctx context.Context, step Step) error {
	if len(step.Operations) == 0 {
		return xerrors.Errorf("pipeline: step=%s: %w", step.Name, ErrEmptyStep)
	}

	for _, argv := range step.Operations {
		if err := ctx.Err(); err != nil {
			return xerrors.Errorf("pipeline: step canceled: step=%s: %w", step.Name, err)
		}

		r.Logger.Debug("pipeline: running operation: step=%s argv=%q", step.Name, argv)

		operationTimer := lib.NewStopwatch()
		err := r.Exec(ctx, argv)
		elapsed := operationTimer.Elapsed()

		r.PipelineHook.EmitOperationLatency(step.Name, elapsed)
		r.Logger.Debug(
			"pipeline: operation finished: step=%s argv=%q elapsed=%v",
			step.Name,
			argv,
			elapsed,
		)

		if err != nil {
			return xerrors.Errorf("pipeline: operation failed: step=%s argv=%q: %w", step.Name, argv, err)
		}
	}

	return nil
}

// consumeError logs and reports a step failure. Cancellations are not reported to Sentry.
func (r *Runner) consumeError(step Step, err error) {
	r.Logger.Error("%v", err)
	r.PipelineHook.EmitStepError(step.Name)

	if xerrors.Is(err, context.Canceled) || xerrors.Is(err, context.DeadlineExceeded) {
		return
	}

	raven.CaptureError(err, map[string]string{
		"pipeline": r.Name,
		"step":     step.Name,
	})
}

func (r *Runner) setDefaults() {
	if r.Exec == nil {
		r.Exec = NewCommandExecutor(os.Stdout, os.Stderr)
	}

	if r.Logger == nil {
		r.Logger = log.NewNoopLogger()
	}

	if r.ScopeHook == nil {
		r.ScopeHook = metrics.NewNoopScopeHook()
	}

	if r.PipelineHook == nil {
		r.PipelineHook = metrics.NewNoopPipelineHook()
	}
}
