package metrics

import (
	"os"
	"sync"
	"time"
)

// ScopeHook is a metrics hook interface for reporting the measurements of a single measured scope.
type ScopeHook interface {
	// EmitStopover reports the time elapsed between two consecutive points of a scope. The note
	// is empty for unnamed stopovers.
	EmitStopover(scope string, note string, latency time.Duration)

	// EmitScope reports the total time spent inside a scope.
	EmitScope(scope string, latency time.Duration)

	// Close waits for pending emissions and releases the hook's resources.
	Close() error
}

// PipelineHook is a metrics hook interface for reporting events that occur while running the steps
// of a pipeline.
type PipelineHook interface {
	// EmitOperationLatency reports the execution time of a single operation within a step.
	EmitOperationLatency(step string, latency time.Duration)

	// EmitStepError reports the event that a step failed.
	EmitStepError(step string)

	// Close waits for pending emissions and releases the hook's resources.
	Close() error
}

// AsyncStatsdScopeHook is an implementation of ScopeHook that outputs metrics asynchronously to
// statsd.
type AsyncStatsdScopeHook struct {
	client  *StatsdClient
	pending sync.WaitGroup
}

// AsyncStatsdPipelineHook is an implementation of PipelineHook that outputs metrics asynchronously
// to statsd.
type AsyncStatsdPipelineHook struct {
	client   *StatsdClient
	pipeline string
	pending  sync.WaitGroup
}

// NoopScopeHook implements the ScopeHook interface but noops on all emissions.
type NoopScopeHook struct{}

// NoopPipelineHook implements the PipelineHook interface but noops on all emissions.
type NoopPipelineHook struct{}

// NewAsyncStatsdScopeHook creates a new hook with the specified statsd address and sample rate.
func NewAsyncStatsdScopeHook(addr string, sampleRate float32) (ScopeHook, error) {
	client, err := statsdClientFactory(addr, sampleRate)
	if err != nil {
		return nil, err
	}

	return &AsyncStatsdScopeHook{client: client}, nil
}

// EmitStopover statsd implementation
func (h *AsyncStatsdScopeHook) EmitStopover(scope string, note string, latency time.Duration) {
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		h.client.Timing("latency.scope.stopover", latency, map[string]string{
			"scope": scope,
			"note":  note,
		})
	}()
}

// EmitScope statsd implementation
func (h *AsyncStatsdScopeHook) EmitScope(scope string, latency time.Duration) {
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		h.client.Timing("latency.scope.overall", latency, map[string]string{
			"scope": scope,
		})
	}()
}

// Close waits for in-flight emissions to be sent, then closes the statsd client. No emissions may
// be made after Close.
func (h *AsyncStatsdScopeHook) Close() error {
	h.pending.Wait()
	return h.client.Close()
}

// NewNoopScopeHook creates a noop implementation of ScopeHook.
func NewNoopScopeHook() ScopeHook {
	return &NoopScopeHook{}
}

// EmitStopover noops.
func (h *NoopScopeHook) EmitStopover(scope string, note string, latency time.Duration) {}

// EmitScope noops.
func (h *NoopScopeHook) EmitScope(scope string, latency time.Duration) {}

// Close noops.
func (h *NoopScopeHook) Close() error { return nil }

// NewAsyncStatsdPipelineHook creates a new hook with the specified pipeline name, statsd address,
// and statsd sample rate. The pipeline name is attached as a tag to every emitted metric.
func NewAsyncStatsdPipelineHook(pipeline string, addr string, sampleRate float32) (PipelineHook, error) {
	client, err := statsdClientFactory(addr, sampleRate)
	if err != nil {
		return nil, err
	}

	return &AsyncStatsdPipelineHook{
		client:   client,
		pipeline: pipeline,
	}, nil
}

// EmitOperationLatency statsd implementation
func (h *AsyncStatsdPipelineHook) EmitOperationLatency(step string, latency time.Duration) {
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		h.client.Timing("latency.pipeline.operation", latency, map[string]string{
			"pipeline": h.pipeline,
			"step":     step,
		})
	}()
}

// EmitStepError statsd implementation
func (h *AsyncStatsdPipelineHook) EmitStepError(step string) {
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		h.client.Count("event.pipeline.step_error", 1, map[string]string{
			"pipeline": h.pipeline,
			"step":     step,
		})
	}()
}

// Close waits for in-flight emissions to be sent, then closes the statsd client. No emissions may
// be made after Close.
func (h *AsyncStatsdPipelineHook) Close() error {
	h.pending.Wait()
	return h.client.Close()
}

// NewNoopPipelineHook creates a noop implementation of PipelineHook.
func NewNoopPipelineHook() PipelineHook {
	return &NoopPipelineHook{}
}

// EmitOperationLatency noops.
func (h *NoopPipelineHook) EmitOperationLatency(step string, latency time.Duration) {}

// EmitStepError noops.
func (h *NoopPipelineHook) EmitStepError(step string) {}

// Close noops.
func (h *NoopPipelineHook) Close() error { return nil }

// statsdClientFactory creates a configured StatsdClient with reasonable defaults for the given
// statsd server address and sample rate.
func statsdClientFactory(addr string, sampleRate float32) (*StatsdClient, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, err
	}

	defaultTags := map[string]string{
		"host": hostname,
	}

	return NewStatsdClient(addr, "scopemeasure", defaultTags, sampleRate)
}
