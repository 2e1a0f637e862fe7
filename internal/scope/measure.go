package scope

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"scopemeasure/internal/log"
	"scopemeasure/internal/metrics"
)

// Measure reports the time spent in a single scope. It is owned by the goroutine that created it
// and is not safe for concurrent use.
type Measure struct {
	label  string
	logger log.Logger
	hook   metrics.ScopeHook
	clock  Clock

	start time.Time
	last  time.Time
	ended bool
}

// Option customizes a Measure at construction.
type Option func(*Measure)

// WithClock replaces the time source of the Measure.
func WithClock(clock Clock) Option {
	return func(m *Measure) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithHook additionally forwards every measurement to a metrics hook.
func WithHook(hook metrics.ScopeHook) Option {
	return func(m *Measure) {
		if hook != nil {
			m.hook = hook
		}
	}
}

// New starts measuring a scope identified by label. A nil logger discards all measurements.
func New(label string, logger log.Logger, opts ...Option) *Measure {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	m := &Measure{
		label:  label,
		logger: logger,
		hook:   metrics.NewNoopScopeHook(),
		clock:  systemClock{},
	}

	for _, opt := range opts {
		opt(m)
	}

	m.start = m.clock.Now()
	m.last = m.start

	return m
}

// Func starts measuring a scope labelled with the name of the calling function.
func Func(logger log.Logger, opts ...Option) *Measure {
	return New(callerName(2), logger, opts...)
}

// Run measures the execution of fn as a scope identified by label. The Measure is ended on every
// exit path of fn, including panics, which are propagated.
func Run(label string, logger log.Logger, fn func(m *Measure) error, opts ...Option) error {
	m := New(label, logger, opts...)
	defer m.End()

	return fn(m)
}

// Stopover reports the time elapsed since the previous stopover, or since the Measure was created
// if this is the first one. An empty note is omitted from the report. Stopovers after End are
// ignored.
func (m *Measure) Stopover(note string) {
	if m.ended {
		return
	}

	now := m.clock.Now()
	elapsed := nonNegative(now.Sub(m.last))
	m.last = now

	if note == "" {
		m.logger.Debug("%s: took %v", m.label, elapsed)
	} else {
		m.logger.Debug("%s: %s took %v", m.label, note, elapsed)
	}

	m.hook.EmitStopover(m.label, note, elapsed)
}

// End reports the total time elapsed since the Measure was created. Only the first call has an
// effect.
func (m *Measure) End() {
	if m.ended {
		return
	}
	m.ended = true

	elapsed := nonNegative(m.clock.Now().Sub(m.start))

	m.logger.Debug("%s: overall: took %v", m.label, elapsed)
	m.hook.EmitScope(m.label, elapsed)
}

// Label returns the identifier of the measured scope.
func (m *Measure) Label() string {
	return m.label
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}

	return d
}

// callerName resolves the name of the function skip frames above the caller of callerName, with
// its import path stripped, e.g. "pipeline.(*Runner).Run".
func callerName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return fmt.Sprintf("%#x", pc)
	}

	name := fn.Name()
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	return name
}
