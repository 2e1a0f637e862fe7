// Package metrics contains abstractions for emission of timing metrics produced by scope
// measurements and by the pipeline runner. Currently, the only supported metrics output engine is
// statsd.
//
// Metrics emissions in this package are structured around the notion of hooks: a hook interface
// defines methods that are invoked at lifecycle points of a measured scope (a stopover, the end of
// the scope) or of a pipeline (an operation finishing, a step failing). Implementations of hook
// interfaces actually output the metrics to a backend engine; this responsibility is decoupled from
// the semantics of "hooking" into business logic. No aggregation happens in-process: every sample
// is shipped as-is and summarized by the backend.
package metrics
