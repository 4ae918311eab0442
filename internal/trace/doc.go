// Package trace records what the tyfold tools do while they fold.
//
// Driver and pass boundaries are emitted as spans; folders emit point events
// for individual steps (binder entry, substitution of a parameter, erasure of
// a region) when the level is high enough to want them.
//
// # Usage
//
//	tyfold subst --trace=- --trace-level=debug cases.toml
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event as it arrives
//   - RingTracer: keeps the last N events for dumping after an ICE
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: ring dump on internal compiler errors only
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: one span per fixture case
//   - LevelDebug: everything, including fold steps
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	ctx, span := trace.Start(ctx, trace.ScopeDriver, "tyfold subst")
//	defer span.End("")
//
// Spans started from ctx afterwards use span as their parent.
package trace
