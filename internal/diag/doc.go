// Package diag defines the diagnostic model shared by the folding engine and
// the tools built on it.
//
// # Data model
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (see codes.go), a short Message, the Primary source.Span and
// optional Notes.
//
// # Emitting diagnostics
//
// Producers use a Reporter so that emission is decoupled from storage.
// BagReporter aggregates into a Bag, which supports sorting and
// deduplication. SyncReporter lets several goroutines share one reporter.
//
// # Internal compiler errors
//
// The folding engine has no recoverable error channel. A broken contract
// (a substitution missing a parameter slot, a malformed type term, nesting
// beyond the fold depth limit) is raised with Bug, which panics with *ICE.
// The boundary of a compilation unit calls Recover, which reports the ICE as
// an error diagnostic and lets the caller abort only that unit.
package diag
