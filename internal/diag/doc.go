// Package diag defines the error-code space and diagnostic model shared by the
// tokenizer, compiler, runtime and host natives.
//
// # Code space
//
// Code is a compact numeric identifier with a stable string form (see codes.go):
//
//   - 0 is OK (no error).
//   - 1000-1999 lexical, 2000-2999 syntax, 3000-3999 semantic errors. These are
//     produced at compile time and stop compilation at the first occurrence.
//   - 6000-6999 runtime errors raised by the engine (division by zero,
//     null pointer, stack overflow, malformed persisted state, ...).
//   - 7000-7999 host errors raised by native functions (robot actions).
//   - any other non-zero value is a user code thrown by `throw`.
//
// The code space is disjoint from type descriptors (internal/types); a checker
// reports a type and a Code separately.
//
// # Data model
//
// Diagnostic is the central record: Severity, Code, Message, Primary span and
// optional Notes. A Diagnostic is also an error, so the compiler can return it
// directly to callers that only care about failure.
//
// # Emitting diagnostics
//
// Phases emit through a Reporter. BagReporter aggregates into a Bag, which
// supports sorting and limits. Rendering lives in internal/diagfmt.
package diag
