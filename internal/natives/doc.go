// Package natives is the bridge between scripts and host code.
//
// A Registry holds native functions, native methods (one chain per class,
// looked up through the parent chain), host classes and named constants.
// Every entry has a compile-time Check that validates argument types and
// produces the result type, and a run-time Exec.
//
// Exec is re-entrant: a multi-tick action returns done=false and is called
// again on every later Run with the same Call.State until it reports done.
// Release, when set, is called if the program stops while the call is still
// pending.
//
// Registering a name twice replaces the previous entry. Programs compiled
// against the old entry resolve the new one by name at their next call.
package natives
