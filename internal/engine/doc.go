// Package engine executes compiled units as a resumable tree of frames.
//
// Frames live in an arena and link to each other by Handle. Every Run
// re-descends from the root: a frame whose child already exists resumes
// that child instead of starting over, so a statement suspended by the
// step budget or by a pending native call continues exactly where it
// stopped. Unwinding (break, continue, return, errors) goes through one
// signal slot per engine; frames simply complete and their parents
// inspect the slot.
package engine
