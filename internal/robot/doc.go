// Package robot is a small kinematic robot used as the native host for
// the command line runner and tests.
//
// A Bot moves on a flat world with a virtual clock. Its actions (move,
// turn, goto, fire, wait) take several ticks; each native call advances
// the action by the time elapsed since the previous tick and reports
// completion when the goal is reached. Progress lives in the call's
// NativeState so a paused action survives save and restore.
package robot
