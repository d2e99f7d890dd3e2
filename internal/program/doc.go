// Package program wraps one compiled unit and its execution tree into
// the instance a host keeps per scripted object.
//
// A Program is compiled once, started on an exported function and then
// advanced by Run once per simulation tick. Save and Restore move the
// paused tree to and from a byte stream guarded by the unit fingerprint.
package program
