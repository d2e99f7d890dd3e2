// Package persist encodes paused execution state.
//
// Every primitive is written with a fixed-width msgpack encoder (word =
// uint16, int32, float32, string, bool). Instances and arrays are written
// once and referenced by id afterwards, so aliasing survives a round trip.
// The stream is tied to one compiled unit (see Header.Fingerprint) and one
// format version; it is not portable across either.
package persist
