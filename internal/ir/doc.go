// Package ir defines the typed instruction tree produced by the compiler and
// walked by the engine.
//
// Every node carries a NodeID assigned in creation order. IDs are dense and
// 1-based; the engine persists frames by NodeID, so compiling the same source
// twice must produce the same numbering. Dump renders a canonical text form
// of a Unit; its hash is the program fingerprint.
package ir
