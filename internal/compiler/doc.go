// Package compiler turns CBot source into an ir.Unit.
//
// Compilation runs in two passes over the token stream. The first pass
// collects class declarations (fields, parents, method signatures) and
// function signatures, so bodies may call functions declared later. The
// second pass parses and type-checks every body and builds the IR.
//
// Statements found outside any function or class form the body of an
// implicit exported function named "main".
//
// The compiler stops at the first error and reports it as a single
// diag.Diagnostic.
package compiler
