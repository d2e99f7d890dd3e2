// Package value implements script variables.
//
// A Variable is a tagged union over int32, float32, bool, string, a class
// instance and an array. Its State distinguishes declared-but-unset (Undef),
// set (Def) and explicit null (Null).
//
// Assignment semantics follow the declared type of the destination:
//   - pointer variables alias the source instance;
//   - intrinsic variables deep-copy the source instance;
//   - array variables alias the source array;
//   - int and float convert into each other.
//
// Variable, instance and array identities come from an IDGen owned by the
// runtime context. Instance and array ids are what persistence uses to keep
// aliasing across a save.
package value
