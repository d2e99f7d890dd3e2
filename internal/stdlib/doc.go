// Package stdlib registers the language's standard natives: string and
// math functions and the intrinsic point class.
package stdlib
