// Package token defines lexical token kinds for CBot scripts.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Comments never appear in the token stream; they are attached to the
//     following token as Leading trivia (used by the editor highlighter).
//   - Built-in type names (int, float, bool, string, void) are keywords of
//     class TypeName. Class names (point, object, user classes) are plain
//     identifiers and are resolved by the compiler.
//   - Unrecognised input is an Invalid token, never a lexer failure.
package token
