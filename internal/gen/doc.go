// Package gen renders synthesized partial types into Go source.
//
// Generation uses text/template + go/format (or goimports when imports are
// fixed up) for readable, deterministic output. Each annotated declaration
// yields one file next to its source:
//
//   - leaf: the partial struct, ToPartial, Merge, ApplyPartial, Build and
//     the getters plus discriminant method of every parent partial
//   - parent: the partial interface, its discriminant type and constants,
//     the dispatching Merge<Parent> and Apply<Parent>Partial
//
// Files are handed to a Target, which detects output collisions.
package gen
