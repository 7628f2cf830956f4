// Package pipeline runs partial generation over a set of packages.
//
// Phases:
//  1. load the type model (go/packages)
//  2. synthesize leaf partials in parallel
//  3. synthesize parent partials in parallel, warning about failed children
//  4. drop links of leaves to failed parents
//  5. render and emit every surviving partial in parallel
//
// A failing declaration never stops the others; its problems end up in the
// diagnostics of the Result.
package pipeline
