// Package diagnostic provides structured warnings and errors reported while
// generating partial types.
//
// Every diagnostic names the declaration (and field, when relevant) it belongs
// to together with its source position, so tooling can surface it in place.
// A Sink collects diagnostics from concurrently processed declarations.
package diagnostic
