// Package plan synthesizes the shape of each generated partial type from a
// declaration and the classification of its fields.
//
// Synthesis pipeline for a declaration:
//  1. Validate the annotation against the Go shape (struct for a leaf,
//     interface for a parent) and reject generic declarations
//  2. Classify fields; failing fields are reported and dropped
//  3. Leaf: build partial fields, propagate tags and markers, collect the
//     Excluded fields' defaults and link every annotated parent interface
//  4. Parent: build getters, resolve declared children into dispatch
//     variants and warn about implementers that are missing from the list
//
// The result is a PartialType consumed by gen; nothing here renders code.
package plan
