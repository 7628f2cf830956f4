// Package match provides identifier normalization, Levenshtein distance and
// type compatibility verdicts used to explain configuration errors.
//
// Key functions:
//   - Suggest: closest declared names for a misspelled one
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - CompareTypes: how a field type relates to a getter result type
package match
