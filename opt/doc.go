// Package opt provides the optionality container used by generated partial types.
//
// A Field[T] is either Value(v), meaning the field was supplied (v may itself be
// nil or empty), or Missing, meaning the field was not supplied and a merge must
// keep the pre-existing value. The zero Field is Missing, so a partial literal
// that omits a field leaves it Missing.
//
// Codecs:
//   - encoding/json: an absent key stays Missing, a null becomes Value(nil)
//   - gopkg.in/yaml.v3: an absent key or a null stays Missing
//   - IsZero reports Missing, so `json:",omitzero"` and `yaml:",omitempty"` drop Missing fields
package opt
