// Package classify decides, per field, whether a generated partial carries the
// field as is (Mandatory), wrapped in opt.Field (Optional), or not at all
// (Excluded).
//
// The own modifier of a field gives a tentative classification which is then
// folded with the classification of every supertype field it overrides:
//
//	own       inherited          result
//	required  any                Mandatory
//	none      Mandatory          Mandatory
//	none      Optional/Excluded  Optional
//	skip      Excluded           Excluded
//	skip      Mandatory/Optional conflict
//
// Failures are per field. A failing field is reported and dropped while its
// siblings are still classified, unless the field implements a getter of a
// parent interface: the partial could then no longer satisfy the parent
// partial, and the whole type is aborted.
package classify
