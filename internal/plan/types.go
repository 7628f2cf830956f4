package plan

import (
	"go/types"

	"partialgen/internal/analyze"
	"partialgen/internal/classify"
)

// PartialSuffix is appended to a declaration name to name its partial.
const PartialSuffix = "Partial"

// PartialType is the synthesized shape of one generated partial.
type PartialType struct {
	// Decl is the annotated declaration.
	Decl *analyze.TypeDeclaration
	// Name of the generated type, e.g. "AgedUserPartial".
	Name string
	// Fields of the partial in declaration order. Excluded fields are not present.
	Fields []*PartialField
	// Excluded lists the leaf fields left out of the partial.
	Excluded []*ExcludedField
	// Parents are the parent partials a leaf partial implements.
	Parents []*ParentLink
	// Children are the dispatch variants of a parent, in declared order.
	Children []*ChildVariant
	// KindType names the discriminant type of a parent, e.g. "UserPartialKind".
	KindType string
	// UnknownKind names the discriminant constant matching no child.
	UnknownKind string
}

// IsParent reports whether the partial is the interface of a parent.
func (pt *PartialType) IsParent() bool {
	return pt.Decl.Kind == analyze.DeclKindParent
}

// TypeName returns the name of the original type.
func (pt *PartialType) TypeName() string {
	return pt.Decl.ID.Name
}

// Field returns the partial field with the given name, or nil.
func (pt *PartialType) Field(name string) *PartialField {
	for _, f := range pt.Fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// PartialField is one field of a leaf partial, or one getter of a parent partial.
type PartialField struct {
	Name  string
	Type  types.Type
	Class classify.Classification
	// Getter is the method name of a parent field ("GetName").
	Getter string
	// Tag is the rendered struct tag without backquotes.
	Tag string
	// Markers are rendered marker comments without the leading "//".
	Markers []string
	// Source is the originating declaration.
	Source *analyze.FieldDeclaration
}

// ExcludedField is a leaf field that is not part of the partial. Build takes
// its value from the Default expression, or from the type's default function
// when Default is empty.
type ExcludedField struct {
	Name    string
	Default string
}

// ParentLink describes what a leaf partial must provide to implement the
// partial of one of its parents.
type ParentLink struct {
	Parent analyze.TypeID
	// Partial is the parent partial interface, e.g. "UserPartial".
	Partial string
	// KindType is the discriminant type and method name, e.g. "UserPartialKind".
	KindType string
	// Kind is the discriminant constant the leaf partial returns.
	Kind string
	// Declared is false when the leaf is missing from the parent's children.
	Declared bool
	Getters  []*Getter
}

// Getter is a method a leaf partial implements for a parent partial.
type Getter struct {
	Method string
	Field  string
	// Type is the result type of the method.
	Type types.Type
	// Optional is true when the method returns opt.Field[Type].
	Optional bool
	// Wrap is true when the leaf carries the field as Mandatory while the
	// parent expects it Optional.
	Wrap bool
}

// ChildVariant is one branch of a parent's merge dispatch.
type ChildVariant struct {
	ID analyze.TypeID
	// Name of the child type.
	Name string
	// Partial is the child's partial type name.
	Partial string
	// Kind is the discriminant constant of the child.
	Kind string
	// Pointer is true when only *Child implements the parent.
	Pointer bool
}

// Options control attribute propagation.
type Options struct {
	// JSONOmitZero appends omitzero to json tags of Optional fields when the
	// module supports it.
	JSONOmitZero bool
	// TypeRefMinGo is the module Go version from which type-valued marker
	// arguments are rendered as type expressions.
	TypeRefMinGo string
}

// DefaultOptions returns the default synthesis options.
func DefaultOptions() Options {
	return Options{
		JSONOmitZero: true,
		TypeRefMinGo: "1.23",
	}
}

// PartialName returns the partial type name for a declaration name.
func PartialName(name string) string {
	return name + PartialSuffix
}

// KindTypeName returns the discriminant type name of a parent.
func KindTypeName(parent string) string {
	return PartialName(parent) + "Kind"
}

// KindConst returns the discriminant constant of child within parent's
// family. An empty child names the Unknown constant.
func KindConst(parent, child string) string {
	if child == "" {
		child = "Unknown"
	}

	return KindTypeName(parent) + child
}
