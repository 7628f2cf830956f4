package analyze

import (
	"go/token"
	"go/types"
	"slices"

	"golang.org/x/tools/go/packages"

	"partialgen/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "partialgen/examples/users"
	Name    string // e.g., "AgedUser"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns "pkgname.Name" using the last path element.
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

// DeclKind is the kind requested by a declaration's annotation.
type DeclKind int

const (
	DeclKindNone   DeclKind = iota // not annotated
	DeclKindLeaf                   // //partialgen:generate
	DeclKindParent                 // //partialgen:generate children=...
)

// String returns a human-readable representation of the DeclKind.
func (k DeclKind) String() string {
	switch k {
	case DeclKindNone:
		return "none"
	case DeclKindLeaf:
		return "leaf"
	case DeclKindParent:
		return "parent"
	default:
		return common.UnknownStr
	}
}

// Shape is the Go shape of a declaration.
type Shape int

const (
	ShapeOther Shape = iota
	ShapeStruct
	ShapeInterface
)

// String returns a human-readable representation of the Shape.
func (s Shape) String() string {
	switch s {
	case ShapeOther:
		return "other"
	case ShapeStruct:
		return "struct"
	case ShapeInterface:
		return "interface"
	default:
		return common.UnknownStr
	}
}

// Modifier is a classification modifier attached to a field.
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierRequired
	ModifierSkip
)

// String returns the spelling used in tags and directives.
func (m Modifier) String() string {
	switch m {
	case ModifierNone:
		return "none"
	case ModifierRequired:
		return "required"
	case ModifierSkip:
		return "skip"
	default:
		return common.UnknownStr
	}
}

// TypeDeclaration describes one declaration of the model. Annotated
// declarations are generation inputs; unannotated ones only exist so that
// overridden fields can be classified.
type TypeDeclaration struct {
	ID      TypeID
	PkgName string
	Kind    DeclKind
	Shape   Shape
	// Generic is true for declarations with type parameters.
	Generic bool
	// Fields in declaration order. For interfaces, the explicitly declared getters.
	Fields []*FieldDeclaration
	// Supertypes are embedded structs and annotated parent interfaces this type implements.
	Supertypes []TypeID
	// Children are the author-declared children, in declaration order (parent only).
	Children []ChildRef
	// Implementers are the named types of the parent's package implementing it (parent only).
	Implementers []ChildRef
	// Embeds are the named types embedded by this struct or interface.
	Embeds []TypeID
	// EmbeddedParents are annotated parents embedded by this interface.
	EmbeddedParents []TypeID
	// DefaultFunc names a package function Default<Name>() <Name>, if one exists.
	DefaultFunc string
	// DirectiveErr is set when the annotation itself could not be parsed.
	DirectiveErr string
	// GoVersion is the go directive of the declaring module (e.g. "1.24").
	GoVersion string
	// Dir is the directory of the declaring file.
	Dir string
	Pos token.Position
	// Object is the go/types object of the declaration.
	Object *types.TypeName
}

// Annotated reports whether the declaration requested generation.
func (d *TypeDeclaration) Annotated() bool {
	return d.Kind != DeclKindNone
}

// Field returns the field with the given name, or nil.
func (d *TypeDeclaration) Field(name string) *FieldDeclaration {
	for _, f := range d.Fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// HasSupertype reports whether id is one of the declaration's supertypes.
func (d *TypeDeclaration) HasSupertype(id TypeID) bool {
	return slices.Contains(d.Supertypes, id)
}

// ChildRef references a child type named in a parent's annotation.
type ChildRef struct {
	// Name as written in the annotation.
	Name string
	// ID of the resolved type; zero when unresolved.
	ID TypeID
	// Resolved is true when Name resolves to a type in the parent's package.
	Resolved bool
	// Implements is true when the type (or its pointer) implements the parent.
	Implements bool
	// Pointer is true when only the pointer type implements the parent.
	Pointer bool
}

// FieldDeclaration describes a struct field or an interface getter.
type FieldDeclaration struct {
	Name string
	Type types.Type
	// Embedded is true for embedded struct fields; Name is then the type name.
	Embedded bool
	// Getter is the method name for interface fields ("GetName" for Name).
	Getter string
	// Modifiers lists every modifier found in tags and directives, in source order.
	Modifiers []Modifier
	// UnknownModifiers lists unrecognized `partial` tag options.
	UnknownModifiers []string
	// Default is the expression of a `partialdefault` tag.
	Default string
	// Problems are non-fatal reading problems (malformed tags, unknown directives).
	Problems []string
	// Attributes are the non-control tags and markers, in source order.
	Attributes []Attribute
	// Overrides are the supertype fields this field shadows or implements.
	Overrides []*FieldDeclaration
	// Owner is the declaring type.
	Owner TypeID
	Pos   token.Position
}

// FromInterface reports whether the field is an interface getter.
func (f *FieldDeclaration) FromInterface() bool {
	return f.Getter != ""
}

// Model holds every declaration read from the loaded packages.
type Model struct {
	// Decls maps TypeID to declarations, annotated or not.
	Decls map[TypeID]*TypeDeclaration
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
	// Annotated lists annotated declarations sorted by TypeID string.
	Annotated []TypeID
	// TypeErrors are the type-checking errors of the loaded packages.
	TypeErrors []packages.Error
}

// NewModel creates an empty Model.
func NewModel() *Model {
	return &Model{
		Decls:    make(map[TypeID]*TypeDeclaration),
		Packages: make(map[string]*PackageInfo),
	}
}

// Get returns the declaration for id, or nil.
func (m *Model) Get(id TypeID) *TypeDeclaration {
	return m.Decls[id]
}

// AnnotatedDecls returns annotated declarations in deterministic order.
func (m *Model) AnnotatedDecls() []*TypeDeclaration {
	out := make([]*TypeDeclaration, 0, len(m.Annotated))
	for _, id := range m.Annotated {
		out = append(out, m.Decls[id])
	}

	return out
}

// ParentsOf returns the annotated parents among d's supertypes, in
// supertype order.
func (m *Model) ParentsOf(d *TypeDeclaration) []*TypeDeclaration {
	var out []*TypeDeclaration

	for _, id := range d.Supertypes {
		if p := m.Decls[id]; p != nil && p.Kind == DeclKindParent {
			out = append(out, p)
		}
	}

	return out
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path      string         // Import path
	Name      string         // Package name
	Dir       string         // Directory of the package sources
	GoVersion string         // Module go directive
	Types     []TypeID       // Annotated types defined in this package
	Package   *types.Package // Type-checked package
}
