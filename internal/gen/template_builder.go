package gen

import (
	"go/types"

	"partialgen/internal/analyze"
	"partialgen/internal/plan"
)

// templateData holds all data needed to render one partial file.
type templateData struct {
	Header  string
	Package string
	// ImportDecl is the rendered import declaration, possibly empty.
	ImportDecl string
	// Type is the original type, Partial its partial.
	Type    string
	Partial string
	// Opt is the alias of the opt package.
	Opt string

	// Leaf.
	Fields      []fieldData
	Optional    []fieldData
	DefaultFunc string
	Defaults    []defaultData
	Parents     []parentData

	// Parent.
	Getters     []fieldData
	KindType    string
	UnknownKind string
	Children    []childData
}

// fieldData is one field of a partial struct, or one getter of a partial interface.
type fieldData struct {
	Name     string
	Method   string
	TypeExpr string
	Tag      string
	Markers  []string
	Optional bool
}

// defaultData assigns the default expression of an excluded field in Build.
type defaultData struct {
	Name string
	Expr string
}

// parentData describes the methods a leaf partial provides for one parent.
type parentData struct {
	Parent   string
	Partial  string
	KindType string
	Kind     string
	Getters  []getterData
}

// getterData is one getter implemented by a leaf partial.
type getterData struct {
	Method     string
	Field      string
	ResultExpr string
	Wrap       bool
}

// childData is one branch of a parent's merge dispatch.
type childData struct {
	Name    string
	Partial string
	Kind    string
	Pointer bool
}

// buildTemplateData builds the template data for pt. Type expressions are
// rendered first so the import list is complete when it is read.
func buildTemplateData(pt *plan.PartialType, optImport string) *templateData {
	decl := pt.Decl
	imports := newImportSet(decl.ID.PkgPath, optImport, scopeNames(decl)...)

	data := &templateData{
		Header:      analyze.GeneratedHeader,
		Package:     decl.PkgName,
		Type:        decl.ID.Name,
		Partial:     pt.Name,
		DefaultFunc: decl.DefaultFunc,
		KindType:    pt.KindType,
		UnknownKind: pt.UnknownKind,
	}

	if pt.IsParent() {
		buildParentData(data, pt, imports)
	} else {
		buildLeafData(data, pt, imports)
	}

	data.ImportDecl = importDecl(imports.specs())

	return data
}

func buildLeafData(data *templateData, pt *plan.PartialType, imports *importSet) {
	for _, f := range pt.Fields {
		fd := newFieldData(f, imports)
		data.Fields = append(data.Fields, fd)

		if fd.Optional {
			data.Optional = append(data.Optional, fd)
		}
	}

	for _, ex := range pt.Excluded {
		if ex.Default != "" {
			data.Defaults = append(data.Defaults, defaultData{Name: ex.Name, Expr: ex.Default})
		}
	}

	seen := make(map[string]bool)

	for _, link := range pt.Parents {
		pd := parentData{
			Parent:   link.Parent.Name,
			Partial:  link.Partial,
			KindType: link.KindType,
			Kind:     link.Kind,
		}

		for _, g := range link.Getters {
			// Two parents may declare the same getter.
			if seen[g.Method] {
				continue
			}

			seen[g.Method] = true

			pd.Getters = append(pd.Getters, getterData{
				Method:     g.Method,
				Field:      g.Field,
				ResultExpr: resultExpr(g.Type, g.Optional, imports),
				Wrap:       g.Wrap,
			})

			if g.Wrap {
				data.Opt = imports.opt()
			}
		}

		data.Parents = append(data.Parents, pd)
	}

	if len(data.Optional) > 0 {
		data.Opt = imports.opt()
	}
}

func buildParentData(data *templateData, pt *plan.PartialType, imports *importSet) {
	for _, f := range pt.Fields {
		data.Getters = append(data.Getters, newFieldData(f, imports))
	}

	for _, c := range pt.Children {
		data.Children = append(data.Children, childData{
			Name:    c.Name,
			Partial: c.Partial,
			Kind:    c.Kind,
			Pointer: c.Pointer,
		})
	}
}

func newFieldData(f *plan.PartialField, imports *importSet) fieldData {
	optional := f.Class.Wrapped()

	return fieldData{
		Name:     f.Name,
		Method:   f.Getter,
		TypeExpr: resultExpr(f.Type, optional, imports),
		Tag:      quoteTag(f.Tag),
		Markers:  f.Markers,
		Optional: optional,
	}
}

func resultExpr(t types.Type, optional bool, imports *importSet) string {
	if optional {
		return imports.optField(t)
	}

	return imports.typeString(t)
}

// scopeNames returns the package-level names visible in the generated file.
func scopeNames(decl *analyze.TypeDeclaration) []string {
	if decl.Object == nil || decl.Object.Pkg() == nil {
		return nil
	}

	return decl.Object.Pkg().Scope().Names()
}
