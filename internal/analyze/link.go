package analyze

import (
	"go/types"
	"slices"
	"strings"
)

// link resolves the relations between declarations once every package is
// read: children of parents, supertypes of structs and field override links.
func (a *Analyzer) link() {
	ids := make([]TypeID, 0, len(a.model.Decls))
	for id := range a.model.Decls {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(x, y TypeID) int {
		return strings.Compare(x.String(), y.String())
	})

	var parents []*TypeDeclaration

	for _, id := range ids {
		d := a.model.Decls[id]
		if d.Kind == DeclKindParent && d.Shape == ShapeInterface {
			a.resolveChildren(d)
			parents = append(parents, d)
		}
	}

	done := make(map[TypeID]bool, len(ids))
	for _, id := range ids {
		a.linkDecl(a.model.Decls[id], parents, done)
	}
}

// linkDecl links one declaration, embedded declarations first.
func (a *Analyzer) linkDecl(d *TypeDeclaration, parents []*TypeDeclaration, done map[TypeID]bool) {
	if done[d.ID] {
		return
	}

	done[d.ID] = true

	switch d.Shape {
	case ShapeInterface:
		for _, id := range d.Embeds {
			if e := a.model.Decls[id]; e != nil && e.Kind == DeclKindParent {
				d.EmbeddedParents = append(d.EmbeddedParents, id)
			}
		}

	case ShapeStruct:
		for _, id := range d.Embeds {
			e := a.model.Decls[id]
			if e == nil || e.Shape != ShapeStruct {
				continue
			}

			a.linkDecl(e, parents, done)

			if !d.HasSupertype(id) {
				d.Supertypes = append(d.Supertypes, id)
			}
		}

		for _, p := range parents {
			if p.ID != d.ID && extendsParent(d, p) {
				d.Supertypes = append(d.Supertypes, p.ID)
			}
		}

		for _, f := range d.Fields {
			if f.Embedded {
				continue
			}

			for _, id := range d.Supertypes {
				if sf := a.overridden(a.model.Decls[id], f, make(map[TypeID]bool)); sf != nil {
					f.Overrides = append(f.Overrides, sf)
				}
			}
		}
	}
}

// overridden returns the field of super that f shadows or implements.
func (a *Analyzer) overridden(super *TypeDeclaration, f *FieldDeclaration, seen map[TypeID]bool) *FieldDeclaration {
	if super == nil || seen[super.ID] {
		return nil
	}

	seen[super.ID] = true

	switch super.Shape {
	case ShapeInterface:
		if sf := super.Field(f.Name); sf != nil && types.Identical(sf.Type, f.Type) {
			return sf
		}

	case ShapeStruct:
		if sf := super.Field(f.Name); sf != nil && !sf.Embedded {
			return sf
		}

		for _, id := range super.Embeds {
			if sf := a.overridden(a.model.Decls[id], f, seen); sf != nil {
				return sf
			}
		}
	}

	return nil
}

// extendsParent reports whether struct d takes part in parent p's hierarchy:
// it is a declared child, or it implements a non-empty p from p's package.
func extendsParent(d, p *TypeDeclaration) bool {
	for _, c := range p.Children {
		if c.Resolved && c.ID == d.ID {
			return c.Implements
		}
	}

	if d.ID.PkgPath != p.ID.PkgPath || d.Object == nil || d.Generic {
		return false
	}

	iface := parentInterface(p)
	if iface == nil || iface.NumMethods() == 0 {
		return false
	}

	ok, _ := implements(d.Object.Type(), iface)

	return ok
}

// resolveChildren resolves the children= names of a parent against its
// package scope and records every implementer of the parent in that scope.
func (a *Analyzer) resolveChildren(p *TypeDeclaration) {
	iface := parentInterface(p)
	if iface == nil || p.Object.Pkg() == nil {
		return
	}

	scope := p.Object.Pkg().Scope()

	for _, name := range a.childNames[p.ID] {
		ref := ChildRef{Name: name}

		if obj, ok := scope.Lookup(name).(*types.TypeName); ok && !strings.Contains(name, ".") {
			ref.ID = TypeID{PkgPath: p.ID.PkgPath, Name: obj.Name()}
			ref.Resolved = true
			ref.Implements, ref.Pointer = implements(obj.Type(), iface)
		}

		p.Children = append(p.Children, ref)
	}

	if iface.NumMethods() == 0 {
		return
	}

	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() || name == p.ID.Name {
			continue
		}

		if _, isIface := obj.Type().Underlying().(*types.Interface); isIface {
			continue
		}

		if named, ok := obj.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
			continue
		}

		if ok, ptr := implements(obj.Type(), iface); ok {
			p.Implementers = append(p.Implementers, ChildRef{
				Name:       name,
				ID:         TypeID{PkgPath: p.ID.PkgPath, Name: name},
				Resolved:   true,
				Implements: true,
				Pointer:    ptr,
			})
		}
	}
}

func parentInterface(p *TypeDeclaration) *types.Interface {
	if p.Object == nil {
		return nil
	}

	iface, _ := p.Object.Type().Underlying().(*types.Interface)

	return iface
}

// implements reports whether t or *t implements iface. pointer is true when
// only *t does.
func implements(t types.Type, iface *types.Interface) (ok, pointer bool) {
	if types.Implements(t, iface) {
		return true, false
	}

	if _, isPtr := t.Underlying().(*types.Pointer); !isPtr && types.Implements(types.NewPointer(t), iface) {
		return true, true
	}

	return false, false
}
