// Package analyze provides package loading and the type model the generator
// works from.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to find
// declarations annotated with
//
//	//partialgen:generate                      (leaf: a struct)
//	//partialgen:generate children=A,B         (parent: an interface)
//
// and exposes them as an immutable Model.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeDeclaration: annotated kind, Go shape, fields, supertypes, children
//   - FieldDeclaration: field name, type, modifiers, attributes, overridden fields
//   - Attribute: an opaque struct tag or marker comment copied onto generated fields
package analyze
