package plan

import (
	"fmt"
	"go/types"

	"github.com/cockroachdb/errors"

	"partialgen/internal/analyze"
	"partialgen/internal/diagnostic"
)

// Synthesize builds the partial of an annotated declaration. Every problem is
// reported to sink; a non-nil error means the declaration is aborted and no
// partial must be generated for it.
func Synthesize(
	decl *analyze.TypeDeclaration,
	model *analyze.Model,
	sink *diagnostic.Sink,
	opts Options,
) (*PartialType, error) {
	switch decl.Kind {
	case analyze.DeclKindLeaf:
		return SynthesizeLeaf(decl, model, sink, opts)
	case analyze.DeclKindParent:
		return SynthesizeParent(decl, model, sink, opts)
	default:
		return nil, errors.Newf("%s is not annotated", decl.ID)
	}
}

// checkDeclaration validates the annotation against the Go declaration.
func checkDeclaration(decl *analyze.TypeDeclaration, want analyze.Shape) error {
	if decl.DirectiveErr != "" {
		return errors.WithHint(
			configError(diagnostic.CodeBadDirective, decl, "%s", decl.DirectiveErr),
			"use //partialgen:generate or //partialgen:generate children=A,B",
		)
	}

	if decl.Shape != want {
		wantDesc := "a struct type"
		if want == analyze.ShapeInterface {
			wantDesc = "an interface type"
		}

		return invalidShape(decl, wantDesc)
	}

	if decl.Generic {
		return configError(diagnostic.CodeGenericType, decl,
			"%s has type parameters, partials are generated for non-generic types only", decl.ID.Name)
	}

	for _, f := range decl.Fields {
		if invalidType(f.Type) {
			return errors.WithHintf(
				configError(diagnostic.CodeTypeError, decl, "field %s of %s does not type-check", f.Name, decl.ID.Name),
				"fix the compile errors in %s", decl.Pos.Filename,
			)
		}
	}

	return nil
}

// invalidType reports whether t is, or is built from, a type the checker
// could not resolve.
func invalidType(t types.Type) bool {
	switch t := t.(type) {
	case nil:
		return true
	case *types.Basic:
		return t.Kind() == types.Invalid
	case *types.Pointer:
		return invalidType(t.Elem())
	case *types.Slice:
		return invalidType(t.Elem())
	case *types.Array:
		return invalidType(t.Elem())
	case *types.Chan:
		return invalidType(t.Elem())
	case *types.Map:
		return invalidType(t.Key()) || invalidType(t.Elem())
	default:
		return false
	}
}

// fail reports the aborting error of decl and returns it.
func fail(sink *diagnostic.Sink, decl *analyze.TypeDeclaration, err error) error {
	sink.ReportError(diagnostic.SeverityError, err, decl.ID.String(), "", decl.Pos)
	return err
}

// WarnFailedChildren reports every child of a parent partial whose own
// partial could not be generated: its dispatch branch refers to a type that
// does not exist.
func WarnFailedChildren(pt *PartialType, failed func(analyze.TypeID) bool, sink *diagnostic.Sink) {
	for _, c := range pt.Children {
		if !failed(c.ID) {
			continue
		}

		sink.AddWarning(diagnostic.CodeChildFailed,
			fmt.Sprintf("child %s failed to generate, the %s branch of Merge%s will not compile", c.Name, c.Kind, pt.TypeName()),
			pt.Decl.ID.String(), "", pt.Decl.Pos)
	}
}

// UnlinkFailedParents drops the links of a leaf partial to parents whose own
// partial could not be generated.
func UnlinkFailedParents(pt *PartialType, failed func(analyze.TypeID) bool, sink *diagnostic.Sink) {
	kept := pt.Parents[:0]

	for _, link := range pt.Parents {
		if !failed(link.Parent) {
			kept = append(kept, link)
			continue
		}

		sink.AddWarning(diagnostic.CodeChildFailed,
			fmt.Sprintf("parent %s failed to generate, %s does not implement %s", link.Parent.Name, pt.Name, link.Partial),
			pt.Decl.ID.String(), "", pt.Decl.Pos)
	}

	pt.Parents = kept
}
