package plan

import (
	"fmt"
	"go/types"
	"slices"

	"github.com/cockroachdb/errors"

	"partialgen/internal/analyze"
	"partialgen/internal/classify"
	"partialgen/internal/diagnostic"
	"partialgen/internal/match"
)

// SynthesizeParent builds the partial interface and dispatch variants of a
// parent declaration.
func SynthesizeParent(
	decl *analyze.TypeDeclaration,
	model *analyze.Model,
	sink *diagnostic.Sink,
	opts Options,
) (*PartialType, error) {
	if err := checkDeclaration(decl, analyze.ShapeInterface); err != nil {
		return nil, fail(sink, decl, err)
	}

	name := decl.ID.Name
	pt := &PartialType{
		Decl:        decl,
		Name:        PartialName(name),
		KindType:    KindTypeName(name),
		UnknownKind: KindConst(name, ""),
	}

	for _, id := range decl.EmbeddedParents {
		sink.AddWarning(diagnostic.CodeGrandchildHierarchy,
			fmt.Sprintf("%s embeds parent %s, only getters declared by %s itself are part of %s",
				name, id.Name, name, pt.Name),
			decl.ID.String(), "", decl.Pos)
	}

	var errs []error

	declared := make(map[string]bool, len(decl.Children))

	for _, c := range decl.Children {
		if declared[c.Name] {
			errs = append(errs, configError(diagnostic.CodeBadDirective, decl, "child %s is listed twice", c.Name))
			continue
		}

		declared[c.Name] = true

		if KindConst(name, c.Name) == pt.UnknownKind {
			errs = append(errs, configError(diagnostic.CodeBadDirective, decl,
				"child %s collides with %s", c.Name, pt.UnknownKind))

			continue
		}

		v, err := childVariant(decl, model, c)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		pt.Children = append(pt.Children, v)
	}

	if len(errs) > 0 {
		for _, err := range errs[1:] {
			sink.ReportError(diagnostic.SeverityError, err, decl.ID.String(), "", decl.Pos)
		}

		return nil, fail(sink, decl, errs[0])
	}

	for _, impl := range decl.Implementers {
		if declared[impl.Name] {
			continue
		}

		sink.Report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityWarning,
			Code:     diagnostic.CodeUndeclaredChild,
			Message: fmt.Sprintf("%s implements %s but is not in its children, Merge%s never dispatches to it",
				impl.Name, name, name),
			Decl:        decl.ID.String(),
			Pos:         decl.Pos,
			Suggestions: []string{"add " + impl.Name + " to children="},
		})
	}

	results, err := classify.ClassifyAll(decl, sink)
	if err != nil {
		return nil, fail(sink, decl, err)
	}

	policy := newAttributePolicy(decl, sink, opts)

	for _, r := range results {
		if !r.Class.InPartial() {
			continue
		}

		_, markers := policy.render(r.Field, r.Class)

		pt.Fields = append(pt.Fields, &PartialField{
			Name:    r.Field.Name,
			Type:    r.Field.Type,
			Class:   r.Class,
			Getter:  r.Field.Getter,
			Markers: markers,
			Source:  r.Field,
		})
	}

	return pt, nil
}

// childVariant validates a declared child and builds its dispatch variant.
func childVariant(decl *analyze.TypeDeclaration, model *analyze.Model, c analyze.ChildRef) (*ChildVariant, error) {
	parent := decl.ID.Name

	if !c.Resolved {
		err := error(configError(diagnostic.CodeUnknownChild, decl,
			"child %s is not declared in package %s", c.Name, decl.PkgName))

		if suggestions := match.Suggest(c.Name, childCandidates(decl, model), 3); len(suggestions) > 0 {
			for _, s := range suggestions {
				err = errors.WithHintf(err, "did you mean %s?", s)
			}
		} else {
			err = errors.WithHint(err, "children must be declared in the package of the parent")
		}

		return nil, err
	}

	child := model.Get(c.ID)
	if child == nil || child.Kind != analyze.DeclKindLeaf {
		return nil, errors.WithHintf(
			configError(diagnostic.CodeChildNotLeaf, decl, "child %s is not an annotated leaf", c.Name),
			"annotate %s with //partialgen:generate", c.Name,
		)
	}

	if !c.Implements {
		return nil, configError(diagnostic.CodeChildNotImplementing, decl,
			"child %s does not implement %s%s", c.Name, parent, missingMethod(child, decl))
	}

	return &ChildVariant{
		ID:      c.ID,
		Name:    c.Name,
		Partial: PartialName(c.Name),
		Kind:    KindConst(parent, c.Name),
		Pointer: c.Pointer,
	}, nil
}

// childCandidates lists the names an unresolved child may have meant.
func childCandidates(decl *analyze.TypeDeclaration, model *analyze.Model) []string {
	var names []string

	if info := model.Packages[decl.ID.PkgPath]; info != nil {
		for _, id := range info.Types {
			if d := model.Get(id); d != nil && d.Kind == analyze.DeclKindLeaf {
				names = append(names, id.Name)
			}
		}
	}

	for _, impl := range decl.Implementers {
		if !slices.Contains(names, impl.Name) {
			names = append(names, impl.Name)
		}
	}

	return names
}

// missingMethod describes the first method *child lacks, if known.
func missingMethod(child, parent *analyze.TypeDeclaration) string {
	if child.Object == nil || parent.Object == nil {
		return ""
	}

	iface, ok := parent.Object.Type().Underlying().(*types.Interface)
	if !ok {
		return ""
	}

	m, wrongType := types.MissingMethod(types.NewPointer(child.Object.Type()), iface, true)
	switch {
	case m == nil:
		return ""
	case wrongType:
		return " (wrong signature for method " + m.Name() + ")"
	default:
		return " (missing method " + m.Name() + ")"
	}
}
