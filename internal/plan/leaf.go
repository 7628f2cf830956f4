package plan

import (
	"slices"

	"github.com/cockroachdb/errors"

	"partialgen/internal/analyze"
	"partialgen/internal/classify"
	"partialgen/internal/diagnostic"
	"partialgen/internal/match"
)

// SynthesizeLeaf builds the partial struct of a leaf declaration.
func SynthesizeLeaf(
	decl *analyze.TypeDeclaration,
	model *analyze.Model,
	sink *diagnostic.Sink,
	opts Options,
) (*PartialType, error) {
	if err := checkDeclaration(decl, analyze.ShapeStruct); err != nil {
		return nil, fail(sink, decl, err)
	}

	results, err := classify.ClassifyAll(decl, sink)
	if err != nil {
		return nil, fail(sink, decl, err)
	}

	pt := &PartialType{
		Decl: decl,
		Name: PartialName(decl.ID.Name),
	}

	policy := newAttributePolicy(decl, sink, opts)

	for _, r := range results {
		if !r.Class.InPartial() {
			pt.Excluded = append(pt.Excluded, &ExcludedField{Name: r.Field.Name, Default: r.Field.Default})
			continue
		}

		tag, markers := policy.render(r.Field, r.Class)

		pt.Fields = append(pt.Fields, &PartialField{
			Name:    r.Field.Name,
			Type:    r.Field.Type,
			Class:   r.Class,
			Tag:     tag,
			Markers: markers,
			Source:  r.Field,
		})
	}

	for _, parent := range model.ParentsOf(decl) {
		link, err := linkParent(pt, parent)
		switch {
		case err == nil:
			pt.Parents = append(pt.Parents, link)
		case declaredChild(parent, decl.ID) == "":
			// Only listed children are bound to their parent partial.
			sink.ReportError(diagnostic.SeverityWarning,
				errors.Wrapf(err, "%s is not a child of %s, %s does not implement %s",
					decl.ID.Name, parent.ID.Name, pt.Name, PartialName(parent.ID.Name)),
				decl.ID.String(), "", decl.Pos)
		default:
			return nil, fail(sink, decl, err)
		}
	}

	if err := checkNameCollisions(pt); err != nil {
		return nil, fail(sink, decl, err)
	}

	return pt, nil
}

// declaredChild returns the name parent lists id under, or "".
func declaredChild(parent *analyze.TypeDeclaration, id analyze.TypeID) string {
	for _, c := range parent.Children {
		if c.Resolved && c.ID == id {
			return c.Name
		}
	}

	return ""
}

// checkNameCollisions rejects fields whose names clash with the methods
// generated on the declaration or on its partial.
func checkNameCollisions(pt *PartialType) error {
	for _, f := range pt.Decl.Fields {
		if f.Name == "ToPartial" || f.Name == "ApplyPartial" {
			return errors.WithHintf(nameCollision(pt.Decl, f.Name, pt.Decl.ID.Name), "rename field %s", f.Name)
		}
	}

	methods := map[string]bool{"Merge": true, "Build": true}
	for _, link := range pt.Parents {
		methods[link.KindType] = true
		for _, g := range link.Getters {
			methods[g.Method] = true
		}
	}

	for _, f := range pt.Fields {
		if methods[f.Name] {
			return errors.WithHintf(nameCollision(pt.Decl, f.Name, pt.Name),
				"rename field %s or mark it partial:\"skip\"", f.Name)
		}
	}

	return nil
}

func nameCollision(decl *analyze.TypeDeclaration, field, owner string) error {
	return configError(diagnostic.CodeNameCollision, decl,
		"field %s collides with the generated method %s.%s", field, owner, field)
}

// linkParent computes the getters and discriminant the leaf partial needs to
// implement the partial of parent.
func linkParent(pt *PartialType, parent *analyze.TypeDeclaration) (*ParentLink, error) {
	name := parent.ID.Name

	link := &ParentLink{
		Parent:   parent.ID,
		Partial:  PartialName(name),
		KindType: KindTypeName(name),
		Kind:     KindConst(name, ""),
	}

	if child := declaredChild(parent, pt.Decl.ID); child != "" {
		link.Declared = true
		link.Kind = KindConst(name, child)
	}

	for _, pf := range parent.Fields {
		pc, err := classify.Classify(pf)
		if err != nil || !pc.InPartial() {
			// The parent drops this getter from its own partial.
			continue
		}

		f := pt.Field(pf.Name)
		if f == nil || !slices.Contains(f.Source.Overrides, pf) {
			return nil, getterMismatch(pt.Decl, parent, pf)
		}

		link.Getters = append(link.Getters, &Getter{
			Method:   pf.Getter,
			Field:    pf.Name,
			Type:     pf.Type,
			Optional: pc.Wrapped(),
			Wrap:     pc.Wrapped() && !f.Class.Wrapped(),
		})
	}

	return link, nil
}

// getterMismatch explains why a leaf cannot provide a getter of its parent partial.
func getterMismatch(decl, parent *analyze.TypeDeclaration, pf *analyze.FieldDeclaration) error {
	f := decl.Field(pf.Name)
	if f == nil {
		var names []string
		for _, cf := range decl.Fields {
			names = append(names, cf.Name)
		}

		err := error(configError(diagnostic.CodeChildNotImplementing, decl,
			"%s has no field %s backing %s.%s, %s cannot implement %s",
			decl.ID.Name, pf.Name, parent.ID.Name, pf.Getter, PartialName(decl.ID.Name), PartialName(parent.ID.Name)))

		for _, s := range match.Suggest(pf.Name, names, 1) {
			err = errors.WithHintf(err, "rename field %s to %s", s, pf.Name)
		}

		return err
	}

	verdict := match.CompareTypes(f.Type, pf.Type)
	if verdict == match.TypeIdentical {
		return configError(diagnostic.CodeTypeAborted, decl, "field %s was dropped, %s cannot implement %s",
			pf.Name, PartialName(decl.ID.Name), PartialName(parent.ID.Name))
	}

	return errors.WithHintf(
		configError(diagnostic.CodeChildNotImplementing, decl,
			"field %s has type %s but %s.%s returns %s (%s)",
			f.Name, f.Type, parent.ID.Name, pf.Getter, pf.Type, verdict),
		"declare %s as %s", f.Name, pf.Type,
	)
}
