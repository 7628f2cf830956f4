package classify

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"

	"partialgen/internal/analyze"
	"partialgen/internal/diagnostic"
)

// Result is the classification of one field.
type Result struct {
	Field *analyze.FieldDeclaration
	Class Classification
}

// Classify returns the classification of f, folding in every field it
// overrides. Override cycles are cut at the first revisit.
func Classify(f *analyze.FieldDeclaration) (Classification, error) {
	return classify(f, make(map[*analyze.FieldDeclaration]bool))
}

func classify(f *analyze.FieldDeclaration, seen map[*analyze.FieldDeclaration]bool) (Classification, error) {
	own, err := ownClass(f)
	if err != nil {
		return 0, err
	}

	if seen[f] {
		return own, nil
	}

	seen[f] = true

	result := own

	for _, o := range f.Overrides {
		inherited, err := classify(o, seen)
		if err != nil {
			return 0, errors.Wrapf(err, "inherited from %s", o.Owner.Short())
		}

		switch {
		case own == Excluded && inherited != Excluded:
			return 0, &FieldConflictError{
				Kind:           ConflictInheritedSkip,
				Owner:          f.Owner,
				Field:          f.Name,
				Inherited:      o,
				InheritedClass: inherited,
			}
		case inherited == Mandatory:
			result = Mandatory
		}
	}

	return result, nil
}

// ownClass is the tentative classification given by the field's own modifiers.
func ownClass(f *analyze.FieldDeclaration) (Classification, error) {
	required := slices.Contains(f.Modifiers, analyze.ModifierRequired)
	skip := slices.Contains(f.Modifiers, analyze.ModifierSkip)

	switch {
	case required && skip:
		return 0, &FieldConflictError{Kind: ConflictBothModifiers, Owner: f.Owner, Field: f.Name}
	case skip:
		return Excluded, nil
	case required:
		return Mandatory, nil
	default:
		return Optional, nil
	}
}

// ClassifyAll classifies the fields of decl in declaration order. Field
// failures and reading problems are reported to sink; failing fields are left
// out of the result. The returned error is an *AbortError when a failure
// escalates to the whole type.
func ClassifyAll(decl *analyze.TypeDeclaration, sink *diagnostic.Sink) ([]Result, error) {
	var (
		results []Result
		abort   error
	)

	name := decl.ID.String()

	for _, f := range decl.Fields {
		for _, u := range f.UnknownModifiers {
			sink.AddWarning(diagnostic.CodeUnknownModifier,
				fmt.Sprintf("unknown modifier %q ignored", u), name, f.Name, f.Pos)
		}

		for _, p := range f.Problems {
			sink.AddWarning(diagnostic.CodeBadDirective, p, name, f.Name, f.Pos)
		}

		c, err := Classify(f)
		if err == nil && c == Excluded && !f.FromInterface() && f.Default == "" && decl.DefaultFunc == "" {
			err = &FieldConflictError{Kind: ConflictMissingDefault, Owner: decl.ID, Field: f.Name}
		}

		if err == nil {
			results = append(results, Result{Field: f, Class: c})
			continue
		}

		var conflict *FieldConflictError
		if errors.As(err, &conflict) {
			conflict.escalates = escalates(f)
			if hint := conflict.Hint(); hint != "" {
				err = errors.WithHint(err, hint)
			}
		}

		sink.ReportError(diagnostic.SeverityError, err, name, f.Name, f.Pos)

		if conflict != nil && conflict.escalates && abort == nil {
			abort = &AbortError{Decl: decl.ID, Cause: conflict}
		}
	}

	if abort != nil {
		return nil, abort
	}

	return results, nil
}

// escalates reports whether dropping f would leave a parent getter unimplemented.
func escalates(f *analyze.FieldDeclaration) bool {
	for _, o := range f.Overrides {
		if !o.FromInterface() {
			continue
		}

		if c, err := Classify(o); err != nil || c != Excluded {
			return true
		}
	}

	return false
}
