package plan

import (
	"fmt"
	"go/types"
	"slices"
	"strconv"

	"partialgen/internal/analyze"
	"partialgen/internal/classify"
	"partialgen/internal/compat"
	"partialgen/internal/diagnostic"
)

// minOmitZeroGo is the first Go release whose encoding/json honors omitzero.
const minOmitZeroGo = "1.24"

// attributePolicy renders the attributes of one declaration's fields onto
// the partial. Attributes are opaque: only the json tag of Optional fields
// and type-valued marker arguments are ever changed.
type attributePolicy struct {
	decl *analyze.TypeDeclaration
	sink *diagnostic.Sink

	omitZero       bool
	omitZeroWanted bool
	omitZeroNoted  bool
	structuredRefs bool
	minTypeRefGo   string
}

func newAttributePolicy(decl *analyze.TypeDeclaration, sink *diagnostic.Sink, opts Options) *attributePolicy {
	supported := compat.AtLeast(decl.GoVersion, minOmitZeroGo)

	return &attributePolicy{
		decl:           decl,
		sink:           sink,
		omitZero:       opts.JSONOmitZero && supported,
		omitZeroWanted: opts.JSONOmitZero && !supported,
		structuredRefs: compat.AtLeast(decl.GoVersion, opts.TypeRefMinGo),
		minTypeRefGo:   opts.TypeRefMinGo,
	}
}

// render returns the struct tag and marker lines of f in the partial.
func (p *attributePolicy) render(f *analyze.FieldDeclaration, class classify.Classification) (string, []string) {
	var (
		tags    []analyze.Attribute
		markers []string
	)

	for _, attr := range f.Attributes {
		switch attr.Source {
		case analyze.SourceTag:
			if attr.Name == "json" && class.Wrapped() {
				attr = p.jsonTag(f, attr)
			}

			tags = append(tags, attr)

		case analyze.SourceMarker:
			markers = append(markers, attr.Marker(p.formatter(f, attr)))
		}
	}

	return analyze.RenderTag(tags), markers
}

// jsonTag adds omitzero to the json tag of an Optional field, so that Missing
// values are left out of the encoding.
func (p *attributePolicy) jsonTag(f *analyze.FieldDeclaration, attr analyze.Attribute) analyze.Attribute {
	if len(attr.Args) == 0 || attr.Args[0].Text == "-" {
		return attr
	}

	hasOmitZero := slices.ContainsFunc(attr.Args[1:], func(a analyze.AttributeArg) bool {
		return a.Text == "omitzero"
	})
	if hasOmitZero {
		return attr
	}

	if p.omitZeroWanted {
		if !p.omitZeroNoted {
			p.omitZeroNoted = true
			p.sink.AddInfo(diagnostic.CodeCompatOmitZero,
				fmt.Sprintf("module go %s is below %s: Missing optional fields are encoded as null",
					versionOrUnknown(p.decl.GoVersion), minOmitZeroGo),
				p.decl.ID.String(), f.Name, f.Pos)
		}

		return attr
	}

	if !p.omitZero {
		return attr
	}

	attr.Args = append(slices.Clone(attr.Args), analyze.AttributeArg{Kind: analyze.ArgString, Text: "omitzero"})

	return attr
}

// formatter returns the argument formatter for a marker of field f.
func (p *attributePolicy) formatter(f *analyze.FieldDeclaration, attr analyze.Attribute) analyze.ArgFormatter {
	return func(a analyze.AttributeArg) string {
		switch a.Kind {
		case analyze.ArgTypeRef:
			if p.structuredRefs {
				return p.typeExpr(a.Ref)
			}

			p.sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Code:     diagnostic.CodeCompatTypeRef,
				Message: fmt.Sprintf("module go %s is below %s: type reference %s in +%s is emitted as a string",
					versionOrUnknown(p.decl.GoVersion), p.minTypeRefGo, a.Text, attr.Name),
				Decl:        p.decl.ID.String(),
				Field:       f.Name,
				Pos:         f.Pos,
				Suggestions: []string{"raise the go directive of the module to " + p.minTypeRefGo + " or later"},
			})

			return strconv.Quote(qualifiedName(a.Ref))

		case analyze.ArgUnsupported:
			p.sink.AddWarning(diagnostic.CodeUnsupportedAttribute,
				fmt.Sprintf("value %s of +%s cannot be reproduced, emitted as a string", a.Text, attr.Name),
				p.decl.ID.String(), f.Name, f.Pos)

			return strconv.Quote(a.Text)

		default:
			return a.Text
		}
	}
}

// typeExpr renders a type reference as seen from the declaring package.
func (p *attributePolicy) typeExpr(obj *types.TypeName) string {
	if obj.Pkg() == nil || obj.Pkg().Path() == p.decl.ID.PkgPath {
		return obj.Name()
	}

	return obj.Pkg().Name() + "." + obj.Name()
}

func qualifiedName(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}

	return obj.Pkg().Path() + "." + obj.Name()
}

func versionOrUnknown(v string) string {
	if v == "" {
		return "(unknown)"
	}

	return v
}
