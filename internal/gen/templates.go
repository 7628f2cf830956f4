package gen

import "text/template"

// Template for the file of a leaf partial.

var leafTemplate = template.Must(template.New("leaf").Parse(`{{.Header}}

package {{.Package}}

{{.ImportDecl}}
// {{.Partial}} is the partial form of {{.Type}}.
type {{.Partial}} struct {
{{range .Fields}}{{range .Markers}}	// {{.}}
{{end}}	{{.Name}} {{.TypeExpr}}{{if .Tag}} {{.Tag}}{{end}}
{{end}}}

// ToPartial returns the partial of x with every field carried.
func (x {{.Type}}) ToPartial() {{.Partial}} {
	return {{.Partial}}{
{{range .Fields}}		{{.Name}}: {{if .Optional}}{{$.Opt}}.Value(x.{{.Name}}){{else}}x.{{.Name}}{{end}},
{{end}}	}
}

// Merge returns full with the fields carried by p applied. Fields of p that
// are Missing keep the value of full.
func (p {{.Partial}}) Merge(full {{.Type}}) {{.Type}} {
	out := full

{{range .Fields}}{{if .Optional}}	if v, ok := p.{{.Name}}.Get(); ok {
		out.{{.Name}} = v
	}
{{else}}	out.{{.Name}} = p.{{.Name}}
{{end}}{{end}}
	return out
}

// ApplyPartial returns x with p applied.
func (x {{.Type}}) ApplyPartial(p {{.Partial}}) {{.Type}} {
	return p.Merge(x)
}

// Build returns the {{.Type}} described by p. It reports false when an
// optional field of p is Missing.
func (p {{.Partial}}) Build() ({{.Type}}, bool) {
{{if .Optional}}	if {{range $i, $f := .Optional}}{{if $i}} || {{end}}p.{{$f.Name}}.IsMissing(){{end}} {
		return {{.Type}}{}, false
	}

{{end}}{{if .DefaultFunc}}	out := {{.DefaultFunc}}()
{{else}}	var out {{.Type}}
{{end}}{{range .Defaults}}	out.{{.Name}} = {{.Expr}}
{{end}}
	return p.Merge(out), true
}
{{range $link := .Parents}}
// {{.KindType}} returns the discriminant of {{$.Partial}} within {{.Partial}}.
func (p {{$.Partial}}) {{.KindType}}() {{.KindType}} {
	return {{.Kind}}
}
{{range .Getters}}
// {{.Method}} implements {{$link.Partial}}.
func (p {{$.Partial}}) {{.Method}}() {{.ResultExpr}} {
	return {{if .Wrap}}{{$.Opt}}.Value(p.{{.Field}}){{else}}p.{{.Field}}{{end}}
}
{{end}}{{end}}`))

// Template for the file of a parent partial.

var parentTemplate = template.Must(template.New("parent").Parse(`{{.Header}}

package {{.Package}}

{{.ImportDecl}}
// {{.Partial}} is implemented by the partial of every child of {{.Type}}.
type {{.Partial}} interface {
{{range .Getters}}{{range .Markers}}	// {{.}}
{{end}}	{{.Method}}() {{.TypeExpr}}
{{end}}	{{.KindType}}() {{.KindType}}
}

// {{.KindType}} identifies the child of {{.Type}} a partial belongs to.
type {{.KindType}} int

const (
	{{.UnknownKind}} {{.KindType}} = iota
{{range .Children}}	{{.Kind}}
{{end}})

// String returns the name of the child type.
func (k {{.KindType}}) String() string {
	switch k {
{{range .Children}}	case {{.Kind}}:
		return "{{.Name}}"
{{end}}	default:
		return "unknown"
	}
}
{{if .Children}}
var (
{{range .Children}}	_ {{$.Partial}} = {{.Partial}}{}
{{end}})
{{end}}
// Merge{{.Type}} applies partial to this when both belong to the same child of
// {{.Type}}. It reports false when they do not.
func Merge{{.Type}}(this {{.Type}}, partial {{.Partial}}) ({{.Type}}, bool) {
	if partial == nil {
		return nil, false
	}

	switch partial.{{.KindType}}() {
{{range .Children}}	case {{.Kind}}:
		p, ok := partial.({{.Partial}})
		if !ok {
			return nil, false
		}

		switch full := this.(type) {
{{if not .Pointer}}		case {{.Name}}:
			return p.Merge(full), true
{{end}}		case *{{.Name}}:
			if full == nil {
				return nil, false
			}

			merged := p.Merge(*full)

			return &merged, true
		}
{{end}}	}

	return nil, false
}

// Apply{{.Partial}} is Merge{{.Type}} with the arguments swapped.
func Apply{{.Partial}}(partial {{.Partial}}, this {{.Type}}) ({{.Type}}, bool) {
	return Merge{{.Type}}(this, partial)
}
`))
