package analyze

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"partialgen/internal/common"
	"partialgen/internal/compat"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

// Options configure package loading.
type Options struct {
	// Dir is the directory patterns are resolved in; empty means the current directory.
	Dir string
	// BuildFlags are passed to the build system (e.g. "-tags=integration").
	BuildFlags []string
	// Tests includes _test.go files, so test-only declarations can be annotated.
	Tests bool
}

// typeSource is the syntax a type was declared with.
type typeSource struct {
	spec *ast.TypeSpec
	doc  *ast.CommentGroup
	file *ast.File
	pkg  *packages.Package
}

// Analyzer loads Go packages and builds the model.
type Analyzer struct {
	opts    Options
	model   *Model
	fset    *token.FileSet
	sources map[TypeID]typeSource
	// childNames holds the raw children= lists until they are resolved.
	childNames map[TypeID][]string
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{
		opts:       opts,
		model:      NewModel(),
		sources:    make(map[TypeID]typeSource),
		childNames: make(map[TypeID][]string),
	}
}

// LoadPackages loads the packages matching patterns and builds the model.
// Patterns are standard Go package patterns (e.g., "./examples/users", "./...").
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) (*Model, error) {
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       LoadMode,
		Dir:        a.opts.Dir,
		BuildFlags: a.opts.BuildFlags,
		Tests:      a.opts.Tests,
		ParseFile:  parseFile,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	if common.IsEmpty(pkgs) {
		return nil, errors.WithHint(
			errors.Newf("no packages matched %v", patterns),
			"patterns are resolved relative to the working directory",
		)
	}

	pkgs = testVariants(pkgs)

	// Type errors are kept on the model: a package that uses the partials of
	// its own types does not type-check while they are missing or stale.
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.TypeError {
				a.model.TypeErrors = append(a.model.TypeErrors, e)
				continue
			}

			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, errors.WithHint(
			errors.Newf("package errors: %v", errs),
			"list and syntax errors must be fixed before generating",
		)
	}

	slices.SortFunc(pkgs, func(x, y *packages.Package) int {
		return strings.Compare(x.PkgPath, y.PkgPath)
	})

	a.fset = pkgs[0].Fset

	for _, pkg := range pkgs {
		a.indexPackage(pkg)
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	a.link()

	slices.SortFunc(a.model.Annotated, func(x, y TypeID) int {
		return strings.Compare(x.String(), y.String())
	})

	return a.model, nil
}

// Model returns the current model.
func (a *Analyzer) Model() *Model {
	return a.model
}

// testVariants drops the packages superseded by their test variant
// ("p [p.test]") and the synthesized test mains.
func testVariants(pkgs []*packages.Package) []*packages.Package {
	variant := make(map[string]bool)

	for _, pkg := range pkgs {
		if pkg.ID != pkg.PkgPath && strings.HasPrefix(pkg.ID, pkg.PkgPath+" [") {
			variant[pkg.PkgPath] = true
		}
	}

	out := pkgs[:0]

	for _, pkg := range pkgs {
		switch {
		case pkg.Name == "main" && strings.HasSuffix(pkg.PkgPath, ".test"):
			continue
		case pkg.ID == pkg.PkgPath && variant[pkg.PkgPath]:
			continue
		}

		out = append(out, pkg)
	}

	return out
}

// parseFile parses a source file for go/packages. Files written by partialgen
// are reduced to their package clause: stale output must never take part in
// type checking of the declarations it was generated from.
func parseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if IsGenerated(src) {
		return parser.ParseFile(fset, filename, src, parser.PackageClauseOnly)
	}

	return parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments|parser.SkipObjectResolution)
}

// indexPackage records package info and every type spec of the package.
func (a *Analyzer) indexPackage(pkg *packages.Package) {
	info := &PackageInfo{
		Path:    pkg.PkgPath,
		Name:    pkg.Name,
		Package: pkg.Types,
	}

	if file, ok := common.First(pkg.GoFiles); ok {
		info.Dir = filepath.Dir(file)
	}

	if pkg.Module != nil && pkg.Module.GoVersion != "" {
		info.GoVersion = pkg.Module.GoVersion
	} else if info.Dir != "" {
		if v, err := compat.ModuleGoVersion(info.Dir); err == nil {
			info.GoVersion = v
		}
	}

	a.model.Packages[pkg.PkgPath] = info

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)

				doc := ts.Doc
				if doc == nil && !gen.Lparen.IsValid() {
					doc = gen.Doc
				}

				id := TypeID{PkgPath: pkg.PkgPath, Name: ts.Name.Name}
				a.sources[id] = typeSource{spec: ts, doc: doc, file: file, pkg: pkg}
			}
		}
	}
}

// processPackage builds declarations for the types of a package and
// records which of them are annotated.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	info := a.model.Packages[pkg.PkgPath]

	for _, name := range pkg.Types.Scope().Names() {
		id := TypeID{PkgPath: pkg.PkgPath, Name: name}

		src, ok := a.sources[id]
		if !ok {
			continue
		}

		obj, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}

		d := a.declaration(obj)

		dir := parseTypeDirective(src.doc)
		if !dir.found {
			continue
		}

		d.Kind = dir.kind()
		d.DirectiveErr = dir.err
		a.childNames[id] = dir.children

		a.model.Annotated = append(a.model.Annotated, id)
		info.Types = append(info.Types, id)
	}
}

// declaration returns the cached declaration of obj, building it on first use.
func (a *Analyzer) declaration(obj *types.TypeName) *TypeDeclaration {
	id := TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
	if d, ok := a.model.Decls[id]; ok {
		return d
	}

	d := &TypeDeclaration{
		ID:      id,
		PkgName: obj.Pkg().Name(),
		Object:  obj,
	}
	// Pre-cache to handle recursive embedding (we'll fill in details)
	a.model.Decls[id] = d

	if named, ok := obj.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
		d.Generic = true
	}

	src, hasSrc := a.sources[id]
	if hasSrc {
		d.Pos = a.fset.Position(src.spec.Name.Pos())
		d.Dir = filepath.Dir(d.Pos.Filename)
	}

	if info, ok := a.model.Packages[id.PkgPath]; ok {
		d.GoVersion = info.GoVersion
	}

	if obj.IsAlias() {
		d.Shape = ShapeOther
		return d
	}

	switch u := obj.Type().Underlying().(type) {
	case *types.Struct:
		d.Shape = ShapeStruct
		a.structFields(d, u, src, hasSrc)

	case *types.Interface:
		d.Shape = ShapeInterface
		a.interfaceFields(d, u, src, hasSrc)

	default:
		d.Shape = ShapeOther
	}

	d.DefaultFunc = defaultFunc(obj)

	return d
}

// structFields extracts the fields of a struct declaration.
func (a *Analyzer) structFields(d *TypeDeclaration, st *types.Struct, src typeSource, hasSrc bool) {
	var astFields []*ast.Field

	if hasSrc {
		if stt, ok := src.spec.Type.(*ast.StructType); ok {
			for _, f := range stt.Fields.List {
				for range max(1, len(f.Names)) {
					astFields = append(astFields, f)
				}
			}
		}
	}

	for i := range st.NumFields() {
		v := st.Field(i)
		if v.Name() == "_" {
			continue
		}

		fd := &FieldDeclaration{
			Name:     v.Name(),
			Type:     v.Type(),
			Embedded: v.Embedded(),
			Owner:    d.ID,
			Pos:      a.fset.Position(v.Pos()),
		}

		a.applyTag(fd, st.Tag(i))

		if i < len(astFields) {
			f := astFields[i]
			a.applyDirectives(fd, parseFieldDirectives(f.Doc, f.Comment), src)
		}

		if v.Embedded() {
			if named := namedOf(v.Type()); named != nil {
				emb := a.declaration(named.Obj())
				d.Embeds = append(d.Embeds, emb.ID)
			}
		}

		d.Fields = append(d.Fields, fd)
	}
}

// interfaceFields extracts the getters of an interface declaration.
// Getters are methods named Get<Field> with no parameters and one result.
func (a *Analyzer) interfaceFields(d *TypeDeclaration, iface *types.Interface, src typeSource, hasSrc bool) {
	methods := make(map[string]*types.Func, iface.NumExplicitMethods())
	for i := range iface.NumExplicitMethods() {
		m := iface.ExplicitMethod(i)
		methods[m.Name()] = m
	}

	var astIface *ast.InterfaceType
	if hasSrc {
		astIface, _ = src.spec.Type.(*ast.InterfaceType)
	}

	if astIface == nil {
		for i := range iface.NumExplicitMethods() {
			a.addGetter(d, iface.ExplicitMethod(i), nil, src)
		}

		for i := range iface.NumEmbeddeds() {
			if named := namedOf(iface.EmbeddedType(i)); named != nil {
				d.Embeds = append(d.Embeds, TypeID{PkgPath: pkgPath(named.Obj()), Name: named.Obj().Name()})
			}
		}

		return
	}

	for _, f := range astIface.Methods.List {
		if len(f.Names) == 0 {
			if named := namedOf(src.pkg.TypesInfo.TypeOf(f.Type)); named != nil {
				d.Embeds = append(d.Embeds, TypeID{PkgPath: pkgPath(named.Obj()), Name: named.Obj().Name()})
			}

			continue
		}

		for _, n := range f.Names {
			if m, ok := methods[n.Name]; ok {
				a.addGetter(d, m, f, src)
			}
		}
	}
}

// addGetter adds m as a field when it has the getter shape.
func (a *Analyzer) addGetter(d *TypeDeclaration, m *types.Func, f *ast.Field, src typeSource) {
	sig, ok := m.Type().(*types.Signature)
	if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return
	}

	name, ok := strings.CutPrefix(m.Name(), "Get")
	if !ok || name == "" || !token.IsExported(name) {
		return
	}

	fd := &FieldDeclaration{
		Name:   name,
		Type:   sig.Results().At(0).Type(),
		Getter: m.Name(),
		Owner:  d.ID,
		Pos:    a.fset.Position(m.Pos()),
	}

	if f != nil {
		a.applyDirectives(fd, parseFieldDirectives(f.Doc, f.Comment), src)
	}

	d.Fields = append(d.Fields, fd)
}

// applyTag splits a struct tag into control options and attributes.
func (a *Analyzer) applyTag(fd *FieldDeclaration, tag string) {
	attrs, err := ParseTag(tag)
	if err != nil {
		fd.Problems = append(fd.Problems, err.Error())
		return
	}

	for _, attr := range attrs {
		switch attr.Name {
		case TagKey:
			mods, unknown := parseModifierTag(attr.TagValue())
			fd.Modifiers = append(fd.Modifiers, mods...)
			fd.UnknownModifiers = append(fd.UnknownModifiers, unknown...)

		case DefaultTagKey:
			fd.Default = attr.TagValue()

		default:
			fd.Attributes = append(fd.Attributes, attr)
		}
	}
}

// applyDirectives merges comment directives and markers into fd.
func (a *Analyzer) applyDirectives(fd *FieldDeclaration, dirs fieldDirectives, src typeSource) {
	fd.Modifiers = append(fd.Modifiers, dirs.modifiers...)
	fd.UnknownModifiers = append(fd.UnknownModifiers, dirs.unknown...)

	resolve := a.resolver(src)
	for _, m := range dirs.markers {
		fd.Attributes = append(fd.Attributes, ParseMarker(m, resolve))
	}
}

// resolver resolves identifiers the way the declaring file sees them.
func (a *Analyzer) resolver(src typeSource) TypeResolver {
	return func(ident string) (*types.TypeName, bool) {
		if src.pkg == nil || src.pkg.Types == nil {
			return nil, false
		}

		qual, name, qualified := strings.Cut(ident, ".")
		if !qualified {
			obj, ok := src.pkg.Types.Scope().Lookup(ident).(*types.TypeName)
			return obj, ok
		}

		for _, imp := range src.file.Imports {
			var pn *types.PkgName
			if imp.Name != nil {
				pn, _ = src.pkg.TypesInfo.Defs[imp.Name].(*types.PkgName)
			} else {
				pn, _ = src.pkg.TypesInfo.Implicits[imp].(*types.PkgName)
			}

			if pn == nil || pn.Name() != qual {
				continue
			}

			obj, ok := pn.Imported().Scope().Lookup(name).(*types.TypeName)

			return obj, ok && obj.Exported()
		}

		return nil, false
	}
}

// defaultFunc returns the name of Default<Name>() when the package declares it
// with the right signature.
func defaultFunc(obj *types.TypeName) string {
	name := "Default" + obj.Name()

	fn, ok := obj.Pkg().Scope().Lookup(name).(*types.Func)
	if !ok {
		return ""
	}

	sig := fn.Type().(*types.Signature)
	if sig.Recv() != nil || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return ""
	}

	if !types.Identical(sig.Results().At(0).Type(), obj.Type()) {
		return ""
	}

	return name
}

// namedOf returns the named type behind t, looking through one pointer.
func namedOf(t types.Type) *types.Named {
	if t == nil {
		return nil
	}

	if p, ok := types.Unalias(t).(*types.Pointer); ok {
		t = p.Elem()
	}

	named, _ := types.Unalias(t).(*types.Named)

	return named
}

func pkgPath(obj types.Object) string {
	if obj.Pkg() == nil {
		return ""
	}

	return obj.Pkg().Path()
}
