package gen

import (
	"go/types"
	"slices"
	"strconv"
	"strings"

	"partialgen/internal/common"
)

// DefaultOptImport is the default import path of the optionality container package.
const DefaultOptImport = "partialgen/opt"

// optPkgName is the package name the container package declares.
const optPkgName = "opt"

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
	// Std marks standard library packages, which go in their own group.
	Std bool
}

// importSet collects the imports of one generated file and hands out
// collision-free package aliases.
type importSet struct {
	self    string
	optPath string
	byPath  map[string]string
	taken   map[string]bool
}

// newImportSet creates an import set for a file of package self that takes
// opt.Field from optPath. Reserved names (the package-level identifiers of
// self) are never used as aliases.
func newImportSet(self, optPath string, reserved ...string) *importSet {
	if optPath == "" {
		optPath = DefaultOptImport
	}

	s := &importSet{
		self:    self,
		optPath: optPath,
		byPath:  make(map[string]string),
		taken:   make(map[string]bool, len(reserved)),
	}

	for _, name := range reserved {
		s.taken[name] = true
	}

	return s
}

// add imports path under its package name, or a numbered alias when the name
// is taken, and returns the alias to qualify with.
func (s *importSet) add(path, name string) string {
	if path == s.self {
		return ""
	}

	if alias, ok := s.byPath[path]; ok {
		return alias
	}

	alias := common.UniqueAlias(name, func(a string) bool { return s.taken[a] })
	s.taken[alias] = true
	s.byPath[path] = alias

	return alias
}

// qualifier implements types.Qualifier, recording every package it sees.
func (s *importSet) qualifier(pkg *types.Package) string {
	return s.add(pkg.Path(), pkg.Name())
}

// typeString renders t as seen from the generated file.
func (s *importSet) typeString(t types.Type) string {
	return types.TypeString(t, s.qualifier)
}

// opt returns the alias of the opt package.
func (s *importSet) opt() string {
	return s.add(s.optPath, optPkgName)
}

// optField renders opt.Field[t].
func (s *importSet) optField(t types.Type) string {
	return s.opt() + ".Field[" + s.typeString(t) + "]"
}

// specs returns the imports sorted by path. The alias is only spelled out
// when it differs from the last path element.
func (s *importSet) specs() []importSpec {
	out := make([]importSpec, 0, len(s.byPath))

	for path, alias := range s.byPath {
		spec := importSpec{Path: path, Std: s.isStd(path)}
		if alias != common.PkgAlias(path) {
			spec.Alias = alias
		}

		out = append(out, spec)
	}

	slices.SortFunc(out, func(a, b importSpec) int {
		return strings.Compare(a.Path, b.Path)
	})

	return out
}

// isStd reports whether path looks like a standard library package: its first
// element has no dot. Paths of the module being generated for and of the
// opt package are never standard, even without a dot.
func (s *importSet) isStd(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	if strings.Contains(first, ".") || path == s.optPath {
		return false
	}

	self, _, _ := strings.Cut(s.self, "/")

	return first != self
}

// importDecl renders the import declaration of specs: standard library
// packages first, then a blank line, then the rest.
func importDecl(specs []importSpec) string {
	line := func(spec importSpec) string {
		if spec.Alias != "" {
			return spec.Alias + " " + strconv.Quote(spec.Path)
		}

		return strconv.Quote(spec.Path)
	}

	switch len(specs) {
	case 0:
		return ""
	case 1:
		return "import " + line(specs[0]) + "\n"
	}

	var sb strings.Builder

	sb.WriteString("import (\n")

	for _, std := range []bool{true, false} {
		group := slices.DeleteFunc(slices.Clone(specs), func(spec importSpec) bool { return spec.Std != std })
		if len(group) == 0 {
			continue
		}

		if !std && sb.Len() > len("import (\n") {
			sb.WriteString("\n")
		}

		for _, spec := range group {
			sb.WriteString("\t" + line(spec) + "\n")
		}
	}

	sb.WriteString(")\n")

	return sb.String()
}

// quoteTag renders a struct tag literal.
func quoteTag(tag string) string {
	if tag == "" {
		return ""
	}

	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}

	return "`" + tag + "`"
}
