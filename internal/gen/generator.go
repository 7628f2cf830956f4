package gen

import (
	"bytes"
	"go/format"
	"path/filepath"
	"text/template"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/imports"

	"partialgen/internal/analyze"
	"partialgen/internal/common"
	"partialgen/internal/plan"
)

// DefaultFileSuffix is appended to the snake_case type name to name a generated file.
const DefaultFileSuffix = "_partial.go"

// Config holds configuration for code generation.
type Config struct {
	// FileSuffix names generated files: "aged_user" + FileSuffix.
	FileSuffix string
	// FixImports runs goimports over the output so default expressions may
	// reference packages the declaring file does not import.
	FixImports bool
	// DebugUnformatted writes a .unformatted.go sidecar when formatting fails.
	DebugUnformatted bool
	// OptImport is the import path of the package providing opt.Field.
	OptImport string
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		FileSuffix:       DefaultFileSuffix,
		FixImports:       true,
		DebugUnformatted: true,
		OptImport:        DefaultOptImport,
	}
}

// Generator renders partial types into Go source files.
type Generator struct {
	config Config
}

// NewGenerator creates a new generator with the given configuration.
func NewGenerator(config Config) *Generator {
	if config.FileSuffix == "" {
		config.FileSuffix = DefaultFileSuffix
	}

	if config.OptImport == "" {
		config.OptImport = DefaultOptImport
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Decl is the declaration the file was generated for.
	Decl analyze.TypeID
	// Name is the generated partial type name; emission targets key on it.
	Name string
	// Path is the output path, in the directory of the declaring file.
	Path    string
	Content []byte
}

// Filename returns the base name of the output path.
func (f GeneratedFile) Filename() string {
	return filepath.Base(f.Path)
}

// OutputPath returns where the partial of decl is written.
func (g *Generator) OutputPath(decl *analyze.TypeDeclaration) string {
	return filepath.Join(decl.Dir, common.ToSnakeCase(decl.ID.Name)+g.config.FileSuffix)
}

// Generate renders the file of one partial type. When formatting fails the
// unformatted source is returned together with the error.
func (g *Generator) Generate(pt *plan.PartialType) (*GeneratedFile, error) {
	data := buildTemplateData(pt, g.config.OptImport)

	tmpl := leafTemplate
	if pt.IsParent() {
		tmpl = parentTemplate
	}

	file := &GeneratedFile{
		Decl: pt.Decl.ID,
		Name: pt.Name,
		Path: g.OutputPath(pt.Decl),
	}

	src, err := render(tmpl, data)
	if err != nil {
		return nil, errors.Wrapf(err, "executing %s template for %s", tmpl.Name(), pt.Name)
	}

	formatted, err := g.format(file.Path, src)
	if err != nil {
		// Best-effort: keep the unformatted code next to the intended output.
		if g.config.DebugUnformatted {
			_ = writeDebugUnformatted(filepath.Dir(file.Path), file.Filename(), src)
		}

		file.Content = src

		return file, errors.WithHint(
			errors.Wrapf(err, "formatting %s (unformatted code returned)", file.Filename()),
			"check the partialdefault expressions of "+pt.Decl.ID.Name)
	}

	file.Content = formatted

	return file, nil
}

func (g *Generator) format(path string, src []byte) ([]byte, error) {
	if !g.config.FixImports {
		return format.Source(src)
	}

	return imports.Process(path, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
}

func render(tmpl *template.Template, data *templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
