package analyze

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hierarchyPkg = "partialgen/internal/analyze/testdata/hierarchy"

func loadHierarchy(t *testing.T) *Model {
	t.Helper()

	analyzer := NewAnalyzer(Options{Dir: "testdata/hierarchy"})
	model, err := analyzer.LoadPackages(context.Background(), ".")
	require.NoError(t, err)
	require.NotNil(t, model)

	return model
}

func hid(name string) TypeID {
	return TypeID{PkgPath: hierarchyPkg, Name: name}
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	model := loadHierarchy(t)

	require.Contains(t, model.Packages, hierarchyPkg)
	info := model.Packages[hierarchyPkg]
	assert.Equal(t, "hierarchy", info.Name)
	assert.Equal(t, "1.24.6", info.GoVersion)

	assert.Equal(t, []TypeID{
		hid("Account"),
		hid("Box"),
		hid("Celsius"),
		hid("Circle"),
		hid("Shape"),
		hid("Square"),
	}, model.Annotated)
}

func TestAnalyzer_StaleGeneratedFileIgnored(t *testing.T) {
	// hierarchy_partial.go refers to types that do not exist; loading must
	// still succeed because generated files are reduced to their package clause.
	model := loadHierarchy(t)
	assert.NotNil(t, model.Get(hid("Circle")))
}

func TestAnalyzer_TypeErrorsAreKept(t *testing.T) {
	// consumer.go uses CirclePartial, which is undefined while the generated
	// file is ignored.
	model := loadHierarchy(t)
	require.NotEmpty(t, model.TypeErrors)
	assert.Contains(t, model.TypeErrors[0].Msg, "CirclePartial")

	circle := model.Get(hid("Circle"))
	require.NotNil(t, circle)
	assert.Equal(t, "float64", circle.Field("Radius").Type.String())
}

func TestAnalyzer_SyntaxErrorsAreFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module broken\n\ngo 1.24\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.go"), []byte("package broken\n\ntype T struct {\n"), 0o644))

	_, err := NewAnalyzer(Options{Dir: dir}).LoadPackages(context.Background(), ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package errors")
}

func TestAnalyzer_KindsAndShapes(t *testing.T) {
	model := loadHierarchy(t)

	tests := []struct {
		name    string
		kind    DeclKind
		shape   Shape
		generic bool
	}{
		{"Shape", DeclKindParent, ShapeInterface, false},
		{"Circle", DeclKindLeaf, ShapeStruct, false},
		{"Box", DeclKindLeaf, ShapeStruct, true},
		{"Celsius", DeclKindLeaf, ShapeOther, false},
		{"Triangle", DeclKindNone, ShapeStruct, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := model.Get(hid(tt.name))
			require.NotNil(t, d)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.shape, d.Shape)
			assert.Equal(t, tt.generic, d.Generic)
			assert.Empty(t, d.DirectiveErr)
		})
	}
}

func TestAnalyzer_ParentGetters(t *testing.T) {
	model := loadHierarchy(t)

	shape := model.Get(hid("Shape"))
	require.NotNil(t, shape)
	require.Len(t, shape.Fields, 2, spew.Sdump(shape.Fields))

	id := shape.Fields[0]
	assert.Equal(t, "ID", id.Name)
	assert.Equal(t, "GetID", id.Getter)
	assert.True(t, id.FromInterface())
	assert.Equal(t, []Modifier{ModifierRequired}, id.Modifiers)

	assert.Equal(t, "Label", shape.Fields[1].Name)
	assert.Equal(t, "string", shape.Fields[1].Type.String())
	assert.Nil(t, shape.Field("Area"))
}

func TestAnalyzer_Children(t *testing.T) {
	model := loadHierarchy(t)

	shape := model.Get(hid("Shape"))
	require.Len(t, shape.Children, 3)

	circle := shape.Children[0]
	assert.Equal(t, "Circle", circle.Name)
	assert.True(t, circle.Resolved)
	assert.True(t, circle.Implements)
	assert.False(t, circle.Pointer)

	square := shape.Children[1]
	assert.True(t, square.Implements)
	assert.True(t, square.Pointer)

	hexagon := shape.Children[2]
	assert.Equal(t, "Hexagon", hexagon.Name)
	assert.False(t, hexagon.Resolved)

	var implementers []string
	for _, c := range shape.Implementers {
		implementers = append(implementers, c.Name)
	}

	assert.Equal(t, []string{"Circle", "Square", "Triangle"}, implementers)
}

func TestAnalyzer_SupertypesAndOverrides(t *testing.T) {
	model := loadHierarchy(t)

	circle := model.Get(hid("Circle"))
	require.NotNil(t, circle)
	assert.Equal(t, []TypeID{hid("Base"), hid("Shape")}, circle.Supertypes)
	assert.Equal(t, []TypeID{hid("Base")}, circle.Embeds)

	base := circle.Field("Base")
	require.NotNil(t, base)
	assert.True(t, base.Embedded)
	assert.Empty(t, base.Overrides)

	id := circle.Field("ID")
	require.Len(t, id.Overrides, 2, spew.Sdump(id.Overrides))
	assert.Equal(t, hid("Base"), id.Overrides[0].Owner)
	assert.Equal(t, hid("Shape"), id.Overrides[1].Owner)

	radius := circle.Field("Radius")
	assert.Empty(t, radius.Overrides)
	assert.Equal(t, []Modifier{ModifierRequired}, radius.Modifiers)

	// Triangle is not annotated but still takes part in the hierarchy.
	triangle := model.Get(hid("Triangle"))
	require.NotNil(t, triangle)
	assert.Equal(t, []TypeID{hid("Shape")}, triangle.Supertypes)

	assert.Len(t, model.ParentsOf(circle), 1)
}

func TestAnalyzer_FieldTagsAndMarkers(t *testing.T) {
	model := loadHierarchy(t)

	account := model.Get(hid("Account"))
	require.NotNil(t, account)
	assert.Equal(t, "DefaultAccount", account.DefaultFunc)

	count := account.Field("Count")
	require.NotNil(t, count)
	require.Len(t, count.Attributes, 4, spew.Sdump(count.Attributes))

	assert.Equal(t, `json:"count" db:"count"`, RenderTag(count.Attributes))

	validate := count.Attributes[2]
	assert.Equal(t, SourceMarker, validate.Source)
	assert.Equal(t, "+validate:min=1,max=10", validate.Marker(VerbatimArg))

	kind := count.Attributes[3]
	require.Len(t, kind.Args, 1)
	assert.Equal(t, ArgTypeRef, kind.Args[0].Kind)
	require.NotNil(t, kind.Args[0].Ref)
	assert.Equal(t, "time", kind.Args[0].Ref.Pkg().Path())
	assert.Equal(t, "Duration", kind.Args[0].Ref.Name())

	owner := account.Field("Owner")
	assert.Equal(t, []Modifier{ModifierRequired}, owner.Modifiers)
	assert.Empty(t, owner.Attributes)
	assert.Equal(t, []string{"bogus"}, owner.UnknownModifiers)

	token := account.Field("Token")
	assert.Equal(t, []Modifier{ModifierSkip}, token.Modifiers)
	require.Len(t, token.Attributes, 1)
	assert.Equal(t, "+deprecated", token.Attributes[0].Marker(VerbatimArg))

	square := model.Get(hid("Square"))
	assert.Equal(t, `"square"`, square.Field("Label").Default)
	assert.Empty(t, square.DefaultFunc)
}

func TestAnalyzer_NoPackages(t *testing.T) {
	analyzer := NewAnalyzer(Options{Dir: "testdata/hierarchy"})
	_, err := analyzer.LoadPackages(context.Background(), "./nothing/...")
	require.Error(t, err)
}
