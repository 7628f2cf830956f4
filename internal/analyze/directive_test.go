package analyze

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
)

func comments(lines ...string) *ast.CommentGroup {
	g := &ast.CommentGroup{}
	for _, l := range lines {
		g.List = append(g.List, &ast.Comment{Text: l})
	}

	return g
}

func TestParseTypeDirective(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		kind     DeclKind
		children []string
		wantErr  bool
	}{
		{"none", []string{"// User is a user."}, DeclKindNone, nil, false},
		{"leaf", []string{"// Doc.", "//partialgen:generate"}, DeclKindLeaf, nil, false},
		{"parent", []string{"//partialgen:generate children=A, B"}, DeclKindParent, []string{"A"}, true},
		{"parent list", []string{"//partialgen:generate children=A,B"}, DeclKindParent, []string{"A", "B"}, false},
		{"empty children", []string{"//partialgen:generate children="}, DeclKindLeaf, nil, true},
		{"unknown option", []string{"//partialgen:generate sealed"}, DeclKindLeaf, nil, true},
		{"unknown verb", []string{"//partialgen:make"}, DeclKindLeaf, nil, true},
		{"duplicate", []string{"//partialgen:generate", "//partialgen:generate"}, DeclKindLeaf, nil, true},
		{"block comment", []string{"/* //partialgen:generate */"}, DeclKindNone, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseTypeDirective(comments(tt.lines...))
			assert.Equal(t, tt.kind, d.kind())
			assert.Equal(t, tt.children, d.children)
			assert.Equal(t, tt.wantErr, d.err != "", d.err)
		})
	}
}

func TestParseFieldDirectives(t *testing.T) {
	d := parseFieldDirectives(
		comments("// Name of the user.", "// +title=\"Name\"", "//partialgen:required", "//partialgen:optional"),
		comments("// +deprecated"),
	)

	assert.Equal(t, []Modifier{ModifierRequired}, d.modifiers)
	assert.Equal(t, []string{"optional"}, d.unknown)
	assert.Equal(t, []string{`+title="Name"`, "+deprecated"}, d.markers)
}

func TestParseFieldDirectives_ProseIsNotMarker(t *testing.T) {
	d := parseFieldDirectives(comments(
		"// +1 for readability",
		"// + see the notes below",
		"// +note this field is legacy",
		"// +kubebuilder:validation:MinLength=1",
		"// +optional",
	))

	assert.Equal(t, []string{"+kubebuilder:validation:MinLength=1", "+optional"}, d.markers)
}

func TestIsMarker(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"+deprecated", true},
		{`+title="Name"`, true},
		{"+kind=time.Duration", true},
		{"+listType=map", true},
		{"+", false},
		{"+1", false},
		{"+ deprecated", false},
		{"+-flag", false},
		{"+todo fix this", false},
		{"plain text", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, isMarker(tt.text))
		})
	}
}

func TestParseModifierTag(t *testing.T) {
	mods, unknown := parseModifierTag("required, skip,,nullable")
	assert.Equal(t, []Modifier{ModifierRequired, ModifierSkip}, mods)
	assert.Equal(t, []string{"nullable"}, unknown)
}

func TestIsGenerated(t *testing.T) {
	assert.True(t, IsGenerated([]byte(GeneratedHeader+"\n\npackage users\n")))
	assert.False(t, IsGenerated([]byte("// Code generated by stringer. DO NOT EDIT.\n\npackage users\n")))
	assert.False(t, IsGenerated([]byte("package users\n")))
}
