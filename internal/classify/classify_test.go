package classify

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partialgen/internal/analyze"
	"partialgen/internal/diagnostic"
)

var (
	userID   = analyze.TypeID{PkgPath: "example.com/users", Name: "User"}
	agedID   = analyze.TypeID{PkgPath: "example.com/users", Name: "AgedUser"}
	recordID = analyze.TypeID{PkgPath: "example.com/users", Name: "Record"}
)

func field(owner analyze.TypeID, name string, mods ...analyze.Modifier) *analyze.FieldDeclaration {
	return &analyze.FieldDeclaration{Name: name, Owner: owner, Modifiers: mods}
}

func getter(owner analyze.TypeID, name string, mods ...analyze.Modifier) *analyze.FieldDeclaration {
	f := field(owner, name, mods...)
	f.Getter = "Get" + name

	return f
}

func TestClassify_Own(t *testing.T) {
	tests := []struct {
		name string
		mods []analyze.Modifier
		want Classification
	}{
		{"none", nil, Optional},
		{"required", []analyze.Modifier{analyze.ModifierRequired}, Mandatory},
		{"skip", []analyze.Modifier{analyze.ModifierSkip}, Excluded},
		{"repeated", []analyze.Modifier{analyze.ModifierRequired, analyze.ModifierRequired}, Mandatory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(field(agedID, "Age", tt.mods...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_BothModifiers(t *testing.T) {
	_, err := Classify(field(agedID, "Age", analyze.ModifierRequired, analyze.ModifierSkip))

	var conflict *FieldConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ConflictBothModifiers, conflict.Kind)
	assert.Equal(t, diagnostic.CodeFieldConflict, conflict.DiagnosticCode())
}

func TestClassify_Inherited(t *testing.T) {
	none := []analyze.Modifier(nil)
	req := []analyze.Modifier{analyze.ModifierRequired}
	skip := []analyze.Modifier{analyze.ModifierSkip}

	tests := []struct {
		name      string
		own       []analyze.Modifier
		inherited []analyze.Modifier
		want      Classification
		conflict  bool
	}{
		{"none over none", none, none, Optional, false},
		{"none over required", none, req, Mandatory, false},
		{"none over skip", none, skip, Optional, false},
		{"required over none", req, none, Mandatory, false},
		{"required over skip", req, skip, Mandatory, false},
		{"skip over skip", skip, skip, Excluded, false},
		{"skip over none", skip, none, 0, true},
		{"skip over required", skip, req, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := field(agedID, "Name", tt.own...)
			f.Overrides = []*analyze.FieldDeclaration{getter(userID, "Name", tt.inherited...)}

			got, err := Classify(f)
			if tt.conflict {
				var conflict *FieldConflictError
				require.ErrorAs(t, err, &conflict)
				assert.Equal(t, ConflictInheritedSkip, conflict.Kind)
				assert.Same(t, f.Overrides[0], conflict.Inherited)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_TransitiveAndCyclic(t *testing.T) {
	top := getter(userID, "Name", analyze.ModifierRequired)
	mid := field(recordID, "Name")
	mid.Overrides = []*analyze.FieldDeclaration{top}

	leaf := field(agedID, "Name")
	leaf.Overrides = []*analyze.FieldDeclaration{mid}

	got, err := Classify(leaf)
	require.NoError(t, err)
	assert.Equal(t, Mandatory, got)

	// a -> b -> a must terminate
	a := field(agedID, "X")
	b := field(recordID, "X")
	a.Overrides = []*analyze.FieldDeclaration{b}
	b.Overrides = []*analyze.FieldDeclaration{a}

	got, err = Classify(a)
	require.NoError(t, err)
	assert.Equal(t, Optional, got)
}

func TestClassifyAll(t *testing.T) {
	skipped := field(agedID, "Token", analyze.ModifierSkip)
	withDefault := field(agedID, "Nick", analyze.ModifierSkip)
	withDefault.Default = `"anon"`

	bogus := field(agedID, "Name")
	bogus.UnknownModifiers = []string{"nullable"}

	decl := &analyze.TypeDeclaration{
		ID:    agedID,
		Kind:  analyze.DeclKindLeaf,
		Shape: analyze.ShapeStruct,
		Fields: []*analyze.FieldDeclaration{
			bogus,
			field(agedID, "Age", analyze.ModifierRequired),
			skipped,
			withDefault,
		},
	}

	sink := diagnostic.NewSink()
	results, err := ClassifyAll(decl, sink)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "Name", results[0].Field.Name)
	assert.Equal(t, Optional, results[0].Class)
	assert.Equal(t, Mandatory, results[1].Class)
	assert.Equal(t, "Nick", results[2].Field.Name)
	assert.Equal(t, Excluded, results[2].Class)

	diags := sink.Snapshot()
	require.Len(t, diags, 2)

	codes := map[string]diagnostic.Diagnostic{}
	for _, d := range diags {
		codes[d.Code] = d
	}

	assert.Equal(t, diagnostic.SeverityWarning, codes[diagnostic.CodeUnknownModifier].Severity)

	missing := codes[diagnostic.CodeMissingDefault]
	assert.Equal(t, diagnostic.SeverityError, missing.Severity)
	assert.Equal(t, "Token", missing.Field)
	require.Len(t, missing.Suggestions, 1)
	assert.Contains(t, missing.Suggestions[0], "func DefaultAgedUser() AgedUser")
}

func TestClassifyAll_DefaultFunc(t *testing.T) {
	decl := &analyze.TypeDeclaration{
		ID:          agedID,
		DefaultFunc: "DefaultAgedUser",
		Fields:      []*analyze.FieldDeclaration{field(agedID, "Token", analyze.ModifierSkip)},
	}

	sink := diagnostic.NewSink()
	results, err := ClassifyAll(decl, sink)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Excluded, results[0].Class)
	assert.False(t, sink.HasErrors())
}

func TestClassifyAll_Escalates(t *testing.T) {
	name := field(agedID, "Name", analyze.ModifierSkip)
	name.Overrides = []*analyze.FieldDeclaration{getter(userID, "Name")}

	decl := &analyze.TypeDeclaration{
		ID:          agedID,
		DefaultFunc: "DefaultAgedUser",
		Fields: []*analyze.FieldDeclaration{
			name,
			field(agedID, "Age", analyze.ModifierRequired),
		},
	}

	sink := diagnostic.NewSink()
	results, err := ClassifyAll(decl, sink)
	assert.Nil(t, results)

	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	assert.Equal(t, "Name", abort.Cause.Field)
	assert.True(t, abort.Cause.Escalates())
	assert.Equal(t, diagnostic.CodeTypeAborted, abort.DiagnosticCode())
	assert.Equal(t, 1, sink.Count(diagnostic.SeverityError))
}

func TestClassifyAll_NoEscalationForExcludedGetter(t *testing.T) {
	// Both modifiers on a field whose parent getter is itself skipped: the
	// field can be dropped without breaking the parent partial.
	name := field(agedID, "Name", analyze.ModifierRequired, analyze.ModifierSkip)
	name.Overrides = []*analyze.FieldDeclaration{getter(userID, "Name", analyze.ModifierSkip)}

	decl := &analyze.TypeDeclaration{ID: agedID, Fields: []*analyze.FieldDeclaration{name}}

	sink := diagnostic.NewSink()
	results, err := ClassifyAll(decl, sink)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.True(t, sink.HasErrors())
}

func TestClassifyAll_ParentGettersNeedNoDefault(t *testing.T) {
	decl := &analyze.TypeDeclaration{
		ID:     userID,
		Kind:   analyze.DeclKindParent,
		Shape:  analyze.ShapeInterface,
		Fields: []*analyze.FieldDeclaration{getter(userID, "Secret", analyze.ModifierSkip)},
	}

	sink := diagnostic.NewSink()
	results, err := ClassifyAll(decl, sink)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Excluded, results[0].Class)
	assert.Zero(t, sink.Count(diagnostic.SeverityError))
}

func TestClassification_String(t *testing.T) {
	assert.Equal(t, "mandatory", Mandatory.String())
	assert.Equal(t, "optional", Optional.String())
	assert.Equal(t, "excluded", Excluded.String())
	assert.True(t, Optional.Wrapped())
	assert.False(t, Excluded.InPartial())
	assert.Equal(t, "Classification(7)", Classification(7).String())
}

func TestFieldConflictError_Hints(t *testing.T) {
	err := errors.WithHint(&FieldConflictError{Kind: ConflictBothModifiers, Field: "Age"}, "x")
	assert.Equal(t, []string{"x"}, errors.GetAllHints(err))
	assert.Equal(t, "both_modifiers", ConflictBothModifiers.String())
}
