package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"partialgen/internal/analyze"
	"partialgen/internal/config"
	"partialgen/internal/diagnostic"
	"partialgen/internal/gen"
)

const (
	familyPkg = "partialgen/internal/plan/testdata/family"
	brokenPkg = "partialgen/internal/plan/testdata/broken"
)

func codes(diags []diagnostic.Diagnostic) map[string]int {
	out := make(map[string]int)
	for _, d := range diags {
		out[d.Code]++
	}

	return out
}

func TestRun_Family(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 2
	target := gen.NewMemoryTarget()

	res, err := Run(context.Background(), cfg, target, zaptest.NewLogger(t), familyPkg)
	require.NoError(t, err)

	assert.Empty(t, res.Failed)
	assert.False(t, res.HasErrors(), spew.Sdump(res.Diagnostics))

	var names []string
	for _, f := range res.Generated {
		names = append(names, filepath.Base(f.Path))
	}

	assert.Equal(t, []string{
		"adult_partial.go",
		"elder_partial.go",
		"kid_partial.go",
		"member_partial.go",
		"pet_partial.go",
	}, names)
	assert.Len(t, target.Files(), 5)

	got := codes(res.Diagnostics)
	assert.Equal(t, 1, got[diagnostic.CodeUndeclaredChild])
	assert.Equal(t, 1, got[diagnostic.CodeGrandchildHierarchy])
	assert.Equal(t, 1, got[diagnostic.CodeUnsupportedAttribute])
}

func TestRun_BrokenTypesAreIsolated(t *testing.T) {
	target := gen.NewMemoryTarget()

	res, err := Run(context.Background(), config.Default(), target, zaptest.NewLogger(t), brokenPkg)
	require.NoError(t, err)
	assert.True(t, res.HasErrors())

	var failed []string
	for _, id := range res.Failed {
		assert.Equal(t, brokenPkg, id.PkgPath)
		failed = append(failed, id.Name)
	}

	assert.Equal(t, []string{"Animal", "Cage", "Car", "Crate", "Shapeless", "Widget", "Zoo"}, failed)

	for _, name := range []string{"BirdPartial", "DogPartial", "FormPartial", "HorsePartial", "MulePartial", "VehiclePartial"} {
		assert.NotNil(t, target.File(name), name)
	}

	// Dog lost its failed parent.
	dog := string(target.File("DogPartial").Content)
	assert.NotContains(t, dog, "AnimalPartialKind")

	got := codes(res.Diagnostics)
	assert.Equal(t, 2, got[diagnostic.CodeChildFailed])
	assert.Equal(t, 1, got[diagnostic.CodeFieldConflict])
	assert.Equal(t, 1, got[diagnostic.CodeMissingDefault])
	assert.Equal(t, 1, got[diagnostic.CodeNameCollision])
	assert.GreaterOrEqual(t, got[diagnostic.CodeTypeError], 2)
}

type failingTarget struct{}

func (failingTarget) Emit(*gen.GeneratedFile) error {
	return errors.New("disk full")
}

func TestRun_EmitErrorStopsRun(t *testing.T) {
	_, err := Run(context.Background(), config.Default(), failingTarget{}, nil, familyPkg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

type collidingTarget struct{}

func (collidingTarget) Emit(f *gen.GeneratedFile) error {
	return &gen.CollisionError{Key: f.Path, First: analyze.TypeID{Name: "Other"}, Second: f.Decl}
}

func TestRun_CollisionFailsTypeOnly(t *testing.T) {
	res, err := Run(context.Background(), config.Default(), collidingTarget{}, nil, familyPkg)
	require.NoError(t, err)
	assert.Empty(t, res.Generated)
	assert.Len(t, res.Failed, 5)
	assert.Equal(t, 5, codes(res.Diagnostics)[diagnostic.CodeOutputCollision])
}

// rejectingTarget refuses one partial and stores the rest.
type rejectingTarget struct {
	*gen.MemoryTarget
	reject string
}

func (r rejectingTarget) Emit(f *gen.GeneratedFile) error {
	if f.Name == r.reject {
		return &gen.CollisionError{Key: f.Path, First: analyze.TypeID{Name: "Other"}, Second: f.Decl}
	}

	return r.MemoryTarget.Emit(f)
}

func TestRun_ParentFailingToEmitIsUnlinked(t *testing.T) {
	target := rejectingTarget{MemoryTarget: gen.NewMemoryTarget(), reject: "MemberPartial"}

	res, err := Run(context.Background(), config.Default(), target, zaptest.NewLogger(t), familyPkg)
	require.NoError(t, err)
	assert.Equal(t, []analyze.TypeID{{PkgPath: familyPkg, Name: "Member"}}, res.Failed)
	assert.Len(t, res.Generated, 4)

	for _, name := range []string{"AdultPartial", "KidPartial", "PetPartial"} {
		f := target.File(name)
		require.NotNil(t, f, name)
		assert.NotContains(t, string(f.Content), "MemberPartialKind", name)
	}

	assert.Contains(t, string(target.File("AdultPartial").Content), "ElderPartialKind")
	assert.Equal(t, 3, codes(res.Diagnostics)[diagnostic.CodeChildFailed])
}

func TestRun_LoadError(t *testing.T) {
	_, err := Run(context.Background(), config.Default(), gen.NewMemoryTarget(), nil, "partialgen/does/not/exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading packages")
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, config.Default(), gen.NewMemoryTarget(), nil, familyPkg)
	require.Error(t, err)
}
