package gen

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partialgen/internal/analyze"
	"partialgen/internal/diagnostic"
)

func file(dir, pkg, name, filename string) *GeneratedFile {
	return &GeneratedFile{
		Decl:    analyze.TypeID{PkgPath: pkg, Name: name},
		Name:    name + "Partial",
		Path:    filepath.Join(dir, filename),
		Content: []byte("package " + filepath.Base(pkg) + "\n"),
	}
}

func TestDirTarget_Emit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "users")
	target := NewDirTarget()

	require.NoError(t, target.Emit(file(dir, "example.com/users", "User", "user_partial.go")))

	content, err := os.ReadFile(filepath.Join(dir, "user_partial.go"))
	require.NoError(t, err)
	assert.Equal(t, "package users\n", string(content))
}

func TestMemoryTarget_Collision(t *testing.T) {
	target := NewMemoryTarget()

	require.NoError(t, target.Emit(file("/src", "example.com/web", "HTTPServer", "http_server_partial.go")))
	// Re-emitting the same declaration is not a collision.
	require.NoError(t, target.Emit(file("/src", "example.com/web", "HTTPServer", "http_server_partial.go")))

	err := target.Emit(file("/src", "example.com/web", "HttpServer", "http_server_partial.go"))
	require.Error(t, err)

	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "HTTPServer", collision.First.Name)
	assert.Equal(t, "HttpServer", collision.Second.Name)
	assert.Equal(t, diagnostic.CodeOutputCollision, collision.DiagnosticCode())
	assert.NotEmpty(t, errors.GetAllHints(err))

	require.Len(t, target.Files(), 1)
	assert.Nil(t, target.File("HttpServerPartial"))
}

func TestMemoryTarget_ConcurrentEmit(t *testing.T) {
	target := NewMemoryTarget()
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, target.Emit(file("/src", "example.com/x", name, name+"_partial.go")))
		}()
	}

	wg.Wait()

	files := target.Files()
	require.Len(t, files, len(names))

	for i, f := range files {
		assert.Equal(t, names[i]+"Partial", f.Name)
	}

	assert.NotNil(t, target.File("CPartial"))
}
