package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"partialgen/internal/analyze"
	"partialgen/internal/diagnostic"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Target receives generated files. Implementations are safe for concurrent use.
type Target interface {
	Emit(file *GeneratedFile) error
}

// CollisionError is returned when two declarations produce the same partial
// name or output path.
type CollisionError struct {
	Key    string
	First  analyze.TypeID
	Second analyze.TypeID
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s is generated for both %s and %s", e.Key, e.First, e.Second)
}

// DiagnosticCode implements diagnostic.Coder.
func (e *CollisionError) DiagnosticCode() string {
	return diagnostic.CodeOutputCollision
}

// claims records which declaration owns each partial name and output path.
type claims struct {
	mu     sync.Mutex
	owners map[string]analyze.TypeID
}

func (c *claims) claim(file *GeneratedFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.owners == nil {
		c.owners = make(map[string]analyze.TypeID)
	}

	keys := []string{
		filepath.Dir(file.Path) + ":" + file.Name,
		file.Path,
	}

	for _, key := range keys {
		if owner, ok := c.owners[key]; ok && owner != file.Decl {
			return errors.WithHint(
				&CollisionError{Key: key, First: owner, Second: file.Decl},
				"rename one of the types or change file_suffix")
		}
	}

	for _, key := range keys {
		c.owners[key] = file.Decl
	}

	return nil
}

// DirTarget writes each file to its output path.
type DirTarget struct {
	claims claims
}

// NewDirTarget creates a target writing next to the declaring sources.
func NewDirTarget() *DirTarget {
	return &DirTarget{}
}

// Emit writes file, creating its directory if it doesn't exist.
func (t *DirTarget) Emit(file *GeneratedFile) error {
	if err := t.claims.claim(file); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(file.Path), dirPerm); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	if err := os.WriteFile(file.Path, file.Content, filePerm); err != nil {
		return errors.Wrapf(err, "writing file %s", file.Path)
	}

	return nil
}

// MemoryTarget keeps generated files in memory. It backs dry runs and tests.
type MemoryTarget struct {
	claims claims

	mu    sync.Mutex
	files map[string]*GeneratedFile
}

// NewMemoryTarget creates an empty in-memory target.
func NewMemoryTarget() *MemoryTarget {
	return &MemoryTarget{files: make(map[string]*GeneratedFile)}
}

// Emit stores file by its output path.
func (t *MemoryTarget) Emit(file *GeneratedFile) error {
	if err := t.claims.claim(file); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.files[file.Path] = file

	return nil
}

// Files returns the emitted files sorted by path.
func (t *MemoryTarget) Files() []*GeneratedFile {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*GeneratedFile, 0, len(t.files))
	for _, f := range t.files {
		out = append(out, f)
	}

	slices.SortFunc(out, func(a, b *GeneratedFile) int {
		return strings.Compare(a.Path, b.Path)
	})

	return out
}

// File returns the file emitted for the given partial name, or nil.
func (t *MemoryTarget) File(name string) *GeneratedFile {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, f := range t.files {
		if f.Name == name {
			return f
		}
	}

	return nil
}
