// Package compat answers questions about the Go toolchain level of the
// module that generated code will be compiled in.
package compat

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned when no go.mod is found above a directory.
var ErrNoModule = errors.New("no go.mod found")

// ModuleGoVersion returns the go directive of the nearest go.mod at or above dir.
func ModuleGoVersion(dir string) (string, error) {
	path, err := findGoMod(dir)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}

	f, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse %s", path)
	}

	if f.Go == nil {
		return "", nil
	}

	return f.Go.Version, nil
}

func findGoMod(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve directory")
	}

	for {
		candidate := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Wrapf(ErrNoModule, "searching from %s", dir)
		}

		dir = parent
	}
}

// ParseGoVersion parses a Go version as written in go directives and
// toolchain names: "1.23", "1.23.4", "go1.23rc1".
func ParseGoVersion(v string) (*semver.Version, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "go")
	if s == "" {
		return nil, errors.Newf("invalid Go version %q", v)
	}

	// Pre-releases are spelled without a dash ("1.23rc1").
	for _, pre := range []string{"rc", "beta", "alpha"} {
		if i := strings.Index(s, pre); i > 0 && s[i-1] != '-' {
			s = s[:i] + "-" + s[i:]
			break
		}
	}

	ver, err := semver.NewVersion(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid Go version %q", v)
	}

	return ver, nil
}

// AtLeast reports whether version is minimum or newer. An empty or unparsable
// version is treated as older than anything.
func AtLeast(version, minimum string) bool {
	v, err := ParseGoVersion(version)
	if err != nil {
		return false
	}

	m, err := ParseGoVersion(minimum)
	if err != nil {
		return false
	}

	// "1.23rc1" ships the 1.23 language, so compare releases only.
	release, _ := v.SetPrerelease("")

	return !release.LessThan(m)
}
