package common

import (
	"path"
	"strconv"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// UniqueAlias returns name, or name followed by the smallest number >= 2 that
// is not reported as taken.
func UniqueAlias(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}

	for i := 2; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
