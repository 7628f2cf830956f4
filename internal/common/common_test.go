package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AgedUser", "aged_user"},
		{"User", "user"},
		{"HTTPServer", "http_server"},
		{"userID", "user_id"},
		{"already_snake", "already_snake"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSnakeCase(tt.in))
		})
	}
}

func TestUniqueAlias(t *testing.T) {
	taken := map[string]bool{"yaml": true, "yaml2": true}
	isTaken := func(s string) bool { return taken[s] }

	assert.Equal(t, "json", UniqueAlias("json", isTaken))
	assert.Equal(t, "yaml3", UniqueAlias("yaml", isTaken))
}

func TestPkgAlias(t *testing.T) {
	assert.Equal(t, "users", PkgAlias("partialgen/examples/users"))
	assert.Empty(t, PkgAlias(""))
}

func TestFirst(t *testing.T) {
	v, ok := First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = First[[]string](nil)
	assert.False(t, ok)
	assert.True(t, IsEmpty([]int{}))
}
