//go:build !windows

package completion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "tool")
	plain := filepath.Join(dir, "notes.txt")
	writeFile(t, exe, 0755)
	writeFile(t, plain, 0644)

	assert.True(t, isExecutable(exe))
	assert.False(t, isExecutable(plain))
	assert.False(t, isExecutable(filepath.Join(dir, "missing")))
}

func TestIsExecutableOwnerOnly(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "private-tool")
	writeFile(t, exe, 0700)

	info, err := os.Stat(exe)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0700), info.Mode().Perm())

	// The file belongs to the effective user, so the owner bit is enough.
	assert.True(t, isExecutable(exe))
}
