package completion

import (
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasBytePrefix(t *testing.T) {
	tests := []struct {
		s, query string
		expected bool
	}{
		{"help", "", true},
		{"help", "h", true},
		{"help", "help", true},
		{"help", "helpx", false},
		{"history", "hel", false},
		{"", "", true},
		{"", "a", false},
		{"Help", "h", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, hasBytePrefix(tt.s, tt.query), "hasBytePrefix(%q, %q)", tt.s, tt.query)
	}
}

func TestSplitSearchPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	assert.Nil(t, splitSearchPath(""))
	assert.Equal(t, []string{"/bin"}, splitSearchPath("/bin"))
	assert.Equal(t,
		[]string{"/usr/local/bin", "/usr/bin", "/bin"},
		splitSearchPath(strings.Join([]string{"/usr/local/bin", "/usr/bin", "/bin"}, sep)))
	assert.Equal(t,
		[]string{"/a", "/b"},
		splitSearchPath(sep+"/a"+sep+sep+"/b"+sep), "empty entries are dropped")
}

func TestJoinPath(t *testing.T) {
	sep := string(os.PathSeparator)

	got, ok := joinPath("/usr/bin", "ls", 0)
	assert.True(t, ok)
	assert.Equal(t, "/usr/bin"+sep+"ls", got)

	got, ok = joinPath("/usr/bin"+sep, "ls", 0)
	assert.True(t, ok)
	assert.Equal(t, "/usr/bin"+sep+"ls", got, "no doubled separator")

	got, ok = joinPath("/ab", "cd", 6)
	assert.True(t, ok, "exactly at the bound")
	assert.Len(t, got, 6)

	_, ok = joinPath("/ab", "cde", 6)
	assert.False(t, ok, "over the bound is rejected")
}

func TestConcatPath(t *testing.T) {
	got, ok := concatPath("src/", "main.c", 0)
	assert.True(t, ok)
	assert.Equal(t, "src/main.c", got)

	got, ok = concatPath("", "main.c", 0)
	assert.True(t, ok)
	assert.Equal(t, "main.c", got)

	_, ok = concatPath("src/", "main.c", 5)
	assert.False(t, ok)
}

func TestIsCandidateType(t *testing.T) {
	assert.True(t, isCandidateType(0), "regular file")
	assert.True(t, isCandidateType(fs.ModeSymlink))
	assert.True(t, isCandidateType(fs.ModeIrregular), "unknown type")
	assert.False(t, isCandidateType(fs.ModeDir))
	assert.False(t, isCandidateType(fs.ModeDevice))
	assert.False(t, isCandidateType(fs.ModeNamedPipe))
	assert.False(t, isCandidateType(fs.ModeSocket))
}
