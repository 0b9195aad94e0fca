package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAddAndGet(t *testing.T) {
	s := NewStore(3)

	assert.True(t, s.Add("a"))
	assert.True(t, s.Add("b"))
	assert.Equal(t, 2, s.Count())

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "b", got)

	_, ok = s.Get(2)
	assert.False(t, ok)
	_, ok = s.Get(-1)
	assert.False(t, ok)
}

func TestStoreBound(t *testing.T) {
	s := NewStore(2)

	assert.True(t, s.Add("a"))
	assert.True(t, s.Add("b"))
	assert.True(t, s.Full())
	assert.False(t, s.Truncated())

	assert.False(t, s.Add("c"), "add beyond the limit is dropped")
	assert.True(t, s.Truncated())
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, []string{"a", "b"}, storeContents(s))
}

func TestStoreDefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultMaxCandidates, NewStore(0).Limit())
	assert.Equal(t, DefaultMaxCandidates, NewStore(-5).Limit())
}

func TestStoreReset(t *testing.T) {
	s := NewStore(1)
	s.Add("a")
	s.Add("b")
	require.True(t, s.Truncated())

	s.Reset()
	assert.Equal(t, 0, s.Count())
	assert.False(t, s.Truncated())
	assert.True(t, s.Add("c"))
}

func TestStoreCopiesCallerBuffer(t *testing.T) {
	s := NewStore(4)
	buf := []byte("deploy")
	s.Add(string(buf))
	buf[0] = 'X'

	got, _ := s.Get(0)
	assert.Equal(t, "deploy", got)
}

func TestUniqueStore(t *testing.T) {
	s := NewUniqueStore(3)

	assert.True(t, s.Add("ls"))
	assert.False(t, s.Add("ls"))
	assert.True(t, s.Add("lsof"))
	assert.Equal(t, []string{"ls", "lsof"}, storeContents(s))
	assert.False(t, s.Truncated(), "duplicates do not count as truncation")

	s.Reset()
	assert.True(t, s.Add("ls"), "reset forgets seen names")
}

// storeContents reads every candidate through Get.
func storeContents(s *Store) []string {
	out := []string{}
	for i := 0; ; i++ {
		c, ok := s.Get(i)
		if !ok {
			return out
		}
		out = append(out, c)
	}
}
