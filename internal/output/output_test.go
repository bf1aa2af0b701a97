package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCommit(t *testing.T) {
	dir := t.TempDir()
	same := filepath.Join(dir, "same.h")
	changed := filepath.Join(dir, "changed.h")
	created := filepath.Join(dir, "nested", "created.h")
	stale := filepath.Join(dir, "stale.h")

	require.NoError(t, os.WriteFile(same, []byte("same\n"), 0o644))
	require.NoError(t, os.WriteFile(changed, []byte("old\n"), 0o644))
	require.NoError(t, os.WriteFile(stale, []byte("stale\n"), 0o644))

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(same, past, past))

	s := NewSet()
	s.AddString(same, "same\n")
	s.AddString(changed, "new\n")
	s.AddString(created, "created\n")
	s.Remove(stale)
	s.Remove(same)

	changes, err := s.Commit(nil)
	require.NoError(t, err)

	ops := map[string]Op{}
	for _, c := range changes {
		ops[c.Path] = c.Op
	}
	require.Equal(t, map[string]Op{changed: OpUpdate, created: OpCreate, stale: OpDelete}, ops)

	info, err := os.Stat(same)
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(past), "unchanged file must not be rewritten")

	data, err := os.ReadFile(created)
	require.NoError(t, err)
	require.Equal(t, "created\n", string(data))

	_, err = os.Stat(stale)
	require.True(t, os.IsNotExist(err))

	changes, err = s.Commit(nil)
	require.NoError(t, err)
	require.Empty(t, changes)
}

func TestAddAfterRemove(t *testing.T) {
	s := NewSet()
	s.Remove("a.h")
	s.AddString("a.h", "x")
	changes, err := s.Changes()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, OpCreate, changes[0].Op)
	require.Equal(t, []string{"a.h"}, s.Paths())
}

func TestDiff(t *testing.T) {
	d := Diff(Change{Old: []byte("a\nb\n"), New: []byte("a\nc\n")})
	require.Contains(t, d, `-`)
	require.Contains(t, d, `"b"`)
	require.Contains(t, d, `"c"`)
	require.Empty(t, Diff(Change{Old: []byte("a\n"), New: []byte("a\n")}))
}
