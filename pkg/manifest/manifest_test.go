package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	require.Empty(t, m.Files)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "argen.manifest.yaml")
	m := &Manifest{Module: "root", Namespace: "agea"}
	m.Record([]string{"packages/root/b.h", "packages/root/a.h", "packages/root/b.h"})
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, m, got)
	require.Equal(t, []string{"packages/root/a.h", "packages/root/b.h"}, got.Files)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("files: {"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "unmarshal manifest")
}

func TestStale(t *testing.T) {
	m := &Manifest{}
	m.Record([]string{"model/old.ar.h", "model/kept.ar.h", "package.ar.h"})
	require.Equal(t, []string{"model/old.ar.h"}, m.Stale([]string{"package.ar.h", "model/kept.ar.h", "model/new.ar.h"}))
	require.Empty(t, m.Stale(m.Files))
}
