package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/linkman/internal/adapters/fs"
)

func TestOSFS_WriteReadExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "scene.yaml")
	osfs := fs.NewOSFS()

	assert.False(t, osfs.Exists(path))
	require.NoError(t, osfs.WriteFile(path, []byte("preferences: {}\n"), 0o600))
	assert.True(t, osfs.Exists(path))

	data, err := osfs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "preferences: {}\n", string(data))

	info, err := osfs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, "scene.yaml", info.Name())

	assert.False(t, osfs.Exists(filepath.Dir(path)), "directories are not files")
	_, err = osfs.ReadFile(filepath.Join(dir, "missing.blend"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMapFSAdapter(t *testing.T) {
	m := fs.NewMapFSAdapter("/proj", fstest.MapFS{
		"chair.blend":       {Data: []byte("objects: []\n")},
		"assets/lamp.blend": {Data: []byte("lights: [Lamp]\n")},
	})

	assert.True(t, m.Exists("/proj/chair.blend"))
	assert.True(t, m.Exists("/proj/assets/lamp.blend"))
	assert.False(t, m.Exists("/proj/assets"))
	assert.False(t, m.Exists("/other/chair.blend"))

	data, err := m.ReadFile("/proj/assets/lamp.blend")
	require.NoError(t, err)
	assert.Equal(t, "lights: [Lamp]\n", string(data))

	require.NoError(t, m.WriteFile("/proj/scene.yaml", []byte("x"), 0o644))
	assert.True(t, m.Exists("/proj/scene.yaml"))

	require.NoError(t, m.Remove("/proj/chair.blend"))
	assert.False(t, m.Exists("/proj/chair.blend"))
	assert.Error(t, m.Remove("/proj/chair.blend"))
}

func TestMapFSAdapter_NilMap(t *testing.T) {
	m := fs.NewMapFSAdapter("/", nil)
	require.NoError(t, m.WriteFile("/a.blend", []byte("meshes: [A]\n"), 0o644))
	assert.True(t, m.Exists("/a.blend"))
}
