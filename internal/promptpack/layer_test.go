package promptpack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
)

func TestNewLayerTree_MissingRootReturnsNil(t *testing.T) {
	lt := newLayerTree(filepath.Join(t.TempDir(), "does-not-exist"), entity.LayerShared)
	require.Nil(t, lt)

	// nil *layerTree must be safe to call get/close on (every layer in a
	// Resolver may be nil when that overlay isn't configured).
	content, ok := lt.get("anything")
	require.False(t, ok)
	require.Empty(t, content)
	lt.close()
}

func TestNewLayerTree_EmptyRootReturnsNil(t *testing.T) {
	require.Nil(t, newLayerTree("", entity.LayerClient))
}

func TestLayerTree_LoadsOnlyRecognizedExtensions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "prompt.md"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "resources.yaml"), []byte("a: 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644))

	lt := newLayerTree(root, entity.LayerSystem)
	require.NotNil(t, lt)
	defer lt.close()

	content, ok := lt.get("prompt.md")
	require.True(t, ok)
	require.Equal(t, "hello", content)

	_, ok = lt.get("resources.yaml")
	require.True(t, ok)

	_, ok = lt.get("notes.txt")
	require.False(t, ok)
}

func TestLayerTree_NestedSubdirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "slots", "interactive_query"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "slots", "interactive_query", "system.md"), []byte("sys"), 0o644))

	lt := newLayerTree(root, entity.LayerSystem)
	require.NotNil(t, lt)
	defer lt.close()

	content, ok := lt.get(filepath.ToSlash(filepath.Join("slots", "interactive_query", "system.md")))
	require.True(t, ok)
	require.Equal(t, "sys", content)
}
