package promptpack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/errno"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestResolver_CandidateSearchOrder_SlotSpecificWins(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/interactive_query/domain.md", "slot-specific")
	writeFile(t, systemRoot, "slots/__default/domain.md", "default")

	sharedRoot := t.TempDir()
	writeFile(t, sharedRoot, "core/domain.md", "shared")

	r := NewResolver("core", sharedRoot, systemRoot, "", "")
	defer r.Close()

	content, entry, err := r.Resolve("interactive_query", "domain.md", false)
	require.NoError(t, err)
	require.Equal(t, "slot-specific", content)
	require.Equal(t, entity.LayerSystem, entry.Layer)
}

func TestResolver_CandidateSearchOrder_FallsBackToDefaultSlot(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/__default/domain.md", "default")

	r := NewResolver("core", "", systemRoot, "", "")
	defer r.Close()

	content, _, err := r.Resolve("interactive_query", "domain.md", false)
	require.NoError(t, err)
	require.Equal(t, "default", content)
}

func TestResolver_CandidateSearchOrder_FallsBackToComponentTemplate(t *testing.T) {
	sharedRoot := t.TempDir()
	writeFile(t, sharedRoot, "core/domain.md", "shared building block")

	r := NewResolver("core", sharedRoot, "", "", "")
	defer r.Close()

	content, entry, err := r.Resolve("interactive_query", "domain.md", false)
	require.NoError(t, err)
	require.Equal(t, "shared building block", content)
	require.Equal(t, entity.LayerShared, entry.Layer)
}

// A fragment keyed by a *different* slot under templates/<component>/
// must never satisfy a candidate for this slot: the third candidate is
// component-scoped, not slot-scoped.
func TestResolver_ComponentTemplateIsNotSlotScoped(t *testing.T) {
	sharedRoot := t.TempDir()
	writeFile(t, sharedRoot, "other_slot/domain.md", "wrong slot")

	r := NewResolver("core", sharedRoot, "", "", "")
	defer r.Close()

	_, _, err := r.Resolve("interactive_query", "domain.md", true)
	require.NoError(t, err) // optional miss, not a wrong-slot hit
}

func TestResolver_LayerPrecedence_ClientEnvBeatsSystem(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/interactive_query/system.md", "system pack")

	clientEnvRoot := t.TempDir()
	writeFile(t, clientEnvRoot, "slots/interactive_query/system.md", "acme prod override")

	r := NewResolver("core", "", systemRoot, "", clientEnvRoot)
	defer r.Close()

	content, entry, err := r.Resolve("interactive_query", "system.md", false)
	require.NoError(t, err)
	require.Equal(t, "acme prod override", content)
	require.Equal(t, entity.LayerClientEnv, entry.Layer)
}

func TestResolver_LayerPrecedence_ClientBeatsSystemButNotClientEnv(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/interactive_query/system.md", "system pack")

	clientRoot := t.TempDir()
	writeFile(t, clientRoot, "slots/interactive_query/system.md", "acme (all envs)")

	r := NewResolver("core", "", systemRoot, clientRoot, "")
	defer r.Close()

	content, entry, err := r.Resolve("interactive_query", "system.md", false)
	require.NoError(t, err)
	require.Equal(t, "acme (all envs)", content)
	require.Equal(t, entity.LayerClient, entry.Layer)
}

func TestResolver_OptionalMissReturnsNilWithoutError(t *testing.T) {
	r := NewResolver("core", "", t.TempDir(), "", "")
	defer r.Close()

	content, entry, err := r.Resolve("interactive_query", "missing.md", true)
	require.NoError(t, err)
	require.Nil(t, entry)
	require.Empty(t, content)
}

func TestResolver_RequiredMissReturnsErrFragmentNotFound(t *testing.T) {
	r := NewResolver("core", "", t.TempDir(), "", "")
	defer r.Close()

	_, _, err := r.Resolve("interactive_query", "missing.md", false)
	require.ErrorIs(t, err, errno.ErrFragmentNotFound)
}

func TestResolver_ContentHashIsStableAndDistinct(t *testing.T) {
	require.Equal(t, hashContent("a"), hashContent("a"))
	require.NotEqual(t, hashContent("a"), hashContent("b"))
}
