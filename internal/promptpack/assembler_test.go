package promptpack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/errno"
)

// errno.ErrAmbiguousCandidate has no test here: layersByPrecedence returns
// a strict total order (client_env > client > system > shared) with no
// ties, so two layers can never both win at the same precedence and the
// "ambiguous candidate" edge case cannot structurally arise through this
// Resolver. The sentinel stays defined for forward-compatibility with a
// future layer set that could introduce ties.

func specs(required ...string) map[string]SlotSpec {
	return map[string]SlotSpec{"interactive_query": {Required: required}}
}

func TestAssembler_MissingRequiredVariable(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/interactive_query/prompt.md", "hello {{ user_request }}")

	a := NewAssembler("core", "", systemRoot, "", specs("user_request"))

	_, _, err := a.Assemble("interactive_query", map[string]interface{}{}, "", "")
	require.ErrorIs(t, err, errno.ErrMissingVariable)
}

func TestAssembler_CyclicIncludeDetected(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/interactive_query/prompt.md", `{% include_fragment "a.md" %}`)
	writeFile(t, systemRoot, "slots/interactive_query/a.md", `{% include_fragment "b.md" %}`)
	writeFile(t, systemRoot, "slots/interactive_query/b.md", `{% include_fragment "a.md" %}`)

	a := NewAssembler("core", "", systemRoot, "", specs())

	_, _, err := a.Assemble("interactive_query", map[string]interface{}{}, "", "")
	require.ErrorIs(t, err, errno.ErrCyclicInclude)
}

func TestAssembler_OptionalMissingIncludeIsSkippedSilently(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/interactive_query/prompt.md",
		"before\n{% include_fragment \"domain.md\" optional %}\nafter")

	a := NewAssembler("core", "", systemRoot, "", specs())

	rendered, lineage, err := a.Assemble("interactive_query", map[string]interface{}{}, "", "")
	require.NoError(t, err)
	require.Contains(t, rendered, "before")
	require.Contains(t, rendered, "after")
	require.Len(t, lineage, 1) // only prompt.md itself; the optional miss adds no entry
}

func TestAssembler_AssembleExpandsIncludesAndRendersVariables(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/interactive_query/prompt.md",
		"{% include_fragment \"system.md\" %}\nRequest: {{ user_request }}")
	writeFile(t, systemRoot, "slots/interactive_query/system.md", "You are the assistant.")

	a := NewAssembler("core", "", systemRoot, "", specs("user_request"))

	rendered, lineage, err := a.Assemble("interactive_query", map[string]interface{}{"user_request": "top 10 users"}, "", "")
	require.NoError(t, err)
	require.Contains(t, rendered, "You are the assistant.")
	require.Contains(t, rendered, "Request: top 10 users")
	require.Len(t, lineage, 2)
}

func TestAssembler_SharedTemplateFallbackResolvesThroughComponent(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/interactive_query/prompt.md",
		"{% include_fragment \"domain.md\" optional %}")

	sharedRoot := t.TempDir()
	writeFile(t, sharedRoot, "core/domain.md", "shared domain guidance")

	a := NewAssembler("core", sharedRoot, systemRoot, "", specs())

	rendered, _, err := a.Assemble("interactive_query", map[string]interface{}{}, "", "")
	require.NoError(t, err)
	require.Contains(t, rendered, "shared domain guidance")
}

func TestAssembler_ClientEnvOverlayWinsOverSystemPack(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/interactive_query/prompt.md", `{% include_fragment "system.md" %}`)
	writeFile(t, systemRoot, "slots/interactive_query/system.md", "default system prompt")

	overlayRoot := t.TempDir()
	writeFile(t, overlayRoot, "acme/prod/core/overlays/slots/interactive_query/system.md", "acme-specific prompt")

	a := NewAssembler("core", "", systemRoot, overlayRoot, specs())

	rendered, _, err := a.Assemble("interactive_query", map[string]interface{}{}, "acme", "prod")
	require.NoError(t, err)
	require.Contains(t, rendered, "acme-specific prompt")
	require.NotContains(t, rendered, "default system prompt")
}

func TestAssembler_ResolverIsCachedPerClientEnv(t *testing.T) {
	systemRoot := t.TempDir()
	writeFile(t, systemRoot, "slots/interactive_query/prompt.md", "hi")

	a := NewAssembler("core", "", systemRoot, "", specs())

	r1 := a.resolverFor("acme", "prod")
	r2 := a.resolverFor("acme", "prod")
	require.Same(t, r1, r2)

	r3 := a.resolverFor("acme", "staging")
	require.NotSame(t, r1, r3)
}
