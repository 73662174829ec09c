package promptpack

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/errno"
	"github.com/kiosk404/echosql/pkg/logger"
)

// includeDirective matches a fragment include placed on its own line:
// {% include_fragment "name.md" %} or {% include_fragment "name.md" optional %}.
// Includes are resolved by the assembler (not gonja's native include,
// which only knows one filesystem root) before the result is handed to
// the Jinja renderer for variable substitution.
var includeDirective = regexp.MustCompile(`(?m)^\s*\{%\s*include_fragment\s+"([^"]+)"\s*(optional)?\s*%\}\s*$`)

// SlotSpec declares a slot's required/optional variables, enforced before
// rendering (spec: "rendering fails fast with a structured error when
// required variables are absent").
type SlotSpec struct {
	Required []string
	Optional []string
}

// Assembler resolves and renders prompt slots for one component. One
// Resolver is built per (client, env) pair and cached for the process
// lifetime, mirroring the lazy sync.Map model cache used elsewhere in
// this codebase.
type Assembler struct {
	component   string
	sharedRoot  string
	systemRoot  string
	overlayRoot string // root containing <client>/<env>/<component>/overlays subtrees

	specs map[string]SlotSpec

	resolvers sync.Map // cacheKey(client,env) -> *Resolver
}

// NewAssembler builds an Assembler for component, rooted at sharedRoot
// (the top-level templates/ tree — candidate paths below it are scoped
// by component, not loaded wholesale), systemRoot (the versioned
// resources/<component>/system-pack/<version> tree), and overlayRoot
// (the top-level client-configs/ tree; spec §6.5's layout nests
// <client>/<env>/<component>/overlays under it).
func NewAssembler(component, sharedRoot, systemRoot, overlayRoot string, specs map[string]SlotSpec) *Assembler {
	return &Assembler{component: component, sharedRoot: sharedRoot, systemRoot: systemRoot, overlayRoot: overlayRoot, specs: specs}
}

func cacheKey(client, env string) string { return client + "\x00" + env }

func (a *Assembler) resolverFor(client, env string) *Resolver {
	key := cacheKey(client, env)
	if v, ok := a.resolvers.Load(key); ok {
		return v.(*Resolver)
	}
	clientRoot := ""
	clientEnvRoot := ""
	if a.overlayRoot != "" && client != "" {
		clientRoot = filepath.Join(a.overlayRoot, client, a.component, "overlays")
		if env != "" {
			clientEnvRoot = filepath.Join(a.overlayRoot, client, env, a.component, "overlays")
		}
	}
	r := NewResolver(a.component, a.sharedRoot, a.systemRoot, clientRoot, clientEnvRoot)
	actual, loaded := a.resolvers.LoadOrStore(key, r)
	if loaded {
		r.Close()
	}
	return actual.(*Resolver)
}

// Assemble renders slot with vars for the given client/env, returning the
// rendered text and the ordered lineage of every (layer, path, hash)
// consulted. All errors are fatal for the call — no partial prompt is
// ever returned.
func (a *Assembler) Assemble(slot string, vars map[string]interface{}, client, env string) (string, []entity.LineageEntry, error) {
	spec := a.specs[slot]
	for _, req := range spec.Required {
		if _, ok := vars[req]; !ok {
			return "", nil, fmt.Errorf("%w: slot=%s variable=%s", errno.ErrMissingVariable, slot, req)
		}
	}

	resolver := a.resolverFor(client, env)

	var lineage []entity.LineageEntry
	visiting := map[string]bool{}

	var expand func(fragment string, optional bool) (string, error)
	expand = func(fragment string, optional bool) (string, error) {
		if visiting[fragment] {
			return "", fmt.Errorf("%w: %s", errno.ErrCyclicInclude, fragment)
		}
		visiting[fragment] = true
		defer delete(visiting, fragment)

		content, entry, err := resolver.Resolve(slot, fragment, optional)
		if err != nil {
			return "", fmt.Errorf("fragment %q: %w", fragment, err)
		}
		if entry == nil {
			return "", nil // optional miss
		}
		lineage = append(lineage, *entry)

		return expandIncludes(content, expand)
	}

	rootContent, rootEntry, err := resolver.Resolve(slot, "prompt.md", false)
	if err != nil {
		return "", nil, fmt.Errorf("root fragment: %w", err)
	}
	lineage = append(lineage, *rootEntry)

	assembled, err := expandIncludes(rootContent, expand)
	if err != nil {
		return "", nil, err
	}

	rendered, err := renderJinja(assembled, vars)
	if err != nil {
		return "", nil, fmt.Errorf("slot %q: %w", slot, err)
	}

	logger.DebugX("promptpack", "assembled slot=%s client=%s env=%s fragments=%d", slot, client, env, len(lineage))
	return rendered, lineage, nil
}

// expandIncludes replaces every include_fragment directive in content with
// the (recursively expanded) content of that fragment.
func expandIncludes(content string, expand func(fragment string, optional bool) (string, error)) (string, error) {
	var outerErr error
	result := includeDirective.ReplaceAllStringFunc(content, func(match string) string {
		if outerErr != nil {
			return ""
		}
		groups := includeDirective.FindStringSubmatch(match)
		fragment, optional := groups[1], groups[2] == "optional"
		sub, err := expand(fragment, optional)
		if err != nil {
			outerErr = err
			return ""
		}
		return sub
	})
	if outerErr != nil {
		return "", outerErr
	}
	return result, nil
}
