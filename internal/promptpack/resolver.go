package promptpack

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/errno"
)

// Resolver holds the loaded layer trees and resolves (slot, fragment)
// references across them, for one component.
type Resolver struct {
	component string

	shared    *layerTree // templates/<component>/ — shared building blocks, unversioned
	system    *layerTree // the versioned system pack root
	client    *layerTree // client-scoped overlay, may be nil
	clientEnv *layerTree // client+env-scoped overlay, may be nil
}

// NewResolver loads the shared templates tree, the system pack, and the
// client/client+env overlay roots (empty string skips a layer). component
// names the component these roots belong to (spec §6.5's <component>
// path segment), used to scope the shared-templates candidate.
func NewResolver(component, sharedRoot, systemRoot, clientRoot, clientEnvRoot string) *Resolver {
	return &Resolver{
		component: component,
		shared:    newLayerTree(sharedRoot, entity.LayerShared),
		system:    newLayerTree(systemRoot, entity.LayerSystem),
		client:    newLayerTree(clientRoot, entity.LayerClient),
		clientEnv: newLayerTree(clientEnvRoot, entity.LayerClientEnv),
	}
}

// Close stops every layer's file watcher.
func (r *Resolver) Close() {
	r.shared.close()
	r.system.close()
	r.client.close()
	r.clientEnv.close()
}

// layersByPrecedence returns the loaded layers, highest precedence first:
// client+env overlay -> client overlay -> system pack -> shared templates.
func (r *Resolver) layersByPrecedence() []*layerTree {
	return []*layerTree{r.clientEnv, r.client, r.system, r.shared}
}

// candidatePaths builds the search order for fragment within slot: the
// slot-specific path, the slot-agnostic default, then the shared
// templates path keyed by component — building blocks under
// templates/<component>/ are reusable across every slot in the
// component, not scoped to any one slot.
func candidatePaths(component, slot, fragment string) []string {
	return []string{
		path.Join("slots", slot, fragment),
		path.Join("slots", "__default", fragment),
		path.Join(component, fragment),
	}
}

// Resolve finds fragment for slot across the candidate search order and
// layer precedence, returning its content and the lineage entry for the
// layer/path that won. optional permits a total miss (the include site
// marked this fragment as non-required); a non-optional miss on every
// candidate across every layer is errno.ErrFragmentNotFound.
func (r *Resolver) Resolve(slot, fragment string, optional bool) (string, *entity.LineageEntry, error) {
	for _, candidate := range candidatePaths(r.component, slot, fragment) {
		for _, layer := range r.layersByPrecedence() {
			if layer == nil {
				continue
			}
			content, ok := layer.get(candidate)
			if !ok {
				continue
			}
			return content, &entity.LineageEntry{
				Layer:       layer.layer,
				Path:        candidate,
				ContentHash: hashContent(content),
			}, nil
		}
	}
	if optional {
		return "", nil, nil
	}
	return "", nil, fmt.Errorf("%w: slot=%s fragment=%s", errno.ErrFragmentNotFound, slot, fragment)
}

func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
