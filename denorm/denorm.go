// Package denorm inlines resolved references back into mapped content.
//
// The resolution engine leaves placeholder tokens wherever it substituted a
// reference. Denormalization walks the mapped items as generic JSON trees
// and replaces every token whose canonical identifier has an entry in the
// resolved-references cache; tokens without an entry survive as opaque
// strings. Inlined entities are shared: two tokens for the same identifier
// point at the same tree, which also makes cyclic reference graphs
// representable without infinite expansion.
package denorm

import (
	"encoding/json"
	"fmt"

	"github.com/maidi29/fsxa-api/content"
	"github.com/maidi29/fsxa-api/refs"
	"github.com/maidi29/fsxa-api/resolver"
)

// Denormalize returns the mapped items of result with every resolvable
// placeholder token replaced by its entity, as generic JSON trees. The
// input is not modified.
func Denormalize(result *resolver.MapResult) ([]any, error) {
	d := &denormalizer{
		entities: make(map[string]any, len(result.ResolvedReferences)),
		inlined:  make(map[string]any, len(result.ResolvedReferences)),
	}

	for id, entity := range result.ResolvedReferences {
		tree, err := toTree(entity)
		if err != nil {
			return nil, fmt.Errorf("failed to convert entity %q: %w", id, err)
		}
		d.entities[id] = tree
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		tree, err := toTree(item)
		if err != nil {
			return nil, fmt.Errorf("failed to convert item %d: %w", i, err)
		}
		items[i] = d.substitute(tree)
	}
	return items, nil
}

type denormalizer struct {
	entities map[string]any
	inlined  map[string]any
}

// entity returns the fully inlined tree for a canonical identifier. The
// container is memoized before its fields are substituted, so a reference
// cycle resolves to shared structure instead of recursing forever.
func (d *denormalizer) entity(id string) (any, bool) {
	if tree, ok := d.inlined[id]; ok {
		return tree, true
	}
	raw, ok := d.entities[id]
	if !ok {
		return nil, false
	}

	if m, ok := raw.(map[string]any); ok {
		out := make(map[string]any, len(m))
		d.inlined[id] = out
		for k, v := range m {
			out[k] = d.substitute(v)
		}
		return out, true
	}

	tree := d.substitute(raw)
	d.inlined[id] = tree
	return tree, true
}

// substitute rewrites one node, descending into objects and lists.
func (d *denormalizer) substitute(node any) any {
	switch t := node.(type) {
	case string:
		id, resolution, ok := refs.TokenID(t)
		if !ok {
			return t
		}
		entity, found := d.entity(id)
		if !found {
			return t
		}
		if resolution != "" {
			entity = narrowResolution(entity, resolution)
		}
		return entity
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = d.substitute(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = d.substitute(v)
		}
		return out
	default:
		return node
	}
}

// narrowResolution reduces an inlined image's rendition table to the one an
// image map requested. Entities without that rendition (or non-images) are
// returned unchanged.
func narrowResolution(entity any, resolution string) any {
	m, ok := entity.(map[string]any)
	if !ok || m["type"] != content.TypeImage {
		return entity
	}
	resolutions, ok := m["resolutions"].(map[string]any)
	if !ok {
		return entity
	}
	selected, ok := resolutions[resolution]
	if !ok {
		return entity
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	out["resolutions"] = map[string]any{resolution: selected}
	return out
}

// toTree converts a mapped value into a generic JSON tree.
func toTree(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
