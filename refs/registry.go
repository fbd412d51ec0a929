// Package refs holds the request-scoped bookkeeping of the resolution
// engine: the per-project reference registry, the resolved-entity cache,
// path addressing and the placeholder token grammar.
//
// Registry and Cache are constructed fresh for every top-level mapping
// request and discarded with it. Both are safe for concurrent writers; the
// registry only ever accumulates and the cache is written once per
// identifier by convention, so repeated writes are idempotent.
package refs

import (
	"sort"
	"sync"
)

// LocalProject is the bucket key for references into the request's own
// project.
const LocalProject = ""

// Registry records, per logical project, which canonical identifiers were
// referenced and from which tree locations. Entries accumulate monotonically
// during a request; they are consulted by the resolution scheduler and never
// removed.
type Registry struct {
	mu      sync.Mutex
	buckets map[string]map[string][]Path
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{buckets: make(map[string]map[string][]Path)}
}

// Add records that canonicalID is referenced from path, under the bucket of
// the given project. Use LocalProject for the request's own project.
func (r *Registry) Add(projectID, canonicalID string, path Path) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.buckets[projectID]
	if !ok {
		bucket = make(map[string][]Path)
		r.buckets[projectID] = bucket
	}
	bucket[canonicalID] = append(bucket[canonicalID], path)
}

// Projects returns the ids of all buckets with at least one entry, the
// local bucket included as LocalProject. The result is sorted for
// deterministic scheduling.
func (r *Registry) Projects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects := make([]string, 0, len(r.buckets))
	for id := range r.buckets {
		projects = append(projects, id)
	}
	sort.Strings(projects)
	return projects
}

// IDs returns the sorted canonical identifiers registered under a project
// bucket.
func (r *Registry) IDs(projectID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket := r.buckets[projectID]
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Paths returns all recorded tree locations for canonicalID in a project
// bucket. The returned slice is a copy.
func (r *Registry) Paths(projectID, canonicalID string) []Path {
	r.mu.Lock()
	defer r.mu.Unlock()

	paths := r.buckets[projectID][canonicalID]
	out := make([]Path, len(paths))
	copy(out, paths)
	return out
}

// Len returns the total number of registered identifiers across all buckets.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, bucket := range r.buckets {
		n += len(bucket)
	}
	return n
}

// Merged flattens all project buckets into a single id → paths map, the
// shape handed to callers as the reference map. Identifiers cannot collide
// across buckets because remote ids carry their project prefix.
func (r *Registry) Merged() map[string][]Path {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := make(map[string][]Path)
	for _, bucket := range r.buckets {
		for id, paths := range bucket {
			out := make([]Path, len(paths))
			copy(out, paths)
			merged[id] = append(merged[id], out...)
		}
	}
	return merged
}
