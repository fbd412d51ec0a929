package resolver

import "context"

// FetchRequest describes one batched lookup against the content store: all
// entities whose identifier is in IDs, scoped to a project and locale.
type FetchRequest struct {
	// IDs are raw store-level identifiers, canonical prefixes and locale
	// suffixes already stripped.
	IDs []string

	// Locale the entities are fetched in.
	Locale string

	// RemoteProject is the configured remote project key, empty for the
	// request's own project.
	RemoteProject string

	// PageSize caps the page the store returns. It always covers len(IDs)
	// here since batches are cut to fit.
	PageSize int
}

// Fetcher is the external collaborator that talks to the content store.
// Implementations must be safe for concurrent calls; the scheduler fans out
// one call per batch and per project. A non-2xx response or transport
// failure is returned as an error and fails the top-level mapping call.
type Fetcher interface {
	FetchByFilter(ctx context.Context, req FetchRequest) ([]map[string]any, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req FetchRequest) ([]map[string]any, error)

// FetchByFilter calls f.
func (f FetcherFunc) FetchByFilter(ctx context.Context, req FetchRequest) ([]map[string]any, error) {
	return f(ctx, req)
}
