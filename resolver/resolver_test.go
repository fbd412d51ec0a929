package resolver

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maidi29/fsxa-api/content"
	"github.com/maidi29/fsxa-api/ident"
)

// fakeStore serves raw items per project and records every fetch request.
type fakeStore struct {
	mu       sync.Mutex
	items    map[string]map[string]map[string]any // project -> raw id -> raw item
	requests []FetchRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]map[string]map[string]any{}}
}

func (s *fakeStore) add(project, id string, item map[string]any) {
	if s.items[project] == nil {
		s.items[project] = map[string]map[string]any{}
	}
	s.items[project][id] = item
}

func (s *fakeStore) FetchByFilter(ctx context.Context, req FetchRequest) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)

	var out []map[string]any
	for _, id := range req.IDs {
		if item, ok := s.items[req.RemoteProject][id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *fakeStore) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *fakeStore) batchSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sizes := make([]int, 0, len(s.requests))
	for _, req := range s.requests {
		sizes = append(sizes, len(req.IDs))
	}
	return sizes
}

func newTestResolver(t *testing.T, store *fakeStore, cfg Config) *Resolver {
	t.Helper()
	if cfg.Locale == "" {
		cfg.Locale = "en_GB"
	}
	if cfg.MaxReferenceDepth == 0 {
		cfg.MaxReferenceDepth = DefaultMaxReferenceDepth
	}
	r, err := New(store, cfg)
	require.NoError(t, err)
	return r
}

func rawDataset(id string, formData map[string]any) map[string]any {
	if formData == nil {
		formData = map[string]any{}
	}
	return map[string]any{
		"fsType":     content.FSTypeDataset,
		"identifier": id,
		"schema":     "news",
		"template":   map[string]any{"uid": "news.detail"},
		"formData":   formData,
	}
}

func datasetRef(target string) map[string]any {
	return map[string]any{
		"fsType": content.FSTypeDatasetRef,
		"value":  map[string]any{"target": map[string]any{"identifier": target}},
	}
}

func rawPicture(id string) map[string]any {
	return map[string]any{
		"fsType":     content.FSTypeMedia,
		"identifier": id,
		"mediaType":  content.MediaTypePicture,
		"resolutionsMetaData": map[string]any{
			"ORIGINAL": map[string]any{"url": "https://cdn/" + id + ".jpg", "width": 1920, "height": 1080},
		},
	}
}

func TestNewRequiresFetcher(t *testing.T) {
	_, err := New(nil, Config{})
	assert.ErrorIs(t, err, ErrNilFetcher)
}

func TestMapBatchResolvesPageMediaReference(t *testing.T) {
	store := newFakeStore()
	store.add("", "m1", rawPicture("m1"))
	r := newTestResolver(t, store, Config{})

	item := rawDataset("d1", map[string]any{
		"tt_image": map[string]any{
			"fsType": content.FSTypeReference,
			"value":  map[string]any{"fsType": "Media", "identifier": "m1"},
		},
	})
	result, err := r.MapBatch(context.Background(), []map[string]any{item})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	dataset, ok := result.Items[0].(*content.Dataset)
	require.True(t, ok)
	assert.Equal(t, "[REFERENCED-ITEM-m1.en_GB]", dataset.Data["tt_image"])

	image, ok := result.ResolvedReferences["m1.en_GB"].(*content.Image)
	require.True(t, ok)
	assert.Equal(t, "https://cdn/m1.jpg", image.Resolutions["ORIGINAL"].URL)

	require.Len(t, result.ReferenceMap["m1.en_GB"], 1)
	assert.Equal(t, "0.data.tt_image", result.ReferenceMap["m1.en_GB"][0].String())

	assert.Equal(t, 1, store.fetchCount())
}

func TestMapBatchFetchesSharedReferenceOnce(t *testing.T) {
	store := newFakeStore()
	store.add("", "m1", rawPicture("m1"))
	r := newTestResolver(t, store, Config{})

	items := []map[string]any{
		rawDataset("d1", map[string]any{
			"tt_image": map[string]any{
				"fsType": content.FSTypeReference,
				"value":  map[string]any{"identifier": "m1"},
			},
		}),
		rawDataset("d2", map[string]any{
			"tt_teaser": map[string]any{
				"fsType": content.FSTypeReference,
				"value":  map[string]any{"identifier": "m1"},
			},
		}),
	}
	result, err := r.MapBatch(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, 1, store.fetchCount())
	assert.Len(t, result.ReferenceMap["m1.en_GB"], 2)
	assert.Contains(t, result.ResolvedReferences, "m1.en_GB")
}

func TestMapBatchTerminatesOnCycle(t *testing.T) {
	store := newFakeStore()
	store.add("", "db", rawDataset("db", map[string]any{"tt_back": datasetRef("da")}))
	r := newTestResolver(t, store, Config{})

	top := rawDataset("da", map[string]any{"tt_next": datasetRef("db")})
	result, err := r.MapBatch(context.Background(), []map[string]any{top})
	require.NoError(t, err)

	// db points back at da, which is already cached as a top-level item, so
	// a single fetch settles the graph.
	assert.Equal(t, 1, store.fetchCount())
	assert.Contains(t, result.ResolvedReferences, "da.en_GB")
	assert.Contains(t, result.ResolvedReferences, "db.en_GB")

	db := result.ResolvedReferences["db.en_GB"].(*content.Dataset)
	assert.Equal(t, "[REFERENCED-ITEM-da.en_GB]", db.Data["tt_back"])
}

func TestMapBatchDepthZeroDisablesResolution(t *testing.T) {
	store := newFakeStore()
	store.add("", "m1", rawPicture("m1"))
	r, err := New(store, Config{Locale: "en_GB"}) // MaxReferenceDepth zero value
	require.NoError(t, err)

	item := rawDataset("d1", map[string]any{
		"tt_image": map[string]any{
			"fsType": content.FSTypeReference,
			"value":  map[string]any{"identifier": "m1"},
		},
	})
	result, err := r.MapBatch(context.Background(), []map[string]any{item})
	require.NoError(t, err)

	assert.Equal(t, 0, store.fetchCount())
	assert.NotContains(t, result.ResolvedReferences, "m1.en_GB")
	// The placeholder and the reference record survive for the caller.
	dataset := result.Items[0].(*content.Dataset)
	assert.Equal(t, "[REFERENCED-ITEM-m1.en_GB]", dataset.Data["tt_image"])
	assert.Contains(t, result.ReferenceMap, "m1.en_GB")
}

func TestMapBatchStopsAtMaxReferenceDepth(t *testing.T) {
	store := newFakeStore()
	store.add("", "d2", rawDataset("d2", map[string]any{"tt_next": datasetRef("d3")}))
	store.add("", "d3", rawDataset("d3", map[string]any{"tt_next": datasetRef("d4")}))
	store.add("", "d4", rawDataset("d4", nil))
	r := newTestResolver(t, store, Config{MaxReferenceDepth: 2})

	top := rawDataset("d1", map[string]any{"tt_next": datasetRef("d2")})
	result, err := r.MapBatch(context.Background(), []map[string]any{top})
	require.NoError(t, err)

	assert.Equal(t, 2, store.fetchCount())
	assert.Contains(t, result.ResolvedReferences, "d2.en_GB")
	assert.Contains(t, result.ResolvedReferences, "d3.en_GB")
	assert.NotContains(t, result.ResolvedReferences, "d4.en_GB")
	// The unreachable tail is still on record.
	assert.Contains(t, result.ReferenceMap, "d4.en_GB")
}

func TestMapBatchChunksLargeReferenceSets(t *testing.T) {
	store := newFakeStore()
	records := make([]any, 0, 65)
	for i := 1; i <= 65; i++ {
		id := fmt.Sprintf("d%02d", i)
		store.add("", id, rawDataset(id, nil))
		records = append(records, map[string]any{
			"value": map[string]any{"target": map[string]any{"identifier": id}},
		})
	}
	r := newTestResolver(t, store, Config{})

	top := rawDataset("top", map[string]any{
		"tt_products": map[string]any{
			"fsType":  content.FSTypeIndex,
			"dapType": content.IndexDatasetDAP,
			"value":   records,
		},
	})
	result, err := r.MapBatch(context.Background(), []map[string]any{top})
	require.NoError(t, err)

	sizes := store.batchSizes()
	require.Len(t, sizes, 3)
	assert.ElementsMatch(t, []int{30, 30, 5}, sizes)
	assert.Len(t, result.ResolvedReferences, 66) // 65 targets plus the seeded top item
}

func TestMapBatchResolvesRemoteReferences(t *testing.T) {
	store := newFakeStore()
	store.add("media", "m1", rawPicture("m1"))
	r := newTestResolver(t, store, Config{
		Remotes: map[string]ident.RemoteProject{
			"media": {ID: "media", Locale: "de_DE"},
		},
	})

	item := rawDataset("d1", map[string]any{
		"tt_image": map[string]any{
			"fsType": content.FSTypeReference,
			"value":  map[string]any{"identifier": "m1", "remoteProject": "media"},
		},
	})
	result, err := r.MapBatch(context.Background(), []map[string]any{item})
	require.NoError(t, err)

	require.Equal(t, 1, store.fetchCount())
	req := store.requests[0]
	assert.Equal(t, "media", req.RemoteProject)
	assert.Equal(t, "de_DE", req.Locale)
	assert.Equal(t, []string{"m1"}, req.IDs)

	dataset := result.Items[0].(*content.Dataset)
	assert.Equal(t, "[REFERENCED-REMOTE-ITEM-media#m1.de_DE]", dataset.Data["tt_image"])
	assert.Contains(t, result.ResolvedReferences, "media#m1.de_DE")
}

func TestMapBatchResolvesLocaleSuffixedReference(t *testing.T) {
	store := newFakeStore()
	store.add("", "m1", rawPicture("m1"))
	r := newTestResolver(t, store, Config{Locale: "en_GB"})

	// The raw id carries its own locale, which wins over the request locale.
	item := rawDataset("d1", map[string]any{
		"tt_image": map[string]any{
			"fsType": content.FSTypeReference,
			"value":  map[string]any{"identifier": "m1.de_DE"},
		},
	})
	result, err := r.MapBatch(context.Background(), []map[string]any{item})
	require.NoError(t, err)

	require.Equal(t, 1, store.fetchCount())
	req := store.requests[0]
	assert.Equal(t, "de_DE", req.Locale)
	assert.Equal(t, []string{"m1"}, req.IDs)

	dataset := result.Items[0].(*content.Dataset)
	assert.Equal(t, "[REFERENCED-ITEM-m1.de_DE]", dataset.Data["tt_image"])
	assert.Contains(t, result.ResolvedReferences, "m1.de_DE")
	assert.NotContains(t, result.ResolvedReferences, "m1.en_GB")
}

func TestMapBatchSplitsRoundByReferenceLocale(t *testing.T) {
	store := newFakeStore()
	store.add("", "m1", rawPicture("m1"))
	store.add("", "m2", rawPicture("m2"))
	r := newTestResolver(t, store, Config{Locale: "en_GB"})

	item := rawDataset("d1", map[string]any{
		"tt_hero": map[string]any{
			"fsType": content.FSTypeReference,
			"value":  map[string]any{"identifier": "m1.de_DE"},
		},
		"tt_teaser": map[string]any{
			"fsType": content.FSTypeReference,
			"value":  map[string]any{"identifier": "m2"},
		},
	})
	result, err := r.MapBatch(context.Background(), []map[string]any{item})
	require.NoError(t, err)

	require.Equal(t, 2, store.fetchCount())
	locales := []string{store.requests[0].Locale, store.requests[1].Locale}
	assert.ElementsMatch(t, []string{"de_DE", "en_GB"}, locales)
	assert.Contains(t, result.ResolvedReferences, "m1.de_DE")
	assert.Contains(t, result.ResolvedReferences, "m2.en_GB")
}

func TestMapBatchFetchesMissingReferenceOnce(t *testing.T) {
	store := newFakeStore()
	r := newTestResolver(t, store, Config{})

	item := rawDataset("d1", map[string]any{"tt_next": datasetRef("ghost")})
	result, err := r.MapBatch(context.Background(), []map[string]any{item})
	require.NoError(t, err)

	// An id the store cannot answer costs exactly one fetch, not one per
	// depth round.
	assert.Equal(t, 1, store.fetchCount())
	assert.NotContains(t, result.ResolvedReferences, "ghost.en_GB")
	assert.Contains(t, result.ReferenceMap, "ghost.en_GB")
	dataset := result.Items[0].(*content.Dataset)
	assert.Equal(t, "[REFERENCED-ITEM-ghost.en_GB]", dataset.Data["tt_next"])
}

func TestMapBatchSkipsReferencesToSeededItems(t *testing.T) {
	store := newFakeStore()
	r := newTestResolver(t, store, Config{})

	items := []map[string]any{
		rawDataset("d1", nil),
		rawDataset("d2", map[string]any{"tt_related": datasetRef("d1")}),
	}
	result, err := r.MapBatch(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, 0, store.fetchCount())
	assert.Contains(t, result.ResolvedReferences, "d1.en_GB")
}

func TestMapBatchPassesUnknownItemsThrough(t *testing.T) {
	store := newFakeStore()
	r := newTestResolver(t, store, Config{})

	item := map[string]any{"fsType": "Audit", "identifier": "a1"}
	result, err := r.MapBatch(context.Background(), []map[string]any{item})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, item, result.Items[0])
	assert.Equal(t, 0, store.fetchCount())
}

func TestMapBatchPreservesInputOrder(t *testing.T) {
	store := newFakeStore()
	r := newTestResolver(t, store, Config{})

	items := make([]map[string]any, 8)
	for i := range items {
		items[i] = rawDataset(fmt.Sprintf("d%d", i), nil)
	}
	result, err := r.MapBatch(context.Background(), items)
	require.NoError(t, err)

	require.Len(t, result.Items, 8)
	for i, item := range result.Items {
		dataset, ok := item.(*content.Dataset)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("d%d", i), dataset.ID)
	}
}

func TestMapBatchFetchErrorSurfaces(t *testing.T) {
	fetcher := FetcherFunc(func(ctx context.Context, req FetchRequest) ([]map[string]any, error) {
		return nil, fmt.Errorf("store unavailable")
	})
	r, err := New(fetcher, Config{Locale: "en_GB", MaxReferenceDepth: DefaultMaxReferenceDepth})
	require.NoError(t, err)

	item := rawDataset("d1", map[string]any{"tt_next": datasetRef("d2")})
	_, err = r.MapBatch(context.Background(), []map[string]any{item})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want []int
	}{
		{name: "empty", n: 0, size: 30, want: nil},
		{name: "below size", n: 7, size: 30, want: []int{7}},
		{name: "exact multiple", n: 60, size: 30, want: []int{30, 30}},
		{name: "remainder", n: 65, size: 30, want: []int{30, 30, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.n)
			for i := range ids {
				ids[i] = fmt.Sprintf("id%d", i)
			}
			chunks := chunk(ids, tt.size)
			var sizes []int
			for _, c := range chunks {
				sizes = append(sizes, len(c))
			}
			assert.Equal(t, tt.want, sizes)
		})
	}
}
