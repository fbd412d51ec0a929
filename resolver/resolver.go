// Package resolver drives reference resolution to a fixed point.
//
// One call to Resolver.MapBatch handles one top-level mapping request: it
// maps the initial raw items, seeds the resolved-entity cache with them,
// then runs batched, deduplicated fetch rounds until every reachable
// reference is resolved or the depth budget is exhausted. All state
// (registry, cache, depth counter) lives and dies with the call.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/maidi29/fsxa-api/content"
	"github.com/maidi29/fsxa-api/ident"
	"github.com/maidi29/fsxa-api/mapper"
	"github.com/maidi29/fsxa-api/refs"
)

const (
	// DefaultMaxReferenceDepth bounds the number of fetch rounds per
	// top-level request.
	DefaultMaxReferenceDepth = 10

	// DefaultBatchSize is the number of identifiers per fetch call.
	DefaultBatchSize = 30
)

// ErrNilFetcher is returned by New when no fetcher is supplied.
var ErrNilFetcher = errors.New("resolver: fetcher must not be nil")

// Config carries the parameters shared by all requests of a Resolver.
type Config struct {
	// Locale is the active request locale, e.g. "en_GB".
	Locale string

	// Remotes maps remote project keys to their configuration.
	Remotes map[string]ident.RemoteProject

	// MaxReferenceDepth bounds fetch rounds per request. Zero disables
	// resolution entirely; negative values select the default.
	MaxReferenceDepth int

	// BatchSize is the number of identifiers per fetch call. Values < 1
	// select the default.
	BatchSize int

	// Custom optionally intercepts data entries before built-in mapping.
	Custom mapper.CustomMapper

	// Logger receives structured diagnostics. Defaults to slog.Default.
	Logger *slog.Logger

	// Tracer records one span per request and per resolution round.
	// Defaults to a noop tracer.
	Tracer trace.Tracer

	// Meter records fetch-batch and resolved-entity counters. Defaults to
	// a noop meter.
	Meter metric.Meter
}

// MapResult is the output of one top-level mapping request, handed to the
// external denormalizer.
type MapResult struct {
	// Items are the mapped top-level entities in input order. Unresolved
	// placeholders survive inside them where the depth budget ran out.
	Items []any

	// ResolvedReferences is the full canonical id → entity cache.
	ResolvedReferences map[string]content.Entity

	// ReferenceMap records every tree location each identifier was
	// referenced from, merged across all projects.
	ReferenceMap map[string][]refs.Path
}

// Resolver schedules batched reference fetches and assembles mapping
// results. It is stateless across requests and safe for concurrent use.
type Resolver struct {
	fetcher  Fetcher
	cfg      Config
	logger   *slog.Logger
	tracer   trace.Tracer
	batches  metric.Int64Counter
	resolved metric.Int64Counter
}

// New creates a Resolver around the given fetch collaborator.
func New(fetcher Fetcher, cfg Config) (*Resolver, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracenoop.NewTracerProvider().Tracer("fsxa-resolver")
	}
	if cfg.Meter == nil {
		cfg.Meter = metricnoop.NewMeterProvider().Meter("fsxa-resolver")
	}
	if cfg.MaxReferenceDepth < 0 {
		cfg.MaxReferenceDepth = DefaultMaxReferenceDepth
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}

	batches, err := cfg.Meter.Int64Counter("fsxa.resolver.fetch_batches",
		metric.WithDescription("Number of batched reference fetches issued"))
	if err != nil {
		return nil, fmt.Errorf("failed to create batch counter: %w", err)
	}
	resolved, err := cfg.Meter.Int64Counter("fsxa.resolver.resolved_entities",
		metric.WithDescription("Number of referenced entities resolved into the cache"))
	if err != nil {
		return nil, fmt.Errorf("failed to create resolved counter: %w", err)
	}

	return &Resolver{
		fetcher:  fetcher,
		cfg:      cfg,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
		batches:  batches,
		resolved: resolved,
	}, nil
}

// request bundles the per-request state threaded through one MapBatch call.
type request struct {
	id       string
	logger   *slog.Logger
	registry *refs.Registry
	cache    *refs.Cache
	mapper   *mapper.Mapper
	depth    int

	// attempted records identifiers a fetch already covered. An id the
	// store did not answer (or answered with an uncacheable kind) would
	// otherwise stay pending and cost an identical fetch every round.
	mu        sync.Mutex
	attempted map[string]struct{}
}

func (req *request) markAttempted(ids []string) {
	req.mu.Lock()
	defer req.mu.Unlock()
	for _, id := range ids {
		req.attempted[id] = struct{}{}
	}
}

func (req *request) wasAttempted(id string) bool {
	req.mu.Lock()
	defer req.mu.Unlock()
	_, ok := req.attempted[id]
	return ok
}

// MapBatch maps the given raw top-level items and resolves their reference
// graph. Items of unrecognized kinds are logged and passed through
// unmapped. A failed batch fetch surfaces as the call's error; resolution
// correctness cannot be guaranteed after a lost batch.
func (r *Resolver) MapBatch(ctx context.Context, items []map[string]any) (*MapResult, error) {
	requestID := uuid.New().String()
	ctx, span := r.tracer.Start(ctx, "resolver.MapBatch", trace.WithAttributes(
		attribute.String("request_id", requestID),
		attribute.Int("items", len(items)),
	))
	defer span.End()

	req := &request{
		id:        requestID,
		logger:    r.logger.With(slog.String("request_id", requestID)),
		registry:  refs.NewRegistry(),
		cache:     refs.NewCache(),
		attempted: make(map[string]struct{}),
	}
	req.mapper = mapper.New(mapper.Config{
		Locale:  r.cfg.Locale,
		Remotes: r.cfg.Remotes,
		Custom:  r.cfg.Custom,
		Logger:  req.logger,
	}, req.registry, req.cache)

	mapped, err := r.mapInitialItems(ctx, req, items)
	if err != nil {
		return nil, err
	}

	// Seed the cache so a reference back at a top-level item never
	// schedules a fetch.
	for _, item := range mapped {
		if entity, ok := item.(content.Entity); ok {
			req.cache.Put(ident.Unify(entity.EntityID(), r.cfg.Locale, nil), entity)
		}
	}

	if err := r.resolveAllReferences(ctx, req); err != nil {
		return nil, err
	}

	// A top-level item may also be someone else's reference target and got
	// enriched during resolution; prefer the cached version.
	for i, item := range mapped {
		entity, ok := item.(content.Entity)
		if !ok {
			continue
		}
		if cached, ok := req.cache.Get(ident.Unify(entity.EntityID(), r.cfg.Locale, nil)); ok {
			mapped[i] = cached
		}
	}

	return &MapResult{
		Items:              mapped,
		ResolvedReferences: req.cache.Snapshot(),
		ReferenceMap:       req.registry.Merged(),
	}, nil
}

// mapInitialItems maps the caller's raw batch concurrently, preserving
// input order.
func (r *Resolver) mapInitialItems(ctx context.Context, req *request, items []map[string]any) ([]any, error) {
	mapped := make([]any, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item map[string]any) {
			defer wg.Done()
			mapped[i], errs[i] = req.mapper.MapItem(ctx, item, refs.Path{refs.Index(i)})
		}(i, item)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to map initial batch: %w", err)
	}
	return mapped, nil
}

// resolveAllReferences runs fetch rounds until nothing is pending or the
// depth budget is exhausted. Each round covers the registry state as
// snapshotted at its start; entities mapped during a round may register
// further references, picked up by the next round.
func (r *Resolver) resolveAllReferences(ctx context.Context, req *request) error {
	for {
		pending := r.pendingBatches(req)
		if len(pending) == 0 {
			return nil
		}
		if req.depth >= r.cfg.MaxReferenceDepth {
			total := 0
			for _, ids := range pending {
				total += len(ids)
			}
			req.logger.Warn("max reference depth reached, leaving references unresolved",
				slog.Int("maxReferenceDepth", r.cfg.MaxReferenceDepth),
				slog.Int("unresolved", total),
			)
			return nil
		}
		req.depth++

		if err := r.resolveRound(ctx, req, pending); err != nil {
			return err
		}
	}
}

// batchKey addresses one fetchable group of pending identifiers. Ids in
// the same project can carry different locale suffixes, and each locale
// needs its own fetch for the cache key to reproduce the registered key.
type batchKey struct {
	project string
	locale  string
}

// pendingBatches computes registry − cache, bucketed per project and per
// canonical locale. Already-attempted identifiers are skipped.
func (r *Resolver) pendingBatches(req *request) map[batchKey][]string {
	pending := make(map[batchKey][]string)
	for _, project := range req.registry.Projects() {
		for _, id := range req.registry.IDs(project) {
			if req.cache.Has(id) || req.wasAttempted(id) {
				continue
			}
			_, _, locale := ident.Split(id)
			if locale == "" {
				locale = r.cfg.Locale
			}
			key := batchKey{project: project, locale: locale}
			pending[key] = append(pending[key], id)
		}
	}
	return pending
}

// resolveRound fetches and maps all pending identifiers, fanning out per
// group and per batch. All batches run to completion before errors are
// joined, so one failed batch does not cancel its siblings, but any failure
// fails the round.
func (r *Resolver) resolveRound(ctx context.Context, req *request, pending map[batchKey][]string) error {
	ctx, span := r.tracer.Start(ctx, "resolver.round", trace.WithAttributes(
		attribute.Int("depth", req.depth),
	))
	defer span.End()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for key, ids := range pending {
		for _, batch := range chunk(ids, r.cfg.BatchSize) {
			wg.Add(1)
			go func(key batchKey, batch []string) {
				defer wg.Done()
				if err := r.resolveBatch(ctx, req, key, batch); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}(key, batch)
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

// resolveBatch fetches one identifier batch in the group's locale and feeds
// the results back through the mapper into the cache. Fetched entities are
// cached under the same locale, so the key always matches the registered one.
func (r *Resolver) resolveBatch(ctx context.Context, req *request, key batchKey, canonicalIDs []string) error {
	var remote *ident.RemoteProject
	if key.project != refs.LocalProject {
		cfg, ok := r.cfg.Remotes[key.project]
		if !ok {
			// Registration only creates remote buckets for configured
			// projects, so this indicates config mutation mid-request.
			return fmt.Errorf("no configuration for remote project %q", key.project)
		}
		remote = &cfg
	}

	rawIDs := make([]string, len(canonicalIDs))
	for i, id := range canonicalIDs {
		rawIDs[i] = ident.UUID(id)
	}

	r.batches.Add(ctx, 1, metric.WithAttributes(attribute.String("project", key.project)))

	items, err := r.fetcher.FetchByFilter(ctx, FetchRequest{
		IDs:           rawIDs,
		Locale:        key.locale,
		RemoteProject: key.project,
		PageSize:      r.cfg.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch reference batch for project %q: %w", key.project, err)
	}

	for _, item := range items {
		mapped, err := req.mapper.MapItem(ctx, item, refs.Path{})
		if err != nil {
			return err
		}
		entity, ok := mapped.(content.Entity)
		if !ok {
			req.logger.Info("fetched reference of unknown kind not cached",
				slog.String("fsType", content.FSType(item)),
				slog.String("project", key.project),
			)
			continue
		}
		req.cache.Put(ident.Unify(entity.EntityID(), key.locale, remote), entity)
		r.resolved.Add(ctx, 1, metric.WithAttributes(attribute.String("project", key.project)))
	}

	req.markAttempted(canonicalIDs)
	return nil
}

// chunk splits ids into slices of at most size elements, preserving order.
func chunk(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
