package fsxa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maidi29/fsxa-api/caasclient"
	"github.com/maidi29/fsxa-api/content"
	"github.com/maidi29/fsxa-api/ident"
	"github.com/maidi29/fsxa-api/resolver"
)

// Client is the high-level entry point of the SDK. It wires the CaaS
// transport, the content mapper and the reference resolver behind a small
// fetch-and-map API.
//
// A Client is safe for concurrent use: every mapping request constructs its
// own registry, cache and depth counter and discards them when it returns.
type Client struct {
	cfg       *Config
	logger    *slog.Logger
	fetcher   resolver.Fetcher
	resolver  *resolver.Resolver
	transport *caasclient.Client
}

// New creates a Client from the given configuration.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, newError("New", KindConfiguration, ErrInvalidConfig, nil)
	}

	options := &clientConfig{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	remoteProjects := cfg.remoteProjects()
	remoteRefs := cfg.remoteRefs()
	for key, remote := range options.remotes {
		if remoteProjects == nil {
			remoteProjects = make(map[string]ident.RemoteProject)
			remoteRefs = make(map[string]caasclient.ProjectRef)
		}
		remoteProjects[key] = ident.RemoteProject{ID: key, Locale: remote.Locale}
		remoteRefs[key] = caasclient.ProjectRef{Project: remote.Project, APIKey: remote.APIKey}
	}

	var transport *caasclient.Client
	fetcher := options.fetcher
	if fetcher == nil {
		if err := cfg.Validate(); err != nil {
			return nil, newError("New", KindConfiguration, err, nil)
		}

		var cacheOpts *caasclient.CacheOptions
		if cfg.Cache != nil {
			cacheOpts = &caasclient.CacheOptions{URL: cfg.Cache.URL, TTL: cfg.Cache.TTL}
		}

		var err error
		transport, err = caasclient.New(caasclient.Config{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Project:     cfg.Project,
			ContentMode: cfg.ContentMode,
			Remotes:     remoteRefs,
			Cache:       cacheOpts,
			Logger:      options.logger,
		})
		if err != nil {
			return nil, newError("New", KindConfiguration, err, nil)
		}
		fetcher = transport
	} else if cfg.Locale == "" {
		return nil, newError("New", KindConfiguration, fmt.Errorf("%w: locale is required", ErrInvalidConfig), nil)
	}

	maxDepth := resolver.DefaultMaxReferenceDepth
	if cfg.MaxReferenceDepth != nil {
		maxDepth = *cfg.MaxReferenceDepth
	}
	if options.maxDepth != nil {
		maxDepth = *options.maxDepth
	}

	res, err := resolver.New(fetcher, resolver.Config{
		Locale:            cfg.Locale,
		Remotes:           remoteProjects,
		MaxReferenceDepth: maxDepth,
		Custom:            options.custom,
		Logger:            options.logger,
		Tracer:            options.tracer,
		Meter:             options.meter,
	})
	if err != nil {
		return nil, newError("New", KindConfiguration, err, nil)
	}

	return &Client{
		cfg:       cfg,
		logger:    options.logger,
		fetcher:   fetcher,
		resolver:  res,
		transport: transport,
	}, nil
}

// MapBatch maps raw CaaS items the caller already fetched and resolves
// their reference graph.
func (c *Client) MapBatch(ctx context.Context, items []map[string]any) (*resolver.MapResult, error) {
	result, err := c.resolver.MapBatch(ctx, items)
	if err != nil {
		return nil, newError("Client.MapBatch", KindMapping, err, nil)
	}
	return result, nil
}

// FetchElements fetches the given raw identifiers from the store, maps
// them and resolves their reference graph.
func (c *Client) FetchElements(ctx context.Context, ids ...string) (*resolver.MapResult, error) {
	if len(ids) == 0 {
		return nil, newError("Client.FetchElements", KindValidation,
			fmt.Errorf("at least one identifier is required"), nil)
	}

	pageSize := len(ids)
	if pageSize < resolver.DefaultBatchSize {
		pageSize = resolver.DefaultBatchSize
	}

	items, err := c.fetcher.FetchByFilter(ctx, resolver.FetchRequest{
		IDs:      ids,
		Locale:   c.cfg.Locale,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, newError("Client.FetchElements", KindNetwork,
			fmt.Errorf("%w: %w", ErrFetchFailed, err),
			map[string]any{"ids": ids})
	}

	return c.MapBatch(ctx, items)
}

// FetchElement fetches and maps a single element by its raw identifier.
// Returns ErrNotFound when the store has no such element.
func (c *Client) FetchElement(ctx context.Context, id string) (any, *resolver.MapResult, error) {
	result, err := c.FetchElements(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil, newError("Client.FetchElement", KindNotFound, ErrNotFound,
			map[string]any{"id": id})
	}
	return result.Items[0], result, nil
}

// FetchProjectProperties fetches the ProjectSettings singleton by its
// identifier and resolves the global content it references. The convenience
// over FetchElement is the typed result.
func (c *Client) FetchProjectProperties(ctx context.Context, id string) (*content.ProjectProperties, *resolver.MapResult, error) {
	item, result, err := c.FetchElement(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	props, ok := item.(*content.ProjectProperties)
	if !ok {
		return nil, nil, newError("Client.FetchProjectProperties", KindMapping,
			fmt.Errorf("element %q is not project properties", id), nil)
	}
	return props, result, nil
}

// Close releases transport resources, if the client owns any.
func (c *Client) Close() error {
	if c.transport != nil {
		return c.transport.Close()
	}
	return nil
}
