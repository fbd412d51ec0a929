// Package caasclient implements the content-store fetch collaborator over
// the CaaS REST API.
//
// The client issues filter queries of the form
//
//	{"identifier": {"$in": [...]}}
//
// against a project collection and returns the embedded documents as raw
// items for the mapper. An optional Redis layer caches raw responses across
// requests; the request-scoped resolution state upstream is unaffected by
// it, repeated top-level calls just skip the store round trip.
package caasclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/maidi29/fsxa-api/resolver"
)

// Content modes of a CaaS project collection.
const (
	ModePreview = "preview"
	ModeRelease = "release"
)

// Sentinel errors returned by the client.
var (
	// ErrMissingBaseURL is returned when no endpoint is configured.
	ErrMissingBaseURL = errors.New("caasclient: base URL must not be empty")

	// ErrMissingProject is returned when no project collection is
	// configured.
	ErrMissingProject = errors.New("caasclient: project must not be empty")
)

// ProjectRef addresses a remote project's collection, with an optional
// dedicated API key.
type ProjectRef struct {
	// Project is the store-side project id of the remote project.
	Project string `json:"project" yaml:"project"`

	// APIKey overrides the client's key for this project when set.
	APIKey string `json:"apikey,omitempty" yaml:"apikey,omitempty"`
}

// Config configures the CaaS client.
type Config struct {
	// BaseURL is the CaaS tenant endpoint, e.g. "https://caas.example.com".
	BaseURL string

	// APIKey authorizes requests; sent as a Bearer token.
	APIKey string

	// Project is the store-side id of the client's own project.
	Project string

	// ContentMode selects the preview or release collection. Defaults to
	// ModeRelease.
	ContentMode string

	// Remotes maps remote project keys to their store addresses. A fetch
	// scoped to an unknown remote key fails.
	Remotes map[string]ProjectRef

	// Timeout caps each HTTP call. Defaults to 30s.
	Timeout time.Duration

	// Cache optionally enables the Redis response cache.
	Cache *CacheOptions

	// Logger receives structured transport diagnostics. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// Client fetches raw CaaS items by identifier filter. It implements
// resolver.Fetcher.
type Client struct {
	http    *resty.Client
	project string
	mode    string
	apiKey  string
	remotes map[string]ProjectRef
	cache   *responseCache
	logger  *slog.Logger
}

// fetchEnvelope is the CaaS collection response shape.
type fetchEnvelope struct {
	Embedded struct {
		Docs []map[string]any `json:"rh:doc"`
	} `json:"_embedded"`
}

// New creates a CaaS client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.Project == "" {
		return nil, ErrMissingProject
	}
	if cfg.ContentMode == "" {
		cfg.ContentMode = ModeRelease
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	var cache *responseCache
	if cfg.Cache != nil {
		var err error
		cache, err = newResponseCache(*cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize response cache: %w", err)
		}
	}

	return &Client{
		http:    http,
		project: cfg.Project,
		mode:    cfg.ContentMode,
		apiKey:  cfg.APIKey,
		remotes: cfg.Remotes,
		cache:   cache,
		logger:  cfg.Logger,
	}, nil
}

// FetchByFilter returns all entities of the scoped project whose raw
// identifier is in req.IDs. Non-2xx responses surface as errors; the
// resolution engine treats a lost batch as a failed request.
func (c *Client) FetchByFilter(ctx context.Context, req resolver.FetchRequest) ([]map[string]any, error) {
	project, apiKey := c.project, c.apiKey
	if req.RemoteProject != "" {
		remote, ok := c.remotes[req.RemoteProject]
		if !ok {
			return nil, fmt.Errorf("caasclient: no endpoint configured for remote project %q", req.RemoteProject)
		}
		project = remote.Project
		if remote.APIKey != "" {
			apiKey = remote.APIKey
		}
	}

	if c.cache != nil {
		if items, ok := c.cache.get(ctx, project, req); ok {
			c.logger.Debug("serving fetch from response cache",
				slog.String("project", project),
				slog.Int("ids", len(req.IDs)),
			)
			return items, nil
		}
	}

	filter, err := json.Marshal(map[string]any{
		"identifier": map[string]any{"$in": req.IDs},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build identifier filter: %w", err)
	}

	var envelope fetchEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetQueryParam("filter", string(filter)).
		SetQueryParam("locale", req.Locale).
		SetQueryParam("pagesize", strconv.Itoa(req.PageSize)).
		SetResult(&envelope).
		Get(fmt.Sprintf("/%s/%s.content", project, c.mode))
	if err != nil {
		return nil, fmt.Errorf("caasclient: fetch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("caasclient: fetch returned %d: %s", resp.StatusCode(), resp.String())
	}

	items := envelope.Embedded.Docs
	if c.cache != nil {
		c.cache.put(ctx, project, req, items)
	}
	return items, nil
}

// Close releases the response cache connection, if any.
func (c *Client) Close() error {
	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}
