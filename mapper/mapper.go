// Package mapper transforms raw CaaS content trees into application-facing
// entities.
//
// The mapper walks one polymorphic raw node at a time, dispatching on its
// fsType tag. Composite structures recurse; leaf reference fields do not.
// A reference is registered with the request's reference registry and
// replaced by a placeholder token, leaving the actual fetch to the
// resolution scheduler. Unknown data-entry kinds pass through unchanged so
// newer store schemas keep working; unknown page-body kinds are
// data-integrity errors because page structure must be fully understood.
//
// A Mapper instance is scoped to one top-level mapping request and shares
// that request's registry and cache. It is safe for concurrent use: the
// registry and cache serialize their own writes and all other state is
// read-only after construction.
package mapper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maidi29/fsxa-api/content"
	"github.com/maidi29/fsxa-api/ident"
	"github.com/maidi29/fsxa-api/refs"
)

// Sentinel errors for data-integrity failures during mapping.
var (
	// ErrMalformedImageMap is returned when a CMS_INPUT_IMAGEMAP entry has
	// no value payload. An image map without geometry and media is unusable.
	ErrMalformedImageMap = errors.New("mapper: image map entry has no value")

	// ErrUnknownBodyContent is returned when a page body contains a content
	// kind the mapper does not understand.
	ErrUnknownBodyContent = errors.New("mapper: unknown body content kind")
)

// CustomMapper intercepts a raw data entry before built-in dispatch. When
// handled is true the returned value is used verbatim and built-in mapping
// is skipped for that node.
type CustomMapper func(ctx context.Context, entry map[string]any, path refs.Path) (value any, handled bool, err error)

// Config carries the request-independent parameters of a Mapper.
type Config struct {
	// Locale is the active request locale, e.g. "en_GB".
	Locale string

	// Remotes maps remote project keys to their configuration.
	Remotes map[string]ident.RemoteProject

	// Custom optionally intercepts data entries before built-in dispatch.
	Custom CustomMapper

	// Logger receives structured mapping diagnostics. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// Mapper converts raw CaaS items into mapped entities, registering every
// encountered reference with the request's registry.
type Mapper struct {
	locale   string
	remotes  map[string]ident.RemoteProject
	custom   CustomMapper
	logger   *slog.Logger
	registry *refs.Registry
	cache    *refs.Cache
}

// New creates a mapper bound to one request's registry and cache.
func New(cfg Config, registry *refs.Registry, cache *refs.Cache) *Mapper {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{
		locale:   cfg.Locale,
		remotes:  cfg.Remotes,
		custom:   cfg.Custom,
		logger:   logger,
		registry: registry,
		cache:    cache,
	}
}

// Locale returns the active request locale.
func (m *Mapper) Locale() string { return m.locale }

// Remote looks up a configured remote project.
func (m *Mapper) Remote(id string) (ident.RemoteProject, bool) {
	cfg, ok := m.remotes[id]
	return cfg, ok
}

// Register records a reference to rawID found at path and returns the
// placeholder token to substitute at that location.
//
// When remoteProjectID names a project with no configuration, the reference
// degrades to a local one: logged, never fatal. Registering the same
// identifier from several paths is idempotent with respect to fetching;
// every path is recorded for downstream denormalization.
func (m *Mapper) Register(rawID string, path refs.Path, remoteProjectID, imageMapResolution string) string {
	var remote *ident.RemoteProject
	bucket := refs.LocalProject

	if remoteProjectID != "" {
		cfg, ok := m.remotes[remoteProjectID]
		if ok {
			remote = &cfg
			bucket = remoteProjectID
		} else {
			m.logger.Warn("no configuration for remote project, treating reference as local",
				slog.String("remoteProject", remoteProjectID),
				slog.String("identifier", rawID),
			)
		}
	}

	canonical := ident.Unify(rawID, m.locale, remote)
	m.registry.Add(bucket, canonical, path)

	if imageMapResolution != "" {
		return refs.ImageMapPlaceholder(imageMapResolution, canonical)
	}
	if remote != nil {
		return refs.RemotePlaceholder(canonical)
	}
	return refs.Placeholder(canonical)
}

// MapItem maps one raw top-level item by its kind. Items of unrecognized
// kinds are logged and returned unchanged, never dropped.
func (m *Mapper) MapItem(ctx context.Context, item map[string]any, path refs.Path) (any, error) {
	switch t := content.FSType(item); t {
	case content.FSTypePageRef:
		return m.MapPageRef(ctx, item, path)
	case content.FSTypePage:
		return m.MapPage(ctx, item, path)
	case content.FSTypeGCAPage:
		return m.MapGCAPage(ctx, item, path)
	case content.FSTypeDataset:
		return m.MapDataset(ctx, item, path)
	case content.FSTypeMedia:
		return m.MapMedia(ctx, item, path)
	case content.FSTypeProjectProperties:
		return m.MapProjectProperties(ctx, item, path)
	default:
		m.logger.Info("could not map item of unknown kind, passing through",
			slog.String("fsType", t),
		)
		return item, nil
	}
}

// MapPageRef maps a page-ref item into a Page. The page's addressable id is
// the page-ref identifier; the inner content id is kept separately.
func (m *Mapper) MapPageRef(ctx context.Context, item map[string]any, path refs.Path) (*content.Page, error) {
	ref, err := content.Decode[content.PageRefItem](item)
	if err != nil {
		return nil, fmt.Errorf("failed to decode page ref: %w", err)
	}
	return m.mapPageItem(ctx, ref.Page, ref.Identifier, ref.URL, path)
}

// MapPage maps a bare page item, as served when a page is fetched by its
// content id without its ref wrapper. The page addresses itself: there is no
// separate ref identifier and no route.
func (m *Mapper) MapPage(ctx context.Context, item map[string]any, path refs.Path) (*content.Page, error) {
	page, err := content.Decode[content.PageItem](item)
	if err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return m.mapPageItem(ctx, *page, page.Identifier, "", path)
}

func (m *Mapper) mapPageItem(ctx context.Context, page content.PageItem, refID, route string, path refs.Path) (*content.Page, error) {
	data, err := m.MapDataEntries(ctx, page.FormData, path.Child(refs.Key("data")))
	if err != nil {
		return nil, err
	}
	meta, err := m.MapDataEntries(ctx, page.MetaFormData, path.Child(refs.Key("meta")))
	if err != nil {
		return nil, err
	}

	children := make([]content.PageBody, 0, len(page.Children))
	for i, body := range page.Children {
		mapped, err := m.MapBody(ctx, body, path.Child(refs.Key("children"), refs.Index(i)))
		if err != nil {
			return nil, err
		}
		children = append(children, mapped)
	}

	return &content.Page{
		Type:      content.TypePage,
		ID:        page.Identifier,
		RefID:     refID,
		PreviewID: ident.PreviewID(refID, m.locale),
		Name:      page.UID,
		Layout:    page.Template.UID,
		Route:     route,
		Children:  children,
		Data:      data,
		Meta:      meta,
	}, nil
}

// MapGCAPage maps a global-content-area page.
func (m *Mapper) MapGCAPage(ctx context.Context, item map[string]any, path refs.Path) (*content.GCAPage, error) {
	page, err := content.Decode[content.GCAPageItem](item)
	if err != nil {
		return nil, fmt.Errorf("failed to decode GCA page: %w", err)
	}

	data, err := m.MapDataEntries(ctx, page.FormData, path.Child(refs.Key("data")))
	if err != nil {
		return nil, err
	}
	meta, err := m.MapDataEntries(ctx, page.MetaFormData, path.Child(refs.Key("meta")))
	if err != nil {
		return nil, err
	}

	children := make([]content.PageBody, 0, len(page.Children))
	for i, body := range page.Children {
		mapped, err := m.MapBody(ctx, body, path.Child(refs.Key("children"), refs.Index(i)))
		if err != nil {
			return nil, err
		}
		children = append(children, mapped)
	}

	name := page.Name
	if name == "" {
		name = page.UID
	}

	return &content.GCAPage{
		Type:      content.TypeGCAPage,
		ID:        page.Identifier,
		PreviewID: ident.PreviewID(page.Identifier, m.locale),
		Name:      name,
		Layout:    page.Template.UID,
		Children:  children,
		Data:      data,
		Meta:      meta,
	}, nil
}

// MapDataset maps a dataset row.
func (m *Mapper) MapDataset(ctx context.Context, item map[string]any, path refs.Path) (*content.Dataset, error) {
	ds, err := content.Decode[content.DatasetItem](item)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	data, err := m.MapDataEntries(ctx, ds.FormData, path.Child(refs.Key("data")))
	if err != nil {
		return nil, err
	}

	return &content.Dataset{
		Type:        content.TypeDataset,
		ID:          ds.Identifier,
		PreviewID:   ident.PreviewID(ds.Identifier, m.locale),
		SchemaID:    ds.Schema,
		DatasetType: ds.EntityType,
		Template:    ds.Template.UID,
		Route:       ds.Route,
		Data:        data,
	}, nil
}

// MapMedia maps a media asset: pictures become Images with their rendition
// table, files become Files. Assets of unknown media type pass through with
// a warning.
func (m *Mapper) MapMedia(ctx context.Context, item map[string]any, path refs.Path) (any, error) {
	media, err := content.Decode[content.MediaItem](item)
	if err != nil {
		return nil, fmt.Errorf("failed to decode media: %w", err)
	}

	meta, err := m.MapDataEntries(ctx, media.MetaFormData, path.Child(refs.Key("meta")))
	if err != nil {
		return nil, err
	}

	switch media.MediaType {
	case content.MediaTypePicture:
		return &content.Image{
			Type:        content.TypeImage,
			ID:          media.Identifier,
			PreviewID:   ident.PreviewID(media.Identifier, m.locale),
			Description: media.Description,
			Resolutions: media.Resolutions,
			Meta:        meta,
		}, nil
	case content.MediaTypeFile:
		return &content.File{
			Type:      content.TypeFile,
			ID:        media.Identifier,
			PreviewID: ident.PreviewID(media.Identifier, m.locale),
			Name:      media.Name,
			FileName:  media.FileName,
			URL:       media.URL,
			MimeType:  media.MimeType,
			Meta:      meta,
		}, nil
	default:
		m.logger.Warn("unknown media type, passing item through",
			slog.String("mediaType", media.MediaType),
			slog.String("identifier", media.Identifier),
		)
		return item, nil
	}
}

// MapProjectProperties maps the ProjectSettings singleton.
func (m *Mapper) MapProjectProperties(ctx context.Context, item map[string]any, path refs.Path) (*content.ProjectProperties, error) {
	props, err := content.Decode[content.ProjectPropertiesItem](item)
	if err != nil {
		return nil, fmt.Errorf("failed to decode project properties: %w", err)
	}

	data, err := m.MapDataEntries(ctx, props.FormData, path.Child(refs.Key("data")))
	if err != nil {
		return nil, err
	}
	meta, err := m.MapDataEntries(ctx, props.MetaFormData, path.Child(refs.Key("meta")))
	if err != nil {
		return nil, err
	}

	return &content.ProjectProperties{
		Type:      content.TypeProjectProperties,
		ID:        props.Identifier,
		PreviewID: ident.PreviewID(props.Identifier, m.locale),
		Name:      props.Name,
		Layout:    props.Template.UID,
		Data:      data,
		Meta:      meta,
	}, nil
}
