package mapper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maidi29/fsxa-api/content"
	"github.com/maidi29/fsxa-api/refs"
)

func rawPageRef() map[string]any {
	return map[string]any{
		"fsType":     content.FSTypePageRef,
		"identifier": "ref1",
		"url":        "/home/",
		"page": map[string]any{
			"fsType":     content.FSTypePage,
			"identifier": "page1",
			"uid":        "homepage",
			"template":   map[string]any{"uid": "layout.standard"},
			"formData": map[string]any{
				"pt_headline": map[string]any{"fsType": content.FSTypeText, "value": "Welcome"},
				"pt_hero": map[string]any{
					"fsType": content.FSTypeReference,
					"value":  map[string]any{"fsType": "Media", "identifier": "m1"},
				},
			},
			"metaFormData": map[string]any{
				"mt_robots": map[string]any{"fsType": content.FSTypeText, "value": "index"},
			},
			"children": []any{
				map[string]any{
					"fsType":     "Body",
					"name":       "content",
					"identifier": "body1",
					"children": []any{
						map[string]any{
							"fsType":      content.FSTypeSection,
							"identifier":  "sec1",
							"displayName": "Teaser",
							"template":    map[string]any{"uid": "section.teaser"},
							"formData": map[string]any{
								"st_text": map[string]any{"fsType": content.FSTypeText, "value": "Hello"},
							},
						},
					},
				},
			},
		},
	}
}

func TestMapPageRef(t *testing.T) {
	m, registry, _ := newTestMapper(t, nil)

	mapped, err := m.MapItem(context.Background(), rawPageRef(), refs.Path{})
	require.NoError(t, err)

	page, ok := mapped.(*content.Page)
	require.True(t, ok)
	assert.Equal(t, content.TypePage, page.Type)
	assert.Equal(t, "page1", page.ID)
	assert.Equal(t, "ref1", page.RefID)
	assert.Equal(t, "ref1.en_GB", page.PreviewID)
	assert.Equal(t, "ref1", page.EntityID())
	assert.Equal(t, "homepage", page.Name)
	assert.Equal(t, "layout.standard", page.Layout)
	assert.Equal(t, "/home/", page.Route)
	assert.Equal(t, "Welcome", page.Data["pt_headline"])
	assert.Equal(t, "[REFERENCED-ITEM-m1.en_GB]", page.Data["pt_hero"])
	assert.Equal(t, "index", page.Meta["mt_robots"])

	require.Len(t, page.Children, 1)
	body := page.Children[0]
	assert.Equal(t, "content", body.Name)
	assert.Equal(t, "body1.en_GB", body.PreviewID)
	require.Len(t, body.Children, 1)

	section, ok := body.Children[0].(*content.Section)
	require.True(t, ok)
	assert.Equal(t, "sec1", section.ID)
	assert.Equal(t, "section.teaser", section.SectionType)
	assert.Equal(t, "Teaser", section.DisplayName)
	assert.Equal(t, "Hello", section.Data["st_text"])

	paths := registry.Paths(refs.LocalProject, "m1.en_GB")
	require.Len(t, paths, 1)
	assert.Equal(t, "data.pt_hero", paths[0].String())
}

func TestMapBarePage(t *testing.T) {
	m, _, _ := newTestMapper(t, nil)

	raw := map[string]any{
		"fsType":     content.FSTypePage,
		"identifier": "page1",
		"uid":        "homepage",
		"template":   map[string]any{"uid": "layout.standard"},
		"formData": map[string]any{
			"pt_headline": map[string]any{"fsType": content.FSTypeText, "value": "Welcome"},
		},
	}
	mapped, err := m.MapItem(context.Background(), raw, refs.Path{})
	require.NoError(t, err)

	page, ok := mapped.(*content.Page)
	require.True(t, ok)
	// Without a ref wrapper the page addresses itself and carries no route.
	assert.Equal(t, "page1", page.ID)
	assert.Equal(t, "page1", page.RefID)
	assert.Equal(t, "page1.en_GB", page.PreviewID)
	assert.Empty(t, page.Route)
	assert.Equal(t, "layout.standard", page.Layout)
	assert.Equal(t, "Welcome", page.Data["pt_headline"])
}

func TestMapBodyContentUnknownKindFails(t *testing.T) {
	m, _, _ := newTestMapper(t, nil)

	node := map[string]any{"fsType": "Widget", "identifier": "w1"}
	_, err := m.MapBodyContent(context.Background(), node, refs.Path{})
	assert.ErrorIs(t, err, ErrUnknownBodyContent)
}

func TestMapContent2Section(t *testing.T) {
	m, _, _ := newTestMapper(t, nil)

	node := map[string]any{
		"fsType":     content.FSTypeContent2Section,
		"identifier": "sec2",
		"name":       "news_listing",
		"template":   map[string]any{"uid": "schema.news"},
		"formData":   map[string]any{},
	}
	section, err := m.MapContent2Section(context.Background(), node, refs.Path{})
	require.NoError(t, err)
	assert.Equal(t, "sec2", section.ID)
	assert.Equal(t, "schema.news", section.SectionType)
	assert.Equal(t, "news_listing", section.DisplayName)
}

func TestMapMediaPicture(t *testing.T) {
	m, _, _ := newTestMapper(t, nil)

	item := map[string]any{
		"fsType":      content.FSTypeMedia,
		"identifier":  "m1",
		"mediaType":   content.MediaTypePicture,
		"description": "A hero image",
		"resolutionsMetaData": map[string]any{
			"ORIGINAL": map[string]any{"url": "https://cdn/o.jpg", "width": 1920, "height": 1080},
			"hero":     map[string]any{"url": "https://cdn/h.jpg", "width": 800, "height": 400},
		},
	}
	mapped, err := m.MapItem(context.Background(), item, refs.Path{})
	require.NoError(t, err)

	image, ok := mapped.(*content.Image)
	require.True(t, ok)
	assert.Equal(t, "m1", image.ID)
	assert.Equal(t, "m1", image.EntityID())
	assert.Equal(t, "A hero image", image.Description)
	require.Len(t, image.Resolutions, 2)
	assert.Equal(t, "https://cdn/h.jpg", image.Resolutions["hero"].URL)
	assert.Equal(t, 800, image.Resolutions["hero"].Width)
}

func TestMapMediaFile(t *testing.T) {
	m, _, _ := newTestMapper(t, nil)

	item := map[string]any{
		"fsType":     content.FSTypeMedia,
		"identifier": "f1",
		"mediaType":  content.MediaTypeFile,
		"name":       "brochure",
		"fileName":   "brochure.pdf",
		"url":        "https://cdn/brochure.pdf",
		"mimeType":   "application/pdf",
	}
	mapped, err := m.MapItem(context.Background(), item, refs.Path{})
	require.NoError(t, err)

	file, ok := mapped.(*content.File)
	require.True(t, ok)
	assert.Equal(t, "f1", file.ID)
	assert.Equal(t, "brochure.pdf", file.FileName)
	assert.Equal(t, "application/pdf", file.MimeType)
}

func TestMapMediaUnknownTypePassesThrough(t *testing.T) {
	m, _, _ := newTestMapper(t, nil)

	item := map[string]any{
		"fsType":     content.FSTypeMedia,
		"identifier": "v1",
		"mediaType":  "VIDEO",
	}
	mapped, err := m.MapItem(context.Background(), item, refs.Path{})
	require.NoError(t, err)
	assert.Equal(t, item, mapped)
}

func TestMapItemUnknownKindPassesThrough(t *testing.T) {
	m, _, _ := newTestMapper(t, nil)

	item := map[string]any{"fsType": "Audit", "identifier": "a1"}
	mapped, err := m.MapItem(context.Background(), item, refs.Path{})
	require.NoError(t, err)
	assert.Equal(t, item, mapped)
}

func TestMapDataset(t *testing.T) {
	m, _, _ := newTestMapper(t, nil)

	item := map[string]any{
		"fsType":     content.FSTypeDataset,
		"identifier": "d1",
		"schema":     "news",
		"entityType": "article",
		"template":   map[string]any{"uid": "news.detail"},
		"route":      "/news/article-1/",
		"formData": map[string]any{
			"tt_title": map[string]any{"fsType": content.FSTypeText, "value": "Article"},
		},
	}
	mapped, err := m.MapItem(context.Background(), item, refs.Path{})
	require.NoError(t, err)

	dataset, ok := mapped.(*content.Dataset)
	require.True(t, ok)
	assert.Equal(t, "d1", dataset.ID)
	assert.Equal(t, "news", dataset.SchemaID)
	assert.Equal(t, "article", dataset.DatasetType)
	assert.Equal(t, content.TypeDataset, dataset.EntityType())
	assert.Equal(t, "news.detail", dataset.Template)
	assert.Equal(t, "/news/article-1/", dataset.Route)
	assert.Equal(t, "Article", dataset.Data["tt_title"])
}

func TestMapProjectProperties(t *testing.T) {
	m, _, _ := newTestMapper(t, nil)

	item := map[string]any{
		"fsType":     content.FSTypeProjectProperties,
		"identifier": "pp1",
		"name":       "GLOBAL_SETTINGS",
		"template":   map[string]any{"uid": "project_settings"},
		"formData": map[string]any{
			"ps_logo": map[string]any{
				"fsType": content.FSTypeReference,
				"value":  map[string]any{"fsType": "Media", "identifier": "logo1"},
			},
		},
	}
	mapped, err := m.MapItem(context.Background(), item, refs.Path{})
	require.NoError(t, err)

	props, ok := mapped.(*content.ProjectProperties)
	require.True(t, ok)
	assert.Equal(t, "pp1", props.ID)
	assert.Equal(t, "GLOBAL_SETTINGS", props.Name)
	assert.Equal(t, "project_settings", props.Layout)
	assert.Equal(t, "[REFERENCED-ITEM-logo1.en_GB]", props.Data["ps_logo"])
}
