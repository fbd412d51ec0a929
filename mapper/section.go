package mapper

import (
	"context"
	"fmt"

	"github.com/maidi29/fsxa-api/content"
	"github.com/maidi29/fsxa-api/ident"
	"github.com/maidi29/fsxa-api/refs"
)

// MapBody maps one named page body and its section children.
func (m *Mapper) MapBody(ctx context.Context, body content.BodyItem, path refs.Path) (content.PageBody, error) {
	children := make([]any, 0, len(body.Children))
	for i, child := range body.Children {
		mapped, err := m.MapBodyContent(ctx, child, path.Child(refs.Key("children"), refs.Index(i)))
		if err != nil {
			return content.PageBody{}, err
		}
		children = append(children, mapped)
	}

	return content.PageBody{
		Name:      body.Name,
		PreviewID: ident.PreviewID(body.Identifier, m.locale),
		Children:  children,
	}, nil
}

// MapBodyContent maps one section node of a page body. Unlike data entries,
// an unrecognized kind here is fatal: page structure must be fully
// understood to render.
func (m *Mapper) MapBodyContent(ctx context.Context, node map[string]any, path refs.Path) (any, error) {
	switch t := content.FSType(node); t {
	case content.FSTypeSection, content.FSTypeSectionReference:
		return m.MapSection(ctx, node, path)
	case content.FSTypeContent2Section:
		return m.MapContent2Section(ctx, node, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBodyContent, t)
	}
}

// MapSection maps a Section or SectionReference node.
func (m *Mapper) MapSection(ctx context.Context, node map[string]any, path refs.Path) (*content.Section, error) {
	section, err := content.Decode[content.SectionItem](node)
	if err != nil {
		return nil, fmt.Errorf("failed to decode section: %w", err)
	}

	data, err := m.MapDataEntries(ctx, section.FormData, path.Child(refs.Key("data")))
	if err != nil {
		return nil, err
	}

	return &content.Section{
		Type:        content.TypeSection,
		ID:          section.Identifier,
		PreviewID:   ident.PreviewID(section.Identifier, m.locale),
		SectionType: section.Template.UID,
		DisplayName: section.DisplayName,
		Data:        data,
	}, nil
}

// MapContent2Section maps a Content2Section node, a section whose content
// comes from a dataset schema.
func (m *Mapper) MapContent2Section(ctx context.Context, node map[string]any, path refs.Path) (*content.Section, error) {
	section, err := content.Decode[content.SectionItem](node)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content2section: %w", err)
	}

	data, err := m.MapDataEntries(ctx, section.FormData, path.Child(refs.Key("data")))
	if err != nil {
		return nil, err
	}

	return &content.Section{
		Type:        content.TypeSection,
		ID:          section.Identifier,
		PreviewID:   ident.PreviewID(section.Identifier, m.locale),
		SectionType: section.Template.UID,
		DisplayName: section.Name,
		Data:        data,
	}, nil
}
