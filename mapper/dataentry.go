package mapper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maidi29/fsxa-api/content"
	"github.com/maidi29/fsxa-api/ident"
	"github.com/maidi29/fsxa-api/refs"
	"github.com/maidi29/fsxa-api/richtext"
)

// MapDataEntries maps a form-data object entry by entry. Entries that are
// not objects (plain scalars) pass through unchanged.
func (m *Mapper) MapDataEntries(ctx context.Context, formData map[string]any, path refs.Path) (content.DataValues, error) {
	if len(formData) == 0 {
		return nil, nil
	}

	data := make(content.DataValues, len(formData))
	for key, raw := range formData {
		mapped, err := m.MapDataEntry(ctx, raw, path.Child(refs.Key(key)))
		if err != nil {
			return nil, fmt.Errorf("failed to map entry %q: %w", key, err)
		}
		data[key] = mapped
	}
	return data, nil
}

// MapDataEntry maps one data entry by its fsType. The custom hook, when
// configured, sees the entry first; a handled result short-circuits
// built-in dispatch. Unknown kinds pass through unchanged, which is the
// forward-compatibility contract with store schema additions.
func (m *Mapper) MapDataEntry(ctx context.Context, raw any, path refs.Path) (any, error) {
	entry, ok := raw.(map[string]any)
	if !ok {
		return raw, nil
	}

	if m.custom != nil {
		value, handled, err := m.custom(ctx, entry, path)
		if err != nil {
			return nil, fmt.Errorf("custom mapper failed: %w", err)
		}
		if handled {
			return value, nil
		}
	}

	switch t := content.FSType(entry); t {
	case content.FSTypeCombobox, content.FSTypeOption:
		return m.mapOption(entry)
	case content.FSTypeDOM, content.FSTypeDOMTable:
		return m.mapRichText(ctx, entry, path)
	case content.FSTypeNumber, content.FSTypeText, content.FSTypeTextArea,
		content.FSTypeRadioButton, content.FSTypeToggle:
		return entry["value"], nil
	case content.FSTypeDate:
		return m.mapDate(entry)
	case content.FSTypeLink:
		return m.mapLink(ctx, entry, path)
	case content.FSTypeList:
		return m.mapList(ctx, entry, path)
	case content.FSTypeCheckbox:
		return m.mapCheckbox(entry)
	case content.FSTypeImageMap:
		return m.mapImageMap(ctx, entry, path)
	case content.FSTypePermission:
		return m.mapPermission(entry)
	case content.FSTypeDatasetRef:
		return m.mapDatasetReference(entry, path)
	case content.FSTypeReference:
		return m.mapReference(entry, path)
	case content.FSTypeCatalog:
		return m.mapCatalog(ctx, entry, path)
	case content.FSTypeIndex:
		return m.mapIndex(entry, path)
	default:
		m.logger.Debug("unknown data entry kind, passing through",
			slog.String("fsType", t),
			slog.String("path", path.String()),
		)
		return entry, nil
	}
}

// mapOption maps a combobox value or a bare Option node. A missing value
// maps to nil, matching an empty selection.
func (m *Mapper) mapOption(entry map[string]any) (any, error) {
	value := entry
	if v, ok := entry["value"].(map[string]any); ok {
		value = v
	} else if _, present := entry["value"]; present && entry["value"] == nil {
		return nil, nil
	}
	key, _ := value["identifier"].(string)
	label, _ := value["label"].(string)
	if key == "" && label == "" {
		return nil, nil
	}
	return &content.Option{Type: content.TypeOption, Key: key, Value: label}, nil
}

// mapRichText parses the markup value and rewrites embedded link nodes
// through the standard data-entry path, so their targets register like any
// other reference.
func (m *Mapper) mapRichText(ctx context.Context, entry map[string]any, path refs.Path) (any, error) {
	markup, _ := entry["value"].(string)
	if markup == "" {
		return []richtext.Element{}, nil
	}

	elements, err := richtext.Parse(markup)
	if err != nil {
		return nil, err
	}
	return m.mapRichTextElements(ctx, elements, path)
}

// mapRichTextElements returns a new tree with every link node's form data
// mapped. The input tree is never mutated, so concurrent sibling traversal
// stays safe.
func (m *Mapper) mapRichTextElements(ctx context.Context, elements []richtext.Element, path refs.Path) ([]richtext.Element, error) {
	out := make([]richtext.Element, len(elements))
	for i, el := range elements {
		mapped := el
		elPath := path.Child(refs.Index(i))

		if el.Type == richtext.TypeLink {
			data := make(map[string]any, len(el.Data))
			for k, v := range el.Data {
				data[k] = v
			}
			if fields, ok := data["data"].(map[string]any); ok {
				mappedFields, err := m.MapDataEntries(ctx, fields, elPath.Child(refs.Key("data")))
				if err != nil {
					return nil, err
				}
				data["data"] = mappedFields
			}
			mapped.Data = data
		}

		if children, ok := el.Content.([]richtext.Element); ok {
			mappedChildren, err := m.mapRichTextElements(ctx, children, elPath.Child(refs.Key("content")))
			if err != nil {
				return nil, err
			}
			mapped.Content = mappedChildren
		}
		out[i] = mapped
	}
	return out, nil
}

// mapDate parses an ISO date value. Unparseable values pass through so a
// schema drift never drops data.
func (m *Mapper) mapDate(entry map[string]any) (any, error) {
	value, ok := entry["value"].(string)
	if !ok || value == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		m.logger.Debug("unparseable date value, passing through", slog.String("value", value))
		return value, nil
	}
	return &content.DateValue{Type: content.TypeDate, Value: ts}, nil
}

// mapLink maps a CMS_INPUT_LINK entry into a Link edge descriptor.
func (m *Mapper) mapLink(ctx context.Context, entry map[string]any, path refs.Path) (any, error) {
	value, ok := entry["value"].(map[string]any)
	if !ok {
		return nil, nil
	}

	formData, _ := value["formData"].(map[string]any)
	data, err := m.MapDataEntries(ctx, formData, path.Child(refs.Key("data")))
	if err != nil {
		return nil, err
	}

	template := templateUID(value)
	return &content.Link{Type: content.TypeLink, Template: template, Data: data}, nil
}

// mapList maps every element of a CMS_INPUT_LIST value in input order.
func (m *Mapper) mapList(ctx context.Context, entry map[string]any, path refs.Path) (any, error) {
	values, ok := entry["value"].([]any)
	if !ok {
		return []any{}, nil
	}

	out := make([]any, len(values))
	for i, v := range values {
		mapped, err := m.MapDataEntry(ctx, v, path.Child(refs.Index(i)))
		if err != nil {
			return nil, err
		}
		out[i] = mapped
	}
	return out, nil
}

// mapCheckbox maps a CMS_INPUT_CHECKBOX value into its selected options.
func (m *Mapper) mapCheckbox(entry map[string]any) (any, error) {
	values, ok := entry["value"].([]any)
	if !ok {
		return []*content.Option{}, nil
	}

	options := make([]*content.Option, 0, len(values))
	for _, v := range values {
		value, ok := v.(map[string]any)
		if !ok {
			continue
		}
		key, _ := value["identifier"].(string)
		label, _ := value["label"].(string)
		options = append(options, &content.Option{Type: content.TypeOption, Key: key, Value: label})
	}
	return options, nil
}

// mapImageMap maps a CMS_INPUT_IMAGEMAP entry. The media reference becomes
// a resolution-specific placeholder so denormalization can inline the
// matching rendition. A missing value payload is a data-integrity error.
func (m *Mapper) mapImageMap(ctx context.Context, entry map[string]any, path refs.Path) (any, error) {
	value, ok := entry["value"].(map[string]any)
	if !ok || value == nil {
		return nil, ErrMalformedImageMap
	}

	resolution := "ORIGINAL"
	if res, ok := value["resolution"].(map[string]any); ok {
		if uid, ok := res["uid"].(string); ok && uid != "" {
			resolution = uid
		}
	}

	imageMap := &content.ImageMap{Type: content.TypeImageMap, Resolution: resolution}

	if media, ok := value["media"].(map[string]any); ok {
		id, _ := media["identifier"].(string)
		remote, _ := media["remoteProject"].(string)
		if id != "" {
			imageMap.Media = m.Register(id, path.Child(refs.Key("media")), remote, resolution)
		}
	}

	areas, _ := value["areas"].([]any)
	for i, rawArea := range areas {
		areaMap, ok := rawArea.(map[string]any)
		if !ok {
			continue
		}
		// The raw link shape does not match the mapped Link struct; decode
		// the geometry without it and map the link separately.
		geometry := make(map[string]any, len(areaMap))
		for k, v := range areaMap {
			if k != "link" {
				geometry[k] = v
			}
		}
		area, err := content.Decode[content.ImageMapArea](geometry)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image map area: %w", err)
		}
		if link, ok := areaMap["link"].(map[string]any); ok {
			mapped, err := m.mapLink(ctx, map[string]any{"value": link}, path.Child(refs.Key("areas"), refs.Index(i), refs.Key("link")))
			if err != nil {
				return nil, err
			}
			area.Link, _ = mapped.(*content.Link)
		}
		imageMap.Areas = append(imageMap.Areas, *area)
	}

	return imageMap, nil
}

// mapPermission maps a CMS_INPUT_PERMISSION entry.
func (m *Mapper) mapPermission(entry map[string]any) (any, error) {
	var activities []content.PermissionActivity
	if values, ok := entry["value"].([]any); ok {
		for _, v := range values {
			activity, err := content.Decode[content.PermissionActivity](v)
			if err != nil {
				return nil, fmt.Errorf("failed to decode permission activity: %w", err)
			}
			activities = append(activities, *activity)
		}
	}

	name, _ := entry["name"].(string)
	return &content.Permission{Type: content.TypePermission, Name: name, Value: activities}, nil
}

// mapDatasetReference registers an FS_DATASET target and substitutes its
// placeholder. An empty value maps to nil.
func (m *Mapper) mapDatasetReference(entry map[string]any, path refs.Path) (any, error) {
	value, ok := entry["value"].(map[string]any)
	if !ok {
		return nil, nil
	}

	target, ok := value["target"].(map[string]any)
	if !ok {
		return nil, nil
	}

	id, _ := target["identifier"].(string)
	if id == "" {
		return nil, nil
	}
	remote, _ := value["remoteProject"].(string)
	return m.Register(id, path, remote, ""), nil
}

// mapReference registers an FS_REFERENCE target (media, page ref or GCA
// page) and substitutes its placeholder.
func (m *Mapper) mapReference(entry map[string]any, path refs.Path) (any, error) {
	value, ok := entry["value"].(map[string]any)
	if !ok {
		return nil, nil
	}

	id, _ := value["identifier"].(string)
	if id == "" {
		return nil, nil
	}
	remote, _ := value["remoteProject"].(string)
	return m.Register(id, path, remote, ""), nil
}

// mapCatalog maps every card of an FS_CATALOG value in input order.
func (m *Mapper) mapCatalog(ctx context.Context, entry map[string]any, path refs.Path) (any, error) {
	values, ok := entry["value"].([]any)
	if !ok {
		return []*content.Card{}, nil
	}

	cards := make([]*content.Card, 0, len(values))
	for i, v := range values {
		raw, ok := v.(map[string]any)
		if !ok {
			continue
		}

		id, _ := raw["identifier"].(string)
		formData, _ := raw["formData"].(map[string]any)
		data, err := m.MapDataEntries(ctx, formData, path.Child(refs.Index(i), refs.Key("data")))
		if err != nil {
			return nil, err
		}

		cards = append(cards, &content.Card{
			Type:      content.TypeCard,
			ID:        id,
			PreviewID: ident.PreviewID(id, m.locale),
			Template:  templateUID(raw),
			Data:      data,
		})
	}
	return cards, nil
}

// mapIndex maps an FS_INDEX entry. Records of the dataset data-access
// plugin register their targets and yield placeholders; other plugin kinds
// pass through.
func (m *Mapper) mapIndex(entry map[string]any, path refs.Path) (any, error) {
	dapType, _ := entry["dapType"].(string)
	if dapType != content.IndexDatasetDAP {
		return entry, nil
	}

	values, _ := entry["value"].([]any)
	tokens := make([]any, 0, len(values))
	for i, v := range values {
		record, ok := v.(map[string]any)
		if !ok {
			continue
		}
		value, _ := record["value"].(map[string]any)
		target, _ := value["target"].(map[string]any)
		id, _ := target["identifier"].(string)
		if id == "" {
			continue
		}
		remote, _ := value["remoteProject"].(string)
		tokens = append(tokens, m.Register(id, path.Child(refs.Index(i)), remote, ""))
	}
	return tokens, nil
}

// templateUID digs the template uid out of a raw node, accepting both the
// nested object form and a plain string.
func templateUID(node map[string]any) string {
	switch t := node["template"].(type) {
	case map[string]any:
		uid, _ := t["uid"].(string)
		return uid
	case string:
		return t
	}
	return ""
}
