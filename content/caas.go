package content

// Typed views of raw CaaS items. These mirror the store's JSON verbatim;
// fields the mapper does not consume are omitted and survive only through
// the raw maps they were decoded from.

// Template identifies the FirstSpirit template a node was produced from.
type Template struct {
	UID        string `json:"uid"`
	Identifier string `json:"identifier,omitempty"`
	Name       string `json:"name,omitempty"`
}

// PageRefItem is the addressable wrapper around a page. Other entities
// reference the page-ref identifier, not the inner page's.
type PageRefItem struct {
	FSType     string   `json:"fsType"`
	Identifier string   `json:"identifier"`
	UID        string   `json:"uid,omitempty"`
	URL        string   `json:"url,omitempty"`
	Page       PageItem `json:"page"`
}

// PageItem is the page content carried inside a page ref.
type PageItem struct {
	FSType       string         `json:"fsType"`
	Identifier   string         `json:"identifier"`
	UID          string         `json:"uid,omitempty"`
	Template     Template       `json:"template"`
	FormData     map[string]any `json:"formData,omitempty"`
	MetaFormData map[string]any `json:"metaFormData,omitempty"`
	Children     []BodyItem     `json:"children,omitempty"`
}

// BodyItem is one named body of a page, holding its section nodes.
type BodyItem struct {
	Name       string           `json:"name"`
	Identifier string           `json:"identifier"`
	Children   []map[string]any `json:"children,omitempty"`
}

// SectionItem covers Section, SectionReference and the Content2Section
// variant (which additionally carries schema/entityType).
type SectionItem struct {
	FSType      string         `json:"fsType"`
	Identifier  string         `json:"identifier"`
	Template    Template       `json:"template"`
	FormData    map[string]any `json:"formData,omitempty"`
	DisplayName string         `json:"displayName,omitempty"`
	Name        string         `json:"name,omitempty"`
}

// DatasetItem is a raw dataset row.
type DatasetItem struct {
	FSType     string         `json:"fsType"`
	Identifier string         `json:"identifier"`
	Schema     string         `json:"schema,omitempty"`
	EntityType string         `json:"entityType,omitempty"`
	Template   Template       `json:"template"`
	FormData   map[string]any `json:"formData,omitempty"`
	Route      string         `json:"route,omitempty"`
}

// MediaItem is a raw media asset, either a picture with renditions or a
// plain file.
type MediaItem struct {
	FSType       string                     `json:"fsType"`
	Identifier   string                     `json:"identifier"`
	MediaType    string                     `json:"mediaType"`
	Name         string                     `json:"name,omitempty"`
	Description  string                     `json:"description,omitempty"`
	URL          string                     `json:"url,omitempty"`
	FileName     string                     `json:"fileName,omitempty"`
	MimeType     string                     `json:"mimeType,omitempty"`
	Resolutions  map[string]MediaResolution `json:"resolutionsMetaData,omitempty"`
	MetaFormData map[string]any             `json:"metaFormData,omitempty"`
}

// MediaResolution is one rendition of a picture.
type MediaResolution struct {
	FileSize  int    `json:"fileSize,omitempty"`
	Extension string `json:"extension,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	URL       string `json:"url,omitempty"`
}

// GCAPageItem is a raw global-content-area page.
type GCAPageItem struct {
	FSType       string         `json:"fsType"`
	Identifier   string         `json:"identifier"`
	UID          string         `json:"uid,omitempty"`
	Name         string         `json:"name,omitempty"`
	Template     Template       `json:"template"`
	FormData     map[string]any `json:"formData,omitempty"`
	MetaFormData map[string]any `json:"metaFormData,omitempty"`
	Children     []BodyItem     `json:"children,omitempty"`
}

// ProjectPropertiesItem is the ProjectSettings singleton of a project.
type ProjectPropertiesItem struct {
	FSType       string         `json:"fsType"`
	Identifier   string         `json:"identifier"`
	Name         string         `json:"name,omitempty"`
	Template     Template       `json:"template"`
	FormData     map[string]any `json:"formData,omitempty"`
	MetaFormData map[string]any `json:"metaFormData,omitempty"`
}
