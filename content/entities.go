package content

import "time"

// Type tags of mapped entities and field values.
const (
	TypePage              = "Page"
	TypeGCAPage           = "GCAPage"
	TypeSection           = "Section"
	TypeDataset           = "Dataset"
	TypeImage             = "Image"
	TypeFile              = "File"
	TypeProjectProperties = "ProjectProperties"
	TypeOption            = "Option"
	TypeLink              = "Link"
	TypePermission        = "Permission"
	TypeImageMap          = "ImageMap"
	TypeCard              = "Card"
	TypeDate              = "Date"
)

// Entity is implemented by every mapped top-level kind. EntityID returns
// the identifier other entities reference this one by; for a page that is
// the page-ref id, not the inner content id, since two reference ids may
// point at the same page content.
type Entity interface {
	EntityID() string
	EntityType() string
}

// DataValues holds the mapped form data of an entity, keyed by form field
// name. Values are mapped field kinds, primitives, or placeholder tokens.
type DataValues map[string]any

// Page is a mapped page.
type Page struct {
	Type      string     `json:"type"`
	ID        string     `json:"id"`
	RefID     string     `json:"refId"`
	PreviewID string     `json:"previewId"`
	Name      string     `json:"name,omitempty"`
	Layout    string     `json:"layout,omitempty"`
	Route     string     `json:"route,omitempty"`
	Children  []PageBody `json:"children,omitempty"`
	Data      DataValues `json:"data,omitempty"`
	Meta      DataValues `json:"meta,omitempty"`
}

func (p *Page) EntityID() string   { return p.RefID }
func (p *Page) EntityType() string { return TypePage }

// PageBody is one named body of a page.
type PageBody struct {
	Name      string `json:"name"`
	PreviewID string `json:"previewId"`
	Children  []any  `json:"children,omitempty"`
}

// Section is a mapped section node.
type Section struct {
	Type        string     `json:"type"`
	ID          string     `json:"id"`
	PreviewID   string     `json:"previewId"`
	SectionType string     `json:"sectionType,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	Data        DataValues `json:"data,omitempty"`
	Children    []any      `json:"children,omitempty"`
}

func (s *Section) EntityID() string   { return s.ID }
func (s *Section) EntityType() string { return TypeSection }

// Dataset is a mapped dataset row.
type Dataset struct {
	Type        string     `json:"type"`
	ID          string     `json:"id"`
	PreviewID   string     `json:"previewId"`
	SchemaID    string     `json:"schema,omitempty"`
	DatasetType string     `json:"entityType,omitempty"`
	Template    string     `json:"template,omitempty"`
	Route       string     `json:"route,omitempty"`
	Data        DataValues `json:"data,omitempty"`
}

func (d *Dataset) EntityID() string   { return d.ID }
func (d *Dataset) EntityType() string { return TypeDataset }

// Image is a mapped picture with its renditions.
type Image struct {
	Type        string                     `json:"type"`
	ID          string                     `json:"id"`
	PreviewID   string                     `json:"previewId"`
	Description string                     `json:"description,omitempty"`
	Resolutions map[string]MediaResolution `json:"resolutions,omitempty"`
	Meta        DataValues                 `json:"meta,omitempty"`
}

func (i *Image) EntityID() string   { return i.ID }
func (i *Image) EntityType() string { return TypeImage }

// File is a mapped plain file asset.
type File struct {
	Type      string     `json:"type"`
	ID        string     `json:"id"`
	PreviewID string     `json:"previewId"`
	Name      string     `json:"name,omitempty"`
	FileName  string     `json:"fileName,omitempty"`
	URL       string     `json:"url,omitempty"`
	MimeType  string     `json:"mimeType,omitempty"`
	Meta      DataValues `json:"meta,omitempty"`
}

func (f *File) EntityID() string   { return f.ID }
func (f *File) EntityType() string { return TypeFile }

// GCAPage is a mapped global-content-area page.
type GCAPage struct {
	Type      string     `json:"type"`
	ID        string     `json:"id"`
	PreviewID string     `json:"previewId"`
	Name      string     `json:"name,omitempty"`
	Layout    string     `json:"layout,omitempty"`
	Children  []PageBody `json:"children,omitempty"`
	Data      DataValues `json:"data,omitempty"`
	Meta      DataValues `json:"meta,omitempty"`
}

func (g *GCAPage) EntityID() string   { return g.ID }
func (g *GCAPage) EntityType() string { return TypeGCAPage }

// ProjectProperties is the mapped ProjectSettings singleton.
type ProjectProperties struct {
	Type      string     `json:"type"`
	ID        string     `json:"id"`
	PreviewID string     `json:"previewId"`
	Name      string     `json:"name,omitempty"`
	Layout    string     `json:"layout,omitempty"`
	Data      DataValues `json:"data,omitempty"`
	Meta      DataValues `json:"meta,omitempty"`
}

func (p *ProjectProperties) EntityID() string   { return p.ID }
func (p *ProjectProperties) EntityType() string { return TypeProjectProperties }

// Option is a mapped combobox/checkbox choice.
type Option struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Link is a lightweight edge descriptor: template plus mapped field data.
// Its reference targets, if any, live inside Data as placeholder tokens; a
// Link itself is data, not a navigable pointer.
type Link struct {
	Type     string     `json:"type"`
	Template string     `json:"template"`
	Data     DataValues `json:"data,omitempty"`
}

// Card is one entry of an FS_CATALOG value.
type Card struct {
	Type      string     `json:"type"`
	ID        string     `json:"id"`
	PreviewID string     `json:"previewId"`
	Template  string     `json:"template,omitempty"`
	Data      DataValues `json:"data,omitempty"`
}

// Permission is a mapped CMS_INPUT_PERMISSION value.
type Permission struct {
	Type  string               `json:"type"`
	Name  string               `json:"name,omitempty"`
	Value []PermissionActivity `json:"value,omitempty"`
}

// PermissionActivity lists the groups allowed and forbidden for one
// activity.
type PermissionActivity struct {
	Activity  string            `json:"activity,omitempty"`
	Allowed   []PermissionGroup `json:"allowed,omitempty"`
	Forbidden []PermissionGroup `json:"forbidden,omitempty"`
}

// PermissionGroup identifies one group within a permission activity.
type PermissionGroup struct {
	GroupName string `json:"groupName,omitempty"`
	GroupPath string `json:"groupPath,omitempty"`
}

// ImageMap is a mapped CMS_INPUT_IMAGEMAP value. Media holds a
// resolution-specific placeholder token until denormalization inlines the
// image.
type ImageMap struct {
	Type       string         `json:"type"`
	Resolution string         `json:"resolution,omitempty"`
	Media      any            `json:"media,omitempty"`
	Areas      []ImageMapArea `json:"areas,omitempty"`
}

// ImageMapArea is one clickable area of an image map. Geometry fields are
// populated per AreaType: RECT uses LeftTop/RightBottom, CIRCLE uses
// Center/Radius, POLY uses Points.
type ImageMapArea struct {
	AreaType    string  `json:"areaType"`
	Link        *Link   `json:"link,omitempty"`
	LeftTop     *Point  `json:"leftTop,omitempty"`
	RightBottom *Point  `json:"rightBottom,omitempty"`
	Center      *Point  `json:"center,omitempty"`
	Radius      int     `json:"radius,omitempty"`
	Points      []Point `json:"points,omitempty"`
}

// Point is a pixel coordinate inside an image map.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DateValue wraps a mapped CMS_INPUT_DATE entry.
type DateValue struct {
	Type  string    `json:"type"`
	Value time.Time `json:"value"`
}
