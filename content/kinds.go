// Package content defines the two sides of the mapping boundary: the raw
// CaaS item shapes as they arrive from the store, and the application-facing
// entity kinds the mapper produces.
//
// Raw nodes are handled as map[string]any because CaaS trees are open
// polymorphic JSON; typed views are obtained on demand with Decode. Mapped
// entities are closed structs with a Type tag, and every top-level kind
// implements Entity so the resolved-entity cache can self-key it.
package content

import "encoding/json"

// Kind tags of raw top-level CaaS items.
const (
	FSTypePageRef           = "PageRef"
	FSTypePage              = "Page"
	FSTypeGCAPage           = "GCAPage"
	FSTypeDataset           = "Dataset"
	FSTypeMedia             = "Media"
	FSTypeProjectProperties = "ProjectProperties"
)

// Kind tags of raw page-body content.
const (
	FSTypeSection          = "Section"
	FSTypeContent2Section  = "Content2Section"
	FSTypeSectionReference = "SectionReference"
)

// Kind tags of raw form-data entries.
const (
	FSTypeCombobox    = "CMS_INPUT_COMBOBOX"
	FSTypeDOM         = "CMS_INPUT_DOM"
	FSTypeDOMTable    = "CMS_INPUT_DOMTABLE"
	FSTypeNumber      = "CMS_INPUT_NUMBER"
	FSTypeText        = "CMS_INPUT_TEXT"
	FSTypeTextArea    = "CMS_INPUT_TEXTAREA"
	FSTypeRadioButton = "CMS_INPUT_RADIOBUTTON"
	FSTypeToggle      = "CMS_INPUT_TOGGLE"
	FSTypeDate        = "CMS_INPUT_DATE"
	FSTypeLink        = "CMS_INPUT_LINK"
	FSTypeList        = "CMS_INPUT_LIST"
	FSTypeCheckbox    = "CMS_INPUT_CHECKBOX"
	FSTypeImageMap    = "CMS_INPUT_IMAGEMAP"
	FSTypePermission  = "CMS_INPUT_PERMISSION"
	FSTypeDatasetRef  = "FS_DATASET"
	FSTypeReference   = "FS_REFERENCE"
	FSTypeCatalog     = "FS_CATALOG"
	FSTypeIndex       = "FS_INDEX"
	FSTypeOption      = "Option"
	FSTypeCard        = "Card"
)

// IndexDatasetDAP marks an FS_INDEX entry whose records come from the
// dataset data-access plugin.
const IndexDatasetDAP = "DatasetDataAccessPlugin"

// Media subtypes carried in a raw Media item's mediaType field.
const (
	MediaTypePicture = "PICTURE"
	MediaTypeFile    = "FILE"
)

// FSType extracts the kind tag of a raw CaaS node. Nodes without a tag
// yield the empty string; callers treat that as an unknown kind.
func FSType(node any) string {
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	t, _ := m["fsType"].(string)
	return t
}

// Decode re-marshals a raw node into a typed view. CaaS payloads are open
// JSON, so typed access goes through one JSON round trip instead of manual
// map plumbing.
func Decode[T any](node any) (*T, error) {
	data, err := json.Marshal(node)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
