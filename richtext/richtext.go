// Package richtext parses CMS_INPUT_DOM markup into a typed node tree.
//
// The store delivers rich-text values as an XML fragment. Parsing yields a
// tree of Elements; "link" elements carry a template identifier and raw
// field data that the content mapper re-enters through its standard
// data-entry path, so link targets participate in reference resolution like
// any other field.
package richtext

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Element types produced by the parser.
const (
	TypeBlock     = "block"
	TypeParagraph = "paragraph"
	TypeText      = "text"
	TypeLink      = "link"
	TypeList      = "list"
	TypeListItem  = "listitem"
	TypeLineBreak = "linebreak"
	TypeTable     = "table"
	TypeTableRow  = "row"
	TypeTableCell = "cell"
)

// Element is one node of a parsed rich-text tree. Content is either a
// string (for text nodes) or []Element (for container nodes). Data carries
// formatting attributes, and for link nodes the raw link form data the
// mapper resolves further.
type Element struct {
	Type    string         `json:"type"`
	Content any            `json:"content,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// elementType maps markup tag names to element types. Unknown tags keep
// their tag name as type so schema additions survive parsing.
var elementType = map[string]string{
	"div":   TypeBlock,
	"p":     TypeParagraph,
	"link":  TypeLink,
	"ul":    TypeList,
	"li":    TypeListItem,
	"br":    TypeLineBreak,
	"b":     TypeText,
	"i":     TypeText,
	"table": TypeTable,
	"tr":    TypeTableRow,
	"td":    TypeTableCell,
}

// Parse converts a rich-text XML fragment into its element tree. The
// fragment may have multiple root nodes; bare text outside any tag becomes
// a text element.
func Parse(markup string) ([]Element, error) {
	decoder := xml.NewDecoder(strings.NewReader(markup))
	// CaaS fragments are not full documents; be lenient about entities.
	decoder.Strict = false

	elements, err := parseSiblings(decoder, "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse rich text: %w", err)
	}
	return elements, nil
}

// parseSiblings consumes tokens until the closing tag named by parent (or
// EOF at the top level) and returns the elements found.
func parseSiblings(decoder *xml.Decoder, parent string) ([]Element, error) {
	var elements []Element

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			if parent == "" {
				return elements, nil
			}
			return nil, fmt.Errorf("unexpected end of markup inside <%s>", parent)
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(decoder, t)
			if err != nil {
				return nil, err
			}
			elements = append(elements, child)
		case xml.EndElement:
			if t.Name.Local == parent {
				return elements, nil
			}
		case xml.CharData:
			text := string(t)
			if strings.TrimSpace(text) != "" {
				elements = append(elements, Element{Type: TypeText, Content: text})
			}
		}
	}
}

// parseElement builds one element from its start tag, consuming everything
// up to and including the matching end tag.
func parseElement(decoder *xml.Decoder, start xml.StartElement) (Element, error) {
	typ, ok := elementType[start.Name.Local]
	if !ok {
		typ = start.Name.Local
	}

	data := make(map[string]any, len(start.Attr))
	for _, attr := range start.Attr {
		data[attr.Name.Local] = attr.Value
	}
	switch start.Name.Local {
	case "b":
		data["format"] = "bold"
	case "i":
		data["format"] = "italic"
	case "link":
		// Link tags carry their form data as a JSON attribute; decode it so
		// the mapper can walk the fields like any other data entries.
		if raw, ok := data["data"].(string); ok {
			var fields map[string]any
			if err := json.Unmarshal([]byte(raw), &fields); err == nil {
				data["data"] = fields
			}
		}
	}

	children, err := parseSiblings(decoder, start.Name.Local)
	if err != nil {
		return Element{}, err
	}

	el := Element{Type: typ}
	if len(data) > 0 {
		el.Data = data
	}
	switch {
	case len(children) == 1 && children[0].Type == TypeText && children[0].Data == nil:
		el.Content = children[0].Content
	case len(children) > 0:
		el.Content = children
	}
	return el, nil
}
