package refs

import (
	"strconv"
	"strings"
)

// Segment addresses one step into a mapped value tree: either a string key
// of an object or an integer index of a list.
type Segment struct {
	// Key is the object key this segment addresses. Only meaningful when
	// IsIndex is false.
	Key string `json:"key,omitempty"`

	// Index is the list position this segment addresses. Only meaningful
	// when IsIndex is true.
	Index int `json:"index,omitempty"`

	// IsIndex distinguishes list segments from object segments.
	IsIndex bool `json:"isIndex,omitempty"`
}

// Key builds an object segment.
func Key(k string) Segment {
	return Segment{Key: k}
}

// Index builds a list segment.
func Index(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

// Path is the ordered list of segments from the root of a mapped entity to
// the location a placeholder token was substituted at. Several paths may
// point at the same identifier when an entity is referenced more than once.
type Path []Segment

// Child returns a new path extended by the given segments. The receiver is
// never modified, so sibling traversals can branch from a shared prefix.
func (p Path) Child(segs ...Segment) Path {
	child := make(Path, 0, len(p)+len(segs))
	child = append(child, p...)
	child = append(child, segs...)
	return child
}

// String renders the path in dotted form, e.g. "children.0.data.teaserImage".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		if seg.IsIndex {
			parts[i] = strconv.Itoa(seg.Index)
		} else {
			parts[i] = seg.Key
		}
	}
	return strings.Join(parts, ".")
}
