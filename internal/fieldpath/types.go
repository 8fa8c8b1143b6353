// internal/fieldpath/types.go
package fieldpath

// Segment represents a single component of a field path, e.g., `name[index]`.
type Segment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// New creates a new path segment without an index.
func New(name string) Segment {
	return Segment{Name: name, Index: -1}
}

// NewIndexed creates a new path segment that includes a vec index.
func NewIndexed(name string, index int) Segment {
	return Segment{Name: name, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (s Segment) HasIndex() bool {
	return s.Index != -1
}

// Path is the structured representation of a qualified field path within
// one bundle instance. It is modeled as an ordered sequence of segments.
type Path []Segment

// Child returns a new Path extended with the given segment. The receiver
// is never modified, so sibling paths built from one parent do not alias.
func (p Path) Child(s Segment) Path {
	child := make(Path, 0, len(p)+1)
	child = append(child, p...)
	return append(child, s)
}

// Equal checks for deep equality between two paths.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// IsPrefixOf reports whether p is a (possibly equal-length) prefix of other.
// A segment without an index is considered a prefix of the same segment
// carrying an index, so `lane` prefixes `lane[0].data`.
func (p Path) IsPrefixOf(other Path) bool {
	if len(p) > len(other) {
		return false
	}
	for i, seg := range p {
		if seg.Name != other[i].Name {
			return false
		}
		if seg.HasIndex() && seg.Index != other[i].Index {
			return false
		}
	}
	return true
}
