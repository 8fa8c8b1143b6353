package bundle

import (
	"fmt"

	"github.com/vk/wirebundle/internal/fieldpath"
)

// Leaf is a fully resolved signal endpoint of an instance: its qualified
// path relative to the instance root, its effective direction, and its
// signal type.
type Leaf struct {
	Path   fieldpath.Path
	Dir    Direction
	Signal SignalType
}

// Instance is an immutable, fully resolved realization of a schema. Its
// leaf set and effective directions are computed once at creation and
// never change, so an Instance may be read from any number of goroutines.
type Instance struct {
	reg     *Registry
	schema  SchemaID
	flipped bool
	leaves  []Leaf
	byPath  map[string]int
}

// Instantiate produces a concrete field tree for a defined schema. Every
// leaf's effective direction is resolved here: a pre-order walk carries an
// inverted flag, XOR-ing in each flip marker it passes, and applies the
// accumulated inversion to the declared direction at each leaf.
func (r *Registry) Instantiate(id SchemaID) (*Instance, error) {
	return r.instantiate(id, false)
}

func (r *Registry) instantiate(id SchemaID, flipped bool) (*Instance, error) {
	s, err := r.schemaFor(id)
	if err != nil {
		return nil, err
	}
	if !s.defined {
		return nil, fmt.Errorf("schema %q is reserved but has no definition", s.name)
	}

	leaves, err := r.resolveLeaves(id, nil, flipped)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]int, len(leaves))
	for i, l := range leaves {
		byPath[l.Path.String()] = i
	}

	return &Instance{
		reg:     r,
		schema:  id,
		flipped: flipped,
		leaves:  leaves,
		byPath:  byPath,
	}, nil
}

// resolveLeaves walks a schema depth-first in declaration order, expanding
// vec fields into indexed children. The inverted flag is the XOR of all
// flip markers between the instance root and the current subtree.
func (r *Registry) resolveLeaves(id SchemaID, prefix fieldpath.Path, inverted bool) ([]Leaf, error) {
	s, err := r.schemaFor(id)
	if err != nil {
		return nil, err
	}
	if !s.defined {
		return nil, fmt.Errorf("schema %q is reserved but has no definition", s.name)
	}

	var leaves []Leaf
	for _, f := range s.fields {
		switch f.Kind {
		case FieldLeaf:
			dir := f.Dir
			if inverted {
				dir = dir.Flip()
			}
			leaves = append(leaves, Leaf{
				Path:   prefix.Child(fieldpath.New(f.Name)),
				Dir:    dir,
				Signal: f.Signal,
			})
		case FieldGroup:
			sub, err := r.resolveLeaves(f.Sub, prefix.Child(fieldpath.New(f.Name)), inverted != f.Flipped)
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, sub...)
		case FieldVec:
			for i := 0; i < f.Count; i++ {
				sub, err := r.resolveLeaves(f.Sub, prefix.Child(fieldpath.NewIndexed(f.Name, i)), inverted != f.Flipped)
				if err != nil {
					return nil, err
				}
				leaves = append(leaves, sub...)
			}
		}
	}
	return leaves, nil
}

// Schema returns the SchemaID this instance was created from.
func (i *Instance) Schema() SchemaID { return i.schema }

// SchemaName returns the declared name of the instance's schema.
func (i *Instance) SchemaName() string { return i.reg.Name(i.schema) }

// Flipped reports whether this handle carries an odd number of flip
// markers between the original instance root and its own root.
func (i *Instance) Flipped() bool { return i.flipped }

// Leaves returns every leaf of the instance in canonical pre-order. The
// returned slice must not be modified.
func (i *Instance) Leaves() []Leaf { return i.leaves }

// Leaf looks up a leaf by its canonical path string.
func (i *Instance) Leaf(path string) (Leaf, bool) {
	idx, ok := i.byPath[path]
	if !ok {
		return Leaf{}, false
	}
	return i.leaves[idx], true
}

// At returns a new instance handle rooted at the composite field addressed
// by path, carrying the flip state accumulated along the way. Leaf paths
// of the returned handle are relative to its own root. Addressing a leaf
// or an unindexed vec field is an error.
func (i *Instance) At(path fieldpath.Path) (*Instance, error) {
	if len(path) == 0 {
		return i, nil
	}

	cur := i.schema
	flipped := i.flipped
	for _, seg := range path {
		s, err := i.reg.schemaFor(cur)
		if err != nil {
			return nil, err
		}

		f, ok := findField(s, seg.Name)
		if !ok {
			return nil, fmt.Errorf("schema %q has no field %q", s.name, seg.Name)
		}

		switch f.Kind {
		case FieldLeaf:
			return nil, fmt.Errorf("field %q of schema %q is a leaf, not a composite", seg.Name, s.name)
		case FieldGroup:
			if seg.HasIndex() {
				return nil, fmt.Errorf("field %q of schema %q is not a vec and cannot be indexed", seg.Name, s.name)
			}
		case FieldVec:
			if !seg.HasIndex() {
				return nil, fmt.Errorf("vec field %q of schema %q requires an index", seg.Name, s.name)
			}
			if seg.Index >= f.Count {
				return nil, fmt.Errorf("index %d out of range for vec %q of schema %q (count %d)", seg.Index, seg.Name, s.name, f.Count)
			}
		}

		flipped = flipped != f.Flipped
		cur = f.Sub
	}

	return i.reg.instantiate(cur, flipped)
}

func findField(s *Schema, name string) (FieldSpec, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}
