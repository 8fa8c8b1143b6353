package bundle

import "fmt"

// ExpandVec returns one instance handle per element of the named vec
// field, ordered by index. All elements share the vec's sub-schema and
// flip state, so they are structurally identical by construction; the
// bulk connector relies on this to match vec elements by index alone.
// A zero-count vec expands to an empty slice.
func (i *Instance) ExpandVec(name string) ([]*Instance, error) {
	s, err := i.reg.schemaFor(i.schema)
	if err != nil {
		return nil, err
	}

	f, ok := findField(s, name)
	if !ok {
		return nil, fmt.Errorf("schema %q has no field %q", s.name, name)
	}
	if f.Kind != FieldVec {
		return nil, fmt.Errorf("field %q of schema %q is not a vec", name, s.name)
	}

	elems := make([]*Instance, 0, f.Count)
	for idx := 0; idx < f.Count; idx++ {
		elem, err := i.reg.instantiate(f.Sub, i.flipped != f.Flipped)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	return elems, nil
}
