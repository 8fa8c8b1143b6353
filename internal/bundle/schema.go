package bundle

import (
	"fmt"
)

// SchemaID is an opaque handle to a declared schema within one Registry.
type SchemaID int

// InvalidSchema is the zero-value-adjacent sentinel for "no schema".
const InvalidSchema SchemaID = -1

// FieldKind discriminates the three shapes a schema field can take.
type FieldKind int

const (
	FieldLeaf FieldKind = iota
	FieldGroup
	FieldVec
)

// FieldSpec is one named element of a schema: a directioned leaf signal, a
// nested sub-schema (group), or an indexed repetition of one sub-schema (vec).
type FieldSpec struct {
	Name string
	Kind FieldKind

	// Leaf fields only.
	Dir    Direction
	Signal SignalType

	// Group and vec fields only. Flipped inverts the effective direction
	// of every leaf beneath this field.
	Sub     SchemaID
	Flipped bool

	// Vec fields only. Fixed at declaration, zero is legal.
	Count int
}

// LeafField builds a leaf FieldSpec.
func LeafField(name string, dir Direction, signal SignalType) FieldSpec {
	return FieldSpec{Name: name, Kind: FieldLeaf, Dir: dir, Signal: signal, Sub: InvalidSchema}
}

// GroupField builds a nested sub-schema FieldSpec.
func GroupField(name string, sub SchemaID, flipped bool) FieldSpec {
	return FieldSpec{Name: name, Kind: FieldGroup, Sub: sub, Flipped: flipped}
}

// VecField builds an indexed repetition FieldSpec.
func VecField(name string, sub SchemaID, count int, flipped bool) FieldSpec {
	return FieldSpec{Name: name, Kind: FieldVec, Sub: sub, Count: count, Flipped: flipped}
}

// Schema is one immutable interface declaration: an ordered list of fields.
type Schema struct {
	id      SchemaID
	name    string
	fields  []FieldSpec
	defined bool
}

// Name returns the declared schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns the schema's fields in declaration order. The returned
// slice must not be modified.
func (s *Schema) Fields() []FieldSpec { return s.fields }

// DuplicateFieldError reports a field name declared twice among siblings,
// either inside one declaration or by an extension redefining a base field.
type DuplicateFieldError struct {
	Schema string
	Field  string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("schema %q declares duplicate field %q", e.Schema, e.Field)
}

// CyclicSchemaError reports a schema whose composite fields refer back to
// it, directly or transitively.
type CyclicSchemaError struct {
	Schema string
}

func (e *CyclicSchemaError) Error() string {
	return fmt.Sprintf("schema %q participates in a cyclic composite reference", e.Schema)
}

// Registry holds every declared schema. Declarations are append-only and
// immutable once defined, so a Registry is safe to share for reads after
// all Define calls have completed.
type Registry struct {
	schemas []*Schema
	byName  map[string]SchemaID
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]SchemaID)}
}

// Reserve allocates a SchemaID for a name before its fields are known.
// This is what makes mutual references expressible, and therefore what
// makes cycles detectable as cycles at Define time instead of surfacing
// as unknown names.
func (r *Registry) Reserve(name string) (SchemaID, error) {
	if name == "" {
		return InvalidSchema, fmt.Errorf("schema name cannot be empty")
	}
	if _, exists := r.byName[name]; exists {
		return InvalidSchema, fmt.Errorf("schema %q already declared", name)
	}

	id := SchemaID(len(r.schemas))
	r.schemas = append(r.schemas, &Schema{id: id, name: name})
	r.byName[name] = id
	return id, nil
}

// Declare reserves a name and defines its fields in one step.
func (r *Registry) Declare(name string, fields []FieldSpec) (SchemaID, error) {
	id, err := r.Reserve(name)
	if err != nil {
		return InvalidSchema, err
	}
	if err := r.Define(id, fields); err != nil {
		return InvalidSchema, err
	}
	return id, nil
}

// Define attaches the field list to a reserved schema. It validates
// sibling-name uniqueness, sub-schema references, and the absence of
// cyclic composite references. On any failure the schema stays undefined.
func (r *Registry) Define(id SchemaID, fields []FieldSpec) error {
	s, err := r.schemaFor(id)
	if err != nil {
		return err
	}
	if s.defined {
		return fmt.Errorf("schema %q is already defined", s.name)
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("schema %q declares a field with an empty name", s.name)
		}
		if _, dup := seen[f.Name]; dup {
			return &DuplicateFieldError{Schema: s.name, Field: f.Name}
		}
		seen[f.Name] = struct{}{}

		switch f.Kind {
		case FieldLeaf:
			if f.Signal.Width < 1 {
				return fmt.Errorf("schema %q, leaf %q: signal width must be at least 1, got %d", s.name, f.Name, f.Signal.Width)
			}
		case FieldGroup, FieldVec:
			if _, err := r.schemaFor(f.Sub); err != nil {
				return fmt.Errorf("schema %q, field %q: %w", s.name, f.Name, err)
			}
			if f.Kind == FieldVec && f.Count < 0 {
				return fmt.Errorf("schema %q, vec %q: count cannot be negative, got %d", s.name, f.Name, f.Count)
			}
		default:
			return fmt.Errorf("schema %q, field %q: unknown field kind %d", s.name, f.Name, int(f.Kind))
		}
	}

	s.fields = fields
	s.defined = true

	if err := r.checkCycles(id); err != nil {
		s.fields = nil
		s.defined = false
		return err
	}
	return nil
}

// Extend declares a new schema whose field set is the base schema's fields
// followed by the extra fields. Redefining a base field name fails with
// DuplicateFieldError.
func (r *Registry) Extend(name string, base SchemaID, extra []FieldSpec) (SchemaID, error) {
	id, err := r.Reserve(name)
	if err != nil {
		return InvalidSchema, err
	}
	if err := r.DefineExtended(id, base, extra); err != nil {
		return InvalidSchema, err
	}
	return id, nil
}

// DefineExtended defines a reserved schema as an extension of base.
func (r *Registry) DefineExtended(id, base SchemaID, extra []FieldSpec) error {
	s, err := r.schemaFor(id)
	if err != nil {
		return err
	}
	b, err := r.schemaFor(base)
	if err != nil {
		return fmt.Errorf("schema %q: invalid base: %w", s.name, err)
	}
	if !b.defined {
		return fmt.Errorf("schema %q extends %q, which has no definition yet", s.name, b.name)
	}

	merged := make([]FieldSpec, 0, len(b.fields)+len(extra))
	merged = append(merged, b.fields...)
	merged = append(merged, extra...)
	return r.Define(id, merged)
}

// Lookup resolves a schema name to its SchemaID.
func (r *Registry) Lookup(name string) (SchemaID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Name returns the declared name for a SchemaID, or "" if it is unknown.
func (r *Registry) Name(id SchemaID) string {
	if s, err := r.schemaFor(id); err == nil {
		return s.name
	}
	return ""
}

// SchemaOf returns the immutable schema for an ID.
func (r *Registry) SchemaOf(id SchemaID) (*Schema, error) {
	return r.schemaFor(id)
}

func (r *Registry) schemaFor(id SchemaID) (*Schema, error) {
	if id < 0 || int(id) >= len(r.schemas) {
		return nil, fmt.Errorf("unknown schema id %d", int(id))
	}
	return r.schemas[id], nil
}

// checkCycles walks composite references from the given schema using a
// depth-first search with temporary/permanent marker sets. Undefined
// sub-schemas terminate the walk; the cycle they might close is detected
// when their own Define completes it.
func (r *Registry) checkCycles(start SchemaID) error {
	permanent := make(map[SchemaID]bool)
	temporary := make(map[SchemaID]bool)

	var visit func(id SchemaID) error
	visit = func(id SchemaID) error {
		if permanent[id] {
			return nil // Already visited and known to be safe.
		}
		if temporary[id] {
			// The walk returned to a schema already on the stack.
			return &CyclicSchemaError{Schema: r.schemas[id].name}
		}

		temporary[id] = true

		s := r.schemas[id]
		for _, f := range s.fields {
			if f.Kind == FieldLeaf {
				continue
			}
			if sub := r.schemas[f.Sub]; sub.defined {
				if err := visit(f.Sub); err != nil {
					return err
				}
			}
		}

		delete(temporary, id)
		permanent[id] = true

		return nil
	}

	return visit(start)
}
