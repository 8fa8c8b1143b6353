// Package bundle implements the port-schema type model: named,
// hierarchical, directioned interface declarations ("bundles"), their
// registry, and fully resolved instances of them.
//
// # Why a Registry of immutable Schemas
//
// A bundle declaration is a pure type-level description. It is declared
// once, validated at declaration time, and never mutated afterward. This
// keeps the field set closed and inspectable: instances of the same
// SchemaID are guaranteed structurally identical, which is what allows the
// bulk connector to match two instances leaf-by-leaf without per-pair
// schema comparison. It also makes sharing safe: once published, a
// SchemaID can be instantiated from any number of goroutines with no
// coordination.
//
// # Direction, flip, and effective direction
//
// Leaves declare a Direction (Input or Output). A group or vec field may
// carry a flip marker, which does not set a direction itself but inverts
// the effective direction of every leaf transitively beneath it. The
// effective direction of a leaf is its declared direction XOR the flips on
// the path from the instance root to the leaf. Resolution happens exactly
// once, at Instantiate time, and the result is cached on the Instance:
// leaves are immutable, so re-reading them is trivially idempotent.
//
// # Malformed schemas
//
// Duplicate sibling field names and cyclic composite references are
// rejected when a schema is defined, never during resolution. A schema
// that survives Define always resolves.
package bundle
