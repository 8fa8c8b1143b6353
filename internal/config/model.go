package config

import (
	"github.com/vk/wirebundle/internal/bundle"
)

// Model is the unified, format-agnostic representation of everything the
// declaration files describe: bundle schemas, port instances, and the
// connect plan.
type Model struct {
	// Bundles in declaration order. Order matters twice over: field
	// order within a bundle is the canonical pre-order, and a bundle
	// must be declared before a later bundle extends it.
	Bundles  []*BundleDefinition
	Ports    []*PortDefinition
	Connects []*ConnectDefinition
}

// BundleDefinition is the format-agnostic representation of one `bundle`
// block.
type BundleDefinition struct {
	Name        string
	Description string
	// Extends optionally names a base bundle whose fields this bundle
	// inherits before its own.
	Extends string
	// Fields in source order.
	Fields []*FieldDefinition
}

// FieldDefinition is one field of a bundle declaration. Exactly one shape
// applies, discriminated by Kind.
type FieldDefinition struct {
	Name string
	Kind bundle.FieldKind

	// Leaf fields.
	Dir    bundle.Direction
	Signal bundle.SignalType

	// Group and vec fields.
	Bundle string // referenced bundle name
	Flip   bool

	// Vec fields.
	Count int
}

// PortDefinition is the format-agnostic representation of a `port` block:
// one named instance of a bundle.
type PortDefinition struct {
	Name   string
	Bundle string
}

// ConnectDefinition is the format-agnostic representation of a `connect`
// block. Left and Right reference a port, optionally narrowed to a field
// subtree, e.g. "a" or "a.x" or "xbar.lane[2]".
type ConnectDefinition struct {
	Name     string
	Left     string
	Right    string
	Topology string // "sibling" (default) or "parent_child"
}
