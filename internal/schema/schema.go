package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Declaration File Structures ---

// Bundle represents a `bundle` block from a declaration file. Its body is
// kept raw because field blocks (`input`, `output`, `group`, `vec`) must be
// processed in source order, which gohcl's per-type slices would lose.
type Bundle struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Port represents a `port` block: a named, concrete instance of a bundle.
type Port struct {
	Name   string `hcl:"name,label"`
	Bundle string `hcl:"bundle"`
}

// Connect represents a `connect` block: one bulk connection between two
// port endpoints.
type Connect struct {
	Name     string `hcl:"name,label"`
	Left     string `hcl:"left"`
	Right    string `hcl:"right"`
	Topology string `hcl:"topology,optional"`
}

// Root represents the top-level structure of a declaration file. Any file
// may freely mix bundle, port, and connect blocks.
type Root struct {
	Bundles  []*Bundle  `hcl:"bundle,block"`
	Ports    []*Port    `hcl:"port,block"`
	Connects []*Connect `hcl:"connect,block"`
	Body     hcl.Body   `hcl:",remain"`
}

// BundleBodySchema is the HCL schema for the body of a `bundle` block.
// Field blocks are extracted with hcl.Body.Content so their source order
// is preserved.
var BundleBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "extends"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
		{Type: "group", LabelNames: []string{"name"}},
		{Type: "vec", LabelNames: []string{"name"}},
	},
}

// LeafBodySchema is the HCL schema for `input` and `output` block bodies.
var LeafBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
	},
}

// GroupBodySchema is the HCL schema for `group` block bodies.
var GroupBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "bundle"},
		{Name: "flip"},
	},
}

// VecBodySchema is the HCL schema for `vec` block bodies.
var VecBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "bundle"},
		{Name: "count"},
		{Name: "flip"},
	},
}
