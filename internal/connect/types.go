package connect

import (
	"fmt"

	"github.com/vk/wirebundle/internal/bundle"
	"github.com/vk/wirebundle/internal/diag"
	"github.com/vk/wirebundle/internal/fieldpath"
)

// Topology is the relative position of the two sides of a bulk connection.
type Topology int

const (
	// Sibling connects two instances owned by peer modules; matched
	// leaves must have opposite effective directions.
	Sibling Topology = iota
	// ParentChild connects a parent's port (left) to a child's outward
	// facing port (right); matched leaves must have the same effective
	// direction as declared from the child's perspective.
	ParentChild
)

func (t Topology) String() string {
	switch t {
	case Sibling:
		return "sibling"
	case ParentChild:
		return "parent_child"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ParseTopology converts the declaration-surface spelling of a topology.
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "sibling", "":
		return Sibling, nil
	case "parent_child":
		return ParentChild, nil
	default:
		return Sibling, fmt.Errorf("unknown topology %q: must be 'sibling' or 'parent_child'", s)
	}
}

// Side identifies which Connect argument an endpoint belongs to.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Endpoint is one end of a primitive connection: a leaf path on a side.
type Endpoint struct {
	Side Side
	Path fieldpath.Path
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s@%s", e.Path.String(), e.Side)
}

// Connection is a single validated leaf-to-leaf link. Source drives Sink.
type Connection struct {
	Source Endpoint
	Sink   Endpoint
	Signal bundle.SignalType
}

// Result carries the connections that validated and the diagnostics for
// everything that did not. The two are independent: leaves that fail
// validation never suppress connections elsewhere.
type Result struct {
	Connections []Connection
	Diagnostics diag.Diagnostics
}
