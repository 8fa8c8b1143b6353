// Package netlist defines the elaboration context's side of the contract:
// a signal-node allocator and a recorder for primitive point-to-point
// links. The bulk connector never touches it (it returns pure data), so
// realizing a connection set against a store is the caller's choice.
package netlist

import "github.com/vk/wirebundle/internal/bundle"

// NodeID identifies one allocated signal node within a store.
type NodeID int

// Store is the interface an elaboration host supplies. Implementations
// must be safe for concurrent use, as disjoint connect results may be
// realized from separate goroutines.
type Store interface {
	// AllocateNode returns the node for a fully qualified leaf path,
	// allocating it on first use. Repeated calls with the same path
	// return the same NodeID.
	AllocateNode(path string, signal bundle.SignalType) NodeID

	// Link records a primitive point-to-point connection from source to
	// sink. Both IDs must have been allocated by this store.
	Link(source, sink NodeID) error
}

// NodeRecord is the stored description of one allocated signal node.
type NodeRecord struct {
	Path   string
	Signal bundle.SignalType
}

// LinkRecord is one recorded point-to-point connection.
type LinkRecord struct {
	Source NodeID
	Sink   NodeID
}
