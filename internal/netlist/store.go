package netlist

import (
	"fmt"
	"sync"

	"github.com/vk/wirebundle/internal/bundle"
)

// MemStore is the reference in-memory Store implementation. It keeps
// nodes and links in insertion order so a realized netlist is reproducible
// run to run.
type MemStore struct {
	mu     sync.Mutex
	nodes  []NodeRecord
	byPath map[string]NodeID
	links  []LinkRecord
}

// NewMemStore creates an empty in-memory netlist store.
func NewMemStore() *MemStore {
	return &MemStore{byPath: make(map[string]NodeID)}
}

// AllocateNode implements Store. Allocation is idempotent per path.
func (s *MemStore) AllocateNode(path string, signal bundle.SignalType) NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byPath[path]; ok {
		return id
	}

	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, NodeRecord{Path: path, Signal: signal})
	s.byPath[path] = id
	return id
}

// Link implements Store.
func (s *MemStore) Link(source, sink NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(source); err != nil {
		return fmt.Errorf("link source: %w", err)
	}
	if err := s.check(sink); err != nil {
		return fmt.Errorf("link sink: %w", err)
	}

	s.links = append(s.links, LinkRecord{Source: source, Sink: sink})
	return nil
}

func (s *MemStore) check(id NodeID) error {
	if id < 0 || int(id) >= len(s.nodes) {
		return fmt.Errorf("node %d was never allocated", int(id))
	}
	return nil
}

// Nodes returns a copy of every allocated node, in allocation order.
func (s *MemStore) Nodes() []NodeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]NodeRecord, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Links returns a copy of every recorded link, in record order.
func (s *MemStore) Links() []LinkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LinkRecord, len(s.links))
	copy(out, s.links)
	return out
}
