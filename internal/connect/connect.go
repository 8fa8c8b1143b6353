package connect

import (
	"context"
	"fmt"

	"github.com/vk/wirebundle/internal/bundle"
	"github.com/vk/wirebundle/internal/ctxlog"
	"github.com/vk/wirebundle/internal/diag"
	"github.com/vk/wirebundle/internal/fieldpath"
)

// Connect matches the leaves of two instances by qualified path, validates
// each matched pair against the topology's polarity rule, and returns one
// primitive connection per valid pair.
//
// The connection list is ordered by the canonical pre-order of the left
// instance. Diagnostics accumulate in discovery order: left-side problems
// first (in left pre-order), then right-only paths (in right pre-order).
// Paths missing a counterpart are reported, not silently skipped, but at
// warning severity; the caller decides how strict to be.
func Connect(ctx context.Context, left, right *bundle.Instance, topo Topology) Result {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Bulk connect started.",
		"left_schema", left.SchemaName(),
		"right_schema", right.SchemaName(),
		"topology", topo.String(),
	)

	var res Result
	for _, ll := range left.Leaves() {
		key := ll.Path.String()

		rl, ok := right.Leaf(key)
		if !ok {
			res.Diagnostics = append(res.Diagnostics, missingCounterpart(ll, right.Leaves(), SideRight))
			continue
		}

		conn, d, ok := pair(ll, rl, topo)
		if !ok {
			res.Diagnostics = append(res.Diagnostics, d)
			continue
		}
		res.Connections = append(res.Connections, conn)
	}

	// Right-only leaves. Paths overlapping a left leaf were already
	// reported as structural mismatches from the left walk.
	for _, rl := range right.Leaves() {
		if _, ok := left.Leaf(rl.Path.String()); ok {
			continue
		}
		if overlaps(rl.Path, left.Leaves()) {
			continue
		}
		res.Diagnostics = append(res.Diagnostics, diag.Diagnostic{
			Kind:     diag.Unmatched,
			Severity: diag.SeverityWarning,
			Path:     rl.Path.String(),
			Detail:   "no counterpart leaf on the left side",
		})
	}

	logger.Debug("Bulk connect finished.",
		"connections", len(res.Connections),
		"diagnostics", len(res.Diagnostics),
	)
	return res
}

// pair validates one matched leaf pair and builds its connection.
func pair(ll, rl bundle.Leaf, topo Topology) (Connection, diag.Diagnostic, bool) {
	var source Side

	switch topo {
	case Sibling:
		if ll.Dir == rl.Dir {
			return Connection{}, diag.Diagnostic{
				Kind:     diag.DirectionMismatch,
				Severity: diag.SeverityError,
				Path:     ll.Path.String(),
				Detail: fmt.Sprintf("sibling connection requires opposite directions, both sides are %s",
					ll.Dir),
			}, false
		}
		if ll.Dir == bundle.Output {
			source = SideLeft
		} else {
			source = SideRight
		}

	case ParentChild:
		if ll.Dir != rl.Dir {
			return Connection{}, diag.Diagnostic{
				Kind:     diag.DirectionMismatch,
				Severity: diag.SeverityError,
				Path:     ll.Path.String(),
				Detail: fmt.Sprintf("parent/child connection requires matching directions, parent is %s but child is %s",
					ll.Dir, rl.Dir),
			}, false
		}
		// The child's declared role decides the driver: a child output
		// drives the parent, a child input is driven by it.
		if rl.Dir == bundle.Output {
			source = SideRight
		} else {
			source = SideLeft
		}
	}

	sink := SideRight
	if source == SideRight {
		sink = SideLeft
	}

	return Connection{
		Source: Endpoint{Side: source, Path: ll.Path},
		Sink:   Endpoint{Side: sink, Path: ll.Path},
		Signal: ll.Signal,
	}, diag.Diagnostic{}, true
}

// missingCounterpart classifies a leaf without an exact match on the other
// side: if the other side has leaves beneath (or above) this path, the two
// schemas disagree about where the leaf boundary is, which is a structural
// mismatch rather than a missing field.
func missingCounterpart(l bundle.Leaf, other []bundle.Leaf, otherSide Side) diag.Diagnostic {
	if overlaps(l.Path, other) {
		return diag.Diagnostic{
			Kind:     diag.StructuralMismatch,
			Severity: diag.SeverityError,
			Path:     l.Path.String(),
			Detail:   fmt.Sprintf("leaf on one side is still a composite on the %s side", otherSide),
		}
	}
	return diag.Diagnostic{
		Kind:     diag.Unmatched,
		Severity: diag.SeverityWarning,
		Path:     l.Path.String(),
		Detail:   fmt.Sprintf("no counterpart leaf on the %s side", otherSide),
	}
}

// overlaps reports whether path is a strict prefix of any leaf path in
// leaves, or any leaf path is a strict prefix of it.
func overlaps(path fieldpath.Path, leaves []bundle.Leaf) bool {
	for _, l := range leaves {
		if len(l.Path) != len(path) {
			if path.IsPrefixOf(l.Path) || l.Path.IsPrefixOf(path) {
				return true
			}
		}
	}
	return false
}
