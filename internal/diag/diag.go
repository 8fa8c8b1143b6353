// Package diag defines the diagnostic records produced while building
// schemas and bulk-connecting instances. The shape follows hcl.Diagnostics:
// an ordered slice that accumulates instead of stopping at the first
// problem, usable as an error itself.
package diag

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// Unmatched marks a leaf path present on one side of a bulk
	// connection with no counterpart on the other.
	Unmatched Kind = iota
	// DirectionMismatch marks a matched leaf pair whose effective
	// directions violate the topology's polarity rule.
	DirectionMismatch
	// StructuralMismatch marks a path that is a leaf on one side but
	// still a composite on the other.
	StructuralMismatch
	// DuplicateField marks a field name declared twice among siblings.
	DuplicateField
	// CyclicSchema marks a schema referring back to itself through its
	// composite fields.
	CyclicSchema
	// UnknownBundle marks a reference to a bundle name that was never
	// declared.
	UnknownBundle
)

func (k Kind) String() string {
	switch k {
	case Unmatched:
		return "unmatched"
	case DirectionMismatch:
		return "direction mismatch"
	case StructuralMismatch:
		return "structural mismatch"
	case DuplicateField:
		return "duplicate field"
	case CyclicSchema:
		return "cyclic schema"
	case UnknownBundle:
		return "unknown bundle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Severity splits diagnostics into those that invalidate a result and
// those a host may choose to tolerate or promote.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is one reported problem, carrying the full qualified field
// path it concerns so it is actionable without further context.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Path     string
	Detail   string
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")
	sb.WriteString(d.Kind.String())
	if d.Path != "" {
		sb.WriteString(" at ")
		sb.WriteString(d.Path)
	}
	if d.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(d.Detail)
	}
	return sb.String()
}

// Diagnostics is an ordered accumulation of diagnostics, in discovery
// order.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic carries error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Error implements the error interface so a Diagnostics value can be
// returned where an error is expected.
func (ds Diagnostics) Error() string {
	switch len(ds) {
	case 0:
		return "no diagnostics"
	case 1:
		return ds[0].String()
	default:
		return fmt.Sprintf("%s, and %d other diagnostics", ds[0].String(), len(ds)-1)
	}
}
