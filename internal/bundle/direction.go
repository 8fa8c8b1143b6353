package bundle

import "fmt"

// Direction is the orientation of a leaf signal, either as declared in a
// bundle or as resolved for a concrete instance.
type Direction int

const (
	Input Direction = iota
	Output
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Input {
		return Output
	}
	return Input
}

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// SignalKind enumerates the primitive value kinds a leaf signal can carry.
type SignalKind int

const (
	Bit SignalKind = iota
	Bool
	UInt
	SInt
)

// SignalType describes the primitive type of a leaf signal. Width is the
// number of bits; Bit and Bool are always one bit wide.
type SignalType struct {
	Kind  SignalKind
	Width int
}

// BitType and BoolType are the two fixed-width signal types.
var (
	BitType  = SignalType{Kind: Bit, Width: 1}
	BoolType = SignalType{Kind: Bool, Width: 1}
)

// UIntType returns an unsigned signal type of the given width.
func UIntType(width int) SignalType {
	return SignalType{Kind: UInt, Width: width}
}

// SIntType returns a signed signal type of the given width.
func SIntType(width int) SignalType {
	return SignalType{Kind: SInt, Width: width}
}

func (t SignalType) String() string {
	switch t.Kind {
	case Bit:
		return "bit"
	case Bool:
		return "bool"
	case UInt:
		return fmt.Sprintf("uint(%d)", t.Width)
	case SInt:
		return fmt.Sprintf("sint(%d)", t.Width)
	default:
		return fmt.Sprintf("SignalKind(%d)", int(t.Kind))
	}
}
