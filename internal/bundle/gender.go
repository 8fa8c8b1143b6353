package bundle

import "fmt"

// Gender is the aggregate source/sink polarity of an instance, derived
// from its leaves' effective directions. It is never stored: connection
// legality is decided per leaf, gender exists for reporting.
type Gender int

const (
	// Male instances predominantly drive (Output leaves outnumber Input).
	Male Gender = iota
	// Female instances predominantly receive.
	Female
	// Mixed instances have an equal number of driving and receiving leaves.
	Mixed
)

func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	case Mixed:
		return "mixed"
	default:
		return fmt.Sprintf("Gender(%d)", int(g))
	}
}

// Gender derives the instance's aggregate polarity from its leaf set.
func (i *Instance) Gender() Gender {
	var outputs, inputs int
	for _, l := range i.leaves {
		if l.Dir == Output {
			outputs++
		} else {
			inputs++
		}
	}

	switch {
	case outputs > inputs:
		return Male
	case inputs > outputs:
		return Female
	default:
		return Mixed
	}
}
