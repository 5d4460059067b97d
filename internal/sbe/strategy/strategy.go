// Package strategy wraps the comparator engine with a named policy that
// demands a minimum acceptable CompatibilityLevel.
package strategy

import "github.com/Polqt/sbeschema/internal/sbe/compat"

// Strategy is a tagged variant over the four named compatibility
// policies. A generic trait bound would work equally well here, but a
// closed enum keeps type parameters out of the Validator API entirely.
type Strategy int

const (
	// None accepts every verdict, including None itself.
	None Strategy = iota
	// Backward accepts NoChange, Full, Backward.
	Backward
	// Forward accepts NoChange, Full, Forward.
	Forward
	// Full accepts only NoChange, Full.
	Full
)

func (s Strategy) String() string {
	switch s {
	case None:
		return "None"
	case Backward:
		return "Backward"
	case Forward:
		return "Forward"
	case Full:
		return "Full"
	default:
		return "Unknown"
	}
}

// accepts reports whether level meets the strategy's minimum threshold.
func (s Strategy) accepts(level compat.CompatibilityLevel) bool {
	switch s {
	case None:
		return true
	case Backward:
		return level == compat.NoChange || level == compat.Full || level == compat.Backward
	case Forward:
		return level == compat.NoChange || level == compat.Full || level == compat.Forward
	case Full:
		return level == compat.NoChange || level == compat.Full
	default:
		return false
	}
}

// Parse resolves the CLI/config spelling of a strategy name: the
// lowercase ("backward", "forward", "full", "none") or capitalised
// ("Backward", ...) form. Other spellings are rejected.
func Parse(name string) (Strategy, bool) {
	switch name {
	case "none", "None":
		return None, true
	case "backward", "Backward":
		return Backward, true
	case "forward", "Forward":
		return Forward, true
	case "full", "Full":
		return Full, true
	default:
		return 0, false
	}
}
