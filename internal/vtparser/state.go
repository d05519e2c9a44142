package vtparser

import "fmt"

// State names the sub-state of the interpreter's escape-sequence state
// machine, per spec.md §9: "model this as an explicit state machine with
// states {Ground, Esc, CsiEntry, CsiParam, OscParam} driven by one scalar
// at a time". ProcessOne drives these transitions through nested helper
// calls rather than requiring the caller to feed one byte in and get one
// state transition out — CSI/OSC sequences are always completed within a
// single ProcessOne call, which is what keeps a whole sequence atomic
// under the state lock (spec.md §5).
type State uint8

const (
	StateGround State = iota
	StateEscape
	StateCSIEntry
	StateCSIParam
	StateOSCParam
)

func (s State) String() string {
	switch s {
	case StateGround:
		return "Ground"
	case StateEscape:
		return "Escape"
	case StateCSIEntry:
		return "CSIEntry"
	case StateCSIParam:
		return "CSIParam"
	case StateOSCParam:
		return "OSCParam"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}
