// Package vtparser implements the ECMA-48/VT100 interpreter described in
// spec.md §4: the control-character table, the ESC sub-states, and the
// CSI/OSC sub-parsers, driving a screen.Buffer, cursor.State, and
// modes.Registry.
package vtparser

import (
	"io"
	"log"
	"strings"

	"github.com/zcg-coder/vtcore/internal/cursor"
	"github.com/zcg-coder/vtcore/internal/modes"
	"github.com/zcg-coder/vtcore/internal/screen"
)

// Display is the subset of the external rendering backend the
// interpreter talks to directly: the window caption (OSC 0), the
// audible bell marker, and the dirty/"invalid" flag that tells the
// display a repaint is due. Everything else about rendering (line text,
// cursor position) is read by RenderTick, not pushed here.
type Display interface {
	SetCaption(caption string)
	Bell()
	Invalidate()
}

// Next pulls the next decoded scalar from the byte source. ok is false
// when the source has terminated (spec.md §4.1).
type Next func() (rune, bool)

// Interpreter is the parser/state-machine that consumes a byte source and
// mutates a Buffer, cursor State, and mode Registry (spec.md §2).
type Interpreter struct {
	Buf     *screen.Buffer
	Cur     *cursor.State
	Modes   *modes.Registry
	PTY     io.Writer // child PTY master, for writes the interpreter itself issues (CPR)
	Display Display

	// OscFg, OscBg are the cached OSC 10/11 (foreground/background color
	// query) responses. Empty means "answer nothing" — no query has been
	// primed by the display layer yet.
	OscFg, OscBg string

	state State // last-entered sub-state, for introspection/tests
}

// New constructs an Interpreter over the given components.
func New(buf *screen.Buffer, cur *cursor.State, reg *modes.Registry, pty io.Writer, disp Display) *Interpreter {
	return &Interpreter{Buf: buf, Cur: cur, Modes: reg, PTY: pty, Display: disp, state: StateGround}
}

// State returns the sub-state the interpreter last entered. Useful for
// tests; after a ProcessOne call it holds the deepest sub-state that call
// reached (StateGround for a plain character, StateCSIParam after a
// complete CSI sequence, and so on). Each ProcessOne call starts from
// StateGround.
func (ip *Interpreter) State() State {
	return ip.state
}

// Run drives the interpreter until next is exhausted, i.e. until the
// producer's PTY read fails (spec.md §4.1, §5). withLock is called
// around each ProcessOne step and must call step; pass
// func(step func()) { step() } if the caller already holds the
// appropriate lock for the whole call.
func (ip *Interpreter) Run(next Next, withLock func(step func())) {
	for {
		more := true
		withLock(func() {
			more = ip.ProcessOne(next)
		})
		if !more {
			return
		}
	}
}

// ProcessOne consumes exactly one top-level unit from next: a single
// plain character, or one complete ESC/CSI/OSC sequence. It returns false
// once next() reports the source has ended while ProcessOne was waiting
// to start a new unit (a clean place to stop).
func (ip *Interpreter) ProcessOne(next Next) bool {
	c, ok := next()
	if !ok {
		return false
	}
	ip.state = StateGround
	ip.dispatchGround(c, next)
	ip.Display.Invalidate()
	return true
}

func (ip *Interpreter) dispatchGround(c rune, next Next) {
	switch c {
	case '\n':
		if ip.Cur.Row() == ip.Cur.MarginBottom() {
			ip.Buf.InsertLine(ip.Cur.Row(), "")
		} else {
			ip.Cur.AddRow(-1)
		}
		ip.Cur.SetCol(0)
	case '\r':
		ip.Cur.SetCol(0)
	case '\b':
		ip.Cur.AddCol(-1)
	case '\x07':
		ip.Display.Bell()
	case '\t':
		pad := 8 - ip.Cur.Col()%8
		ip.Buf.WriteAt(ip.Cur, strings.Repeat(" ", pad), ip.Modes.Insert, ip.Modes.Autowrap)
	case '\x1b':
		ip.state = StateEscape
		ip.handleEscape(next)
	default:
		ip.Buf.WriteAt(ip.Cur, string(c), ip.Modes.Insert, ip.Modes.Autowrap)
	}
}

// handleEscape implements spec.md §4.5's ESC sub-states.
func (ip *Interpreter) handleEscape(next Next) {
	f, ok := next()
	if !ok {
		return
	}
	switch f {
	case '[':
		ip.state = StateCSIEntry
		ip.handleCSI(next)
	case '(', ')':
		// Character-set designation: consume and discard one more scalar.
		next()
	case ']':
		ip.state = StateOSCParam
		ip.handleOSC(next)
	case '=':
		ip.Modes.Application = true
	case '>':
		ip.Modes.Application = false
	case 'M':
		ip.Buf.Remove(ip.Cur.MarginBottom())
	case '7':
		ip.Cur.Save()
	case '8':
		ip.Cur.Restore()
	default:
		log.Printf("vtparser: unknown ESC sequence ESC %q", f)
		ip.Buf.WriteAt(ip.Cur, "\x1b"+string(f), ip.Modes.Insert, ip.Modes.Autowrap)
	}
}
