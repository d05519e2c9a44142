// Package dispatch implements spec.md §4.6: translating input events from
// the display layer (key presses, pasted text, scroll-wheel motion, window
// resize) into bytes written back to the PTY, keyed by the current mode
// set.
package dispatch

import (
	"fmt"
	"log"
	"os"

	"github.com/creack/pty"

	"github.com/zcg-coder/vtcore/internal/modes"
)

// Key names a non-printable key the display layer can report. Zero value
// KeyNone means "no named key" — look at the event's Rune instead.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyBackspace
	KeyEscape
	KeyTab

	// Numeric keypad, application mode only.
	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9
	KeyNumEnter
)

// keyTable is spec.md §4.6's core key sequence table. These are the
// CSI-less, ESC-less `O`-prefixed forms the source emits — a real
// terminal would send `ESC O A` for Up, not `OA` — preserved verbatim
// per spec.md §9 Open Question 2.
var keyTable = map[Key]string{
	KeyUp:        "OA",
	KeyDown:      "OB",
	KeyRight:     "OC",
	KeyLeft:      "OD",
	KeyHome:      "OH",
	KeyEnd:       "OF",
	KeyPageUp:    "[5~",
	KeyPageDown:  "[6~",
	KeyF1:        "OP",
	KeyF2:        "OQ",
	KeyF3:        "OR",
	KeyF4:        "OS",
	KeyF5:        "OT",
	KeyF6:        "OU",
	KeyF7:        "OV",
	KeyF8:        "OW",
	KeyF9:        "OX",
	KeyF10:       "OY",
	KeyF11:       "OZ",
	KeyF12:       "[24~",
	KeyBackspace: "\x7f",
	KeyEscape:    "\x1b",
	KeyTab:       "\t",
}

// keypadTable is the application-mode numeric keypad table. The source's
// dict literal assigns NUM_5 twice, and the second entry wins at
// literal-eval time (spec.md §9 Open Question 3); Go rejects a duplicate
// constant key in a map literal at compile time, so the same
// assign-then-reassign is expressed as two sequential statements instead,
// preserving "the second write wins" without a literal collision.
var keypadTable = map[Key]string{
	KeyNum0:     "Op",
	KeyNum1:     "Oq",
	KeyNum2:     "Or",
	KeyNum3:     "Os",
	KeyNum4:     "Ot",
	KeyNum6:     "Ov",
	KeyNum7:     "Ow",
	KeyNum8:     "Ox",
	KeyNum9:     "Oy",
	KeyNumEnter: "OM",
}

func init() {
	keypadTable[KeyNum5] = "Ot" // shadowed by the reassignment below
	keypadTable[KeyNum5] = "Ou" // wins
}

// KeyEvent is a single keypress. Rune carries the typed character for
// plain/Ctrl input; Key names a non-printable key from the table above.
type KeyEvent struct {
	Rune rune
	Key  Key
	Ctrl bool
}

// Dispatcher writes PTY-bound bytes for display-layer input events. It
// does not take the shared state lock (spec.md §5): PTY writes are
// independent of screen state.
type Dispatcher struct {
	pty   *os.File
	Modes *modes.Registry
	FontW int // cell width in pixels, for mouse-report cell math
	FontH int // cell height in pixels
}

// New returns a Dispatcher writing to the given PTY master.
func New(p *os.File, reg *modes.Registry, fontW, fontH int) *Dispatcher {
	return &Dispatcher{pty: p, Modes: reg, FontW: fontW, FontH: fontH}
}

// SetPTY attaches the PTY master once it exists. Used when a Dispatcher
// must be constructed before the child process (and its PTY) starts.
func (d *Dispatcher) SetPTY(p *os.File) {
	d.pty = p
}

// DispatchText writes a pasted/typed Unicode string verbatim as UTF-8.
func (d *Dispatcher) DispatchText(s string) {
	d.pty.Write([]byte(s))
}

// DispatchKey implements spec.md §4.6's key-event rule: Ctrl+[a-z] becomes
// the control byte; otherwise consult the core table, then (if
// application mode is on) the keypad table; otherwise log and drop.
func (d *Dispatcher) DispatchKey(ev KeyEvent) {
	if ev.Ctrl && ev.Rune >= 'a' && ev.Rune <= 'z' {
		d.pty.Write([]byte{byte(ev.Rune - 96)})
		return
	}
	if seq, ok := keyTable[ev.Key]; ok {
		d.pty.Write([]byte(seq))
		return
	}
	if d.Modes.Application {
		if seq, ok := keypadTable[ev.Key]; ok {
			d.pty.Write([]byte(seq))
			return
		}
	}
	log.Printf("dispatch: unknown key event %+v", ev)
}

// DispatchScroll implements spec.md §4.6's mouse-scroll rule. x, y are
// the pointer's pixel position; dy is the wheel delta (negative is
// scroll-up by convention, matching the source).
func (d *Dispatcher) DispatchScroll(x, y, dy int) {
	n := dy
	if n < 0 {
		n = -n
	}
	if !d.Modes.Mouse {
		seq := "\x1b[B"
		if dy < 0 {
			seq = "\x1b[A"
		}
		for i := 0; i < n; i++ {
			d.pty.Write([]byte(seq))
		}
		return
	}

	btn := byte('a')
	if dy < 0 {
		btn = '`'
	}
	cx := byte(32 + x/d.FontW)
	cy := byte(32 + y/d.FontH)
	report := []byte{0x1b, '[', 'M', btn, cx, cy}
	for i := 0; i < n; i++ {
		d.pty.Write(report)
	}
}

// DispatchResize implements spec.md §4.6's resize-event rule: convert a
// pixel-space resize to cell dims and issue the OS-level PTY window-size
// control. It returns the new (cols, rows) so the caller can rebuild the
// line store and labels.
func (d *Dispatcher) DispatchResize(pixelWidth, pixelHeight int) (cols, rows int, err error) {
	cols = pixelWidth / d.FontW
	rows = pixelHeight / d.FontH
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if err := pty.Setsize(d.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		return cols, rows, fmt.Errorf("dispatch: set PTY size: %w", err)
	}
	return cols, rows, nil
}
