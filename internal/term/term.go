// Package term wires the interpreter, screen, cursor, modes, and
// dispatcher together around a child process's PTY, per spec.md §2: the
// producer (PTY read → Interpreter) and consumer (RenderTick) threads
// sharing one state lock.
package term

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"github.com/google/shlex"

	"github.com/zcg-coder/vtcore/internal/bytesource"
	"github.com/zcg-coder/vtcore/internal/cursor"
	"github.com/zcg-coder/vtcore/internal/dispatch"
	"github.com/zcg-coder/vtcore/internal/modes"
	"github.com/zcg-coder/vtcore/internal/screen"
	"github.com/zcg-coder/vtcore/internal/vtparser"
)

// Term owns the PTY lifecycle, the child process, and the shared state
// the producer and consumer threads mutate and read (spec.md §5).
type Term struct {
	Ptm *os.File
	Cmd *exec.Cmd

	Mu sync.Mutex // the state_lock of spec.md §5

	Buf      *screen.Buffer
	Cur      *cursor.State
	Modes    *modes.Registry
	Interp   *vtparser.Interpreter
	Dispatch *dispatch.Dispatcher

	done     chan struct{}
	doneOnce sync.Once
}

// New builds a Term over a height x width screen. FontW/FontH are the
// cell pixel dimensions the Dispatcher needs for resize and mouse-report
// math (spec.md §4.6); StartPTY must be called before any PTY I/O.
func New(display vtparser.Display, height, width, fontW, fontH int) *Term {
	buf := screen.New(height, width)
	cur := cursor.New(buf.Height)
	reg := modes.New()
	t := &Term{
		Buf:   buf,
		Cur:   cur,
		Modes: reg,
		done:  make(chan struct{}),
	}
	t.Interp = vtparser.New(buf, cur, reg, nil, display)
	t.Dispatch = &dispatch.Dispatcher{Modes: reg, FontW: fontW, FontH: fontH}
	return t
}

// StartPTY splits shellCmd into argv and starts it attached to a fresh
// PTY sized height x width.
func (t *Term) StartPTY(shellCmd string, height, width int) error {
	argv, err := shlex.Split(shellCmd)
	if err != nil {
		return fmt.Errorf("term: split shell command: %w", err)
	}
	if len(argv) == 0 {
		return fmt.Errorf("term: empty shell command")
	}

	t.Cmd = exec.Command(argv[0], argv[1:]...)
	t.Ptm, err = pty.StartWithSize(t.Cmd, &pty.Winsize{
		Rows: uint16(height),
		Cols: uint16(width),
	})
	if err != nil {
		return fmt.Errorf("term: start command: %w", err)
	}

	t.Interp.PTY = t.Ptm
	t.Dispatch.SetPTY(t.Ptm)
	return nil
}

// Done is closed once the producer thread observes PTY EOF/error and
// exits, per spec.md §7's "PTY read failure: fatal for the Interpreter
// thread; triggers graceful shutdown."
func (t *Term) Done() <-chan struct{} {
	return t.done
}

// PipeOutput is the producer thread: it decodes PTY bytes and drives the
// Interpreter one top-level unit at a time, each under the shared lock.
// It returns once the PTY read fails, closing Done.
func (t *Term) PipeOutput() {
	defer t.doneOnce.Do(func() { close(t.done) })
	src := bytesource.New(t.Ptm)
	t.Interp.Run(src.Runes(), func(step func()) {
		t.Mu.Lock()
		defer t.Mu.Unlock()
		step()
	})
}

// Snapshot is the state RenderTick reads: dirty line text keyed by row,
// cursor position, and whether the cursor should be drawn.
type Snapshot struct {
	DirtyRows     map[int]string
	Row, Col      int
	CursorVisible bool
}

// RenderTick snapshots dirty screen state and invokes draw while still
// holding the shared lock (spec.md §5: "RenderTick acquires the same
// lock around its snapshot-and-draw"), then clears the dirty set.
func (t *Term) RenderTick(draw func(Snapshot)) {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	rows := t.Buf.DirtyRows()
	dirty := make(map[int]string, len(rows))
	for _, r := range rows {
		dirty[r] = t.Buf.Line(r).Text()
	}
	snap := Snapshot{
		DirtyRows:     dirty,
		Row:           t.Cur.Row(),
		Col:           t.Cur.Col(),
		CursorVisible: t.Modes.Cursor,
	}
	draw(snap)
	t.Buf.ClearDirty()
}

// Resize implements spec.md §4.6's resize-event rule end to end: it asks
// the Dispatcher to convert pixel dims to cell dims and issue the PTY
// window-size control, then rebuilds the line store under the shared
// lock.
func (t *Term) Resize(pixelWidth, pixelHeight int) error {
	cols, rows, err := t.Dispatch.DispatchResize(pixelWidth, pixelHeight)
	if err != nil {
		return err
	}
	t.Mu.Lock()
	defer t.Mu.Unlock()
	t.Buf.Resize(rows, cols)
	t.Cur.Resize()
	return nil
}

// SetOSCColors primes the OSC 10/11 color-query handshake response the
// Interpreter answers with when the child shell asks, per spec.md §6.
func (t *Term) SetOSCColors(fg, bg string) {
	t.Interp.OscFg = fg
	t.Interp.OscBg = bg
}
