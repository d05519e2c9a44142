// Package termdisplay implements vtparser.Display against a real
// attached terminal: raw-mode I/O, SIGWINCH-driven resize, and the OSC
// 10/11 color handshake primed before raw mode is entered.
package termdisplay

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Terminal is a vtparser.Display backed by the process's controlling
// terminal. Construct with New, call DetectColors then EnterRaw in that
// order (color detection must happen before raw mode changes echo/ICRNL
// behavior), and Restore on exit.
type Terminal struct {
	out     *os.File
	fd      int
	restore *term.State

	invalid int32 // atomic: set by Invalidate, cleared by RenderDue
}

// New wraps out (normally os.Stdout) as a Display.
func New(out *os.File) *Terminal {
	return &Terminal{out: out, fd: int(out.Fd())}
}

// IsTTY reports whether out is attached to a real terminal. Callers
// should skip raw mode, resize watching, and color detection when false
// (e.g. output piped to a file).
func (t *Terminal) IsTTY() bool {
	return isatty.IsTerminal(uintptr(t.fd)) || isatty.IsCygwinTerminal(uintptr(t.fd))
}

// Size reports the current terminal size in cells.
func (t *Terminal) Size() (cols, rows int, err error) {
	return term.GetSize(t.fd)
}

// DetectColors inspects the real terminal's foreground/background colors
// before raw mode is entered, for the OSC 10/11 handshake (spec.md §6).
// Returns X11 rgb: strings, or empty if detection failed.
func (t *Terminal) DetectColors() (fg, bg string) {
	output := termenv.NewOutput(t.out)
	if c := output.ForegroundColor(); c != nil {
		fg = colorToX11(c)
	}
	if c := output.BackgroundColor(); c != nil {
		bg = colorToX11(c)
	}
	return fg, bg
}

// colorToX11 converts a termenv.Color to X11 rgb: format, the form OSC
// 10/11 responses use.
func colorToX11(c termenv.Color) string {
	rgb := termenv.ConvertToRGB(c)
	r := uint16(rgb.R*255+0.5) * 0x101
	g := uint16(rgb.G*255+0.5) * 0x101
	b := uint16(rgb.B*255+0.5) * 0x101
	return fmt.Sprintf("rgb:%04x/%04x/%04x", r, g, b)
}

// EnterRaw puts the terminal into raw mode, saving the prior state for
// Restore.
func (t *Terminal) EnterRaw() error {
	prev, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("termdisplay: enter raw mode: %w", err)
	}
	t.restore = prev
	return nil
}

// Restore returns the terminal to the state captured by EnterRaw.
func (t *Terminal) Restore() error {
	if t.restore == nil {
		return nil
	}
	return term.Restore(t.fd, t.restore)
}

// WatchResize runs until stop is closed, invoking onResize with the new
// cell size on every SIGWINCH.
func (t *Terminal) WatchResize(stop <-chan struct{}, onResize func(cols, rows int)) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)
	for {
		select {
		case <-stop:
			return
		case <-sigCh:
			cols, rows, err := t.Size()
			if err != nil {
				continue
			}
			onResize(cols, rows)
		}
	}
}

// SetCaption implements vtparser.Display: it forwards the OSC 0 window
// caption straight through to the real terminal.
func (t *Terminal) SetCaption(caption string) {
	fmt.Fprintf(t.out, "\x1b]0;%s\x07", caption)
}

// Bell implements vtparser.Display: it passes the BEL byte through so
// the real terminal emulator decides how to render it.
func (t *Terminal) Bell() {
	t.out.Write([]byte{0x07})
}

// Invalidate implements vtparser.Display: it marks a repaint as due.
// RenderDue clears the flag; the display's periodic scheduler should
// call it each tick and skip drawing when nothing changed.
func (t *Terminal) Invalidate() {
	atomic.StoreInt32(&t.invalid, 1)
}

// RenderDue reports and clears whether Invalidate has fired since the
// last call.
func (t *Terminal) RenderDue() bool {
	return atomic.SwapInt32(&t.invalid, 0) == 1
}
