package dispatch

import (
	"os"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/zcg-coder/vtcore/internal/modes"
)

// newTestDispatcher opens a real PTY pair: Dispatcher writes to the
// master end, mirroring how Term wires it in production (bytes written
// to the master are delivered as the child's stdin on the slave), and
// the test reads back from the slave end.
func newTestDispatcher(t *testing.T) (*Dispatcher, *os.File) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Fatalf("pty.Open: %v", err)
	}
	t.Cleanup(func() {
		ptmx.Close()
		tty.Close()
	})
	d := New(ptmx, modes.New(), 8, 16)
	return d, tty
}

func readN(t *testing.T, f *os.File, n int) []byte {
	t.Helper()
	f.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, n)
	got := 0
	for got < n {
		m, err := f.Read(buf[got:])
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		got += m
	}
	return buf[:got]
}

func TestDispatchText_WritesVerbatim(t *testing.T) {
	d, slave := newTestDispatcher(t)
	d.DispatchText("hi")
	if got, want := string(readN(t, slave, 2)), "hi"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDispatchKey_CtrlLetterWritesControlByte(t *testing.T) {
	d, slave := newTestDispatcher(t)
	d.DispatchKey(KeyEvent{Rune: 'c', Ctrl: true})
	if got, want := readN(t, slave, 1), []byte{0x03}; got[0] != want[0] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDispatchKey_CoreTable(t *testing.T) {
	d, slave := newTestDispatcher(t)
	d.DispatchKey(KeyEvent{Key: KeyUp})
	if got, want := string(readN(t, slave, 2)), "OA"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDispatchKey_ApplicationModeKeypad(t *testing.T) {
	d, slave := newTestDispatcher(t)
	d.Modes.Application = true
	d.DispatchKey(KeyEvent{Key: KeyNum5})
	if got, want := string(readN(t, slave, 2)), "Ou"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDispatchKey_KeypadIgnoredWithoutApplicationMode(t *testing.T) {
	d, slave := newTestDispatcher(t)
	d.DispatchKey(KeyEvent{Key: KeyNum5})
	slave.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	buf := make([]byte, 1)
	if _, err := slave.Read(buf); err == nil {
		t.Fatalf("expected no bytes written, got %v", buf)
	}
}

func TestDispatchScroll_MouseModeOffRepeatsCursorSeq(t *testing.T) {
	d, slave := newTestDispatcher(t)
	d.DispatchScroll(0, 0, -3)
	if got, want := string(readN(t, slave, 9)), "\x1b[A\x1b[A\x1b[A"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDispatchScroll_MouseModeOnSendsX10Report(t *testing.T) {
	d, slave := newTestDispatcher(t)
	d.Modes.Mouse = true
	d.DispatchScroll(16, 32, -1)
	got := readN(t, slave, 6)
	want := []byte{0x1b, '[', 'M', '`', byte(32 + 16/8), byte(32 + 32/16)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %v, want %v", i, got, want)
		}
	}
}

func TestKeyTable_Up(t *testing.T) {
	if got, want := keyTable[KeyUp], "OA"; got != want {
		t.Fatalf("KeyUp = %q, want %q", got, want)
	}
}

func TestKeyTable_NoLeadingEsc(t *testing.T) {
	// spec.md §9 Open Question 2: the table is CSI-less and ESC-less for
	// everything except the three keys that are themselves control bytes.
	for k, seq := range keyTable {
		if k == KeyBackspace || k == KeyEscape || k == KeyTab {
			continue
		}
		if len(seq) > 0 && seq[0] == 0x1b {
			t.Fatalf("key %v sequence %q has a leading ESC, want none", k, seq)
		}
	}
}

func TestKeypadTable_Num5SecondWins(t *testing.T) {
	// spec.md §9 Open Question 3: NUM_5 is assigned twice; the second
	// literal entry wins.
	if got, want := keypadTable[KeyNum5], "Ou"; got != want {
		t.Fatalf("KeyNum5 = %q, want %q", got, want)
	}
}

func TestKeypadTable_CoreDigits(t *testing.T) {
	want := map[Key]string{
		KeyNum0: "Op", KeyNum1: "Oq", KeyNum2: "Or", KeyNum3: "Os",
		KeyNum4: "Ot", KeyNum6: "Ov", KeyNum7: "Ow", KeyNum8: "Ox", KeyNum9: "Oy",
		KeyNumEnter: "OM",
	}
	for k, seq := range want {
		if got := keypadTable[k]; got != seq {
			t.Fatalf("keypadTable[%v] = %q, want %q", k, got, seq)
		}
	}
}
