package vtparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// CSI dispatch table tests, grounded on cliofy-govte's testify-based
// assertion style for repetitive table coverage.
func TestCSI_DispatchTable(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantRow int
		wantCol int
	}{
		{name: "cursor up (A)", input: "\x1b[2A", wantRow: 2, wantCol: 0},
		{name: "cursor down (B)", input: "\x1b[2B", wantRow: 4, wantCol: 0},
		{name: "cursor forward (C)", input: "\x1b[3C", wantRow: 4, wantCol: 3},
		{name: "cursor back (D)", input: "\x1b[9C\x1b[3D", wantRow: 4, wantCol: 6},
		{name: "column absolute (G)", input: "\x1b[5G", wantRow: 4, wantCol: 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(5, 10)
			h.feed(tc.input)
			assert.Equal(t, tc.wantRow, h.cur.Row(), "row")
			assert.Equal(t, tc.wantCol, h.cur.Col(), "col")
		})
	}
}

func TestCSI_EraseLine(t *testing.T) {
	cases := []struct {
		name  string
		setup string
		mode  string
		want  string
	}{
		{name: "mode 0 erases from cursor to end", setup: "hello\x1b[3G", mode: "\x1b[0K", want: "he"},
		{name: "mode 1 erases from start to cursor", setup: "hello\x1b[3G", mode: "\x1b[1K", want: "llo"},
		{name: "mode 2 erases whole line", setup: "hello\x1b[3G", mode: "\x1b[2K", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(5, 10)
			h.feed(tc.setup)
			h.feed(tc.mode)
			assert.Equal(t, tc.want, h.buf.Line(4).Text())
		})
	}
}

// writeRows fills a 5x10 harness with "r0".."r4" on their matching rows
// (row N holds the literal "rN"), cursor left at row 0 afterward.
func writeRows(h *harness) {
	h.feed("r4\r\nr3\r\nr2\r\nr1\r\nr0")
}

func TestCSI_InsertLine(t *testing.T) {
	// CSI L evicts the bottom-margin line and opens a blank line above
	// the cursor, per spec.md §4.5 (n is ignored, matching the source).
	h := newHarness(5, 10)
	writeRows(h)
	h.feed("\x1b[3;1H") // CUP: row = 5-3 = 2, col = 0

	h.feed("\x1b[L")

	assert.Equal(t, "r1", h.buf.Line(0).Text())
	assert.Equal(t, "r2", h.buf.Line(1).Text())
	assert.Equal(t, "r3", h.buf.Line(2).Text())
	assert.Equal(t, "", h.buf.Line(3).Text())
	assert.Equal(t, "r4", h.buf.Line(4).Text())
}

func TestCSI_DeleteLine(t *testing.T) {
	// CSI M deletes the current row and opens a blank line at the
	// bottom margin.
	h := newHarness(5, 10)
	writeRows(h)
	h.feed("\x1b[3;1H") // CUP: row = 5-3 = 2, col = 0

	h.feed("\x1b[1M")

	assert.Equal(t, "", h.buf.Line(0).Text())
	assert.Equal(t, "r0", h.buf.Line(1).Text())
	assert.Equal(t, "r1", h.buf.Line(2).Text())
	assert.Equal(t, "r3", h.buf.Line(3).Text())
	assert.Equal(t, "r4", h.buf.Line(4).Text())
}

func TestCSI_DeleteChars(t *testing.T) {
	// col = 5-1 = 4 points at 'e'; deleting 2 chars removes "ef" and
	// shifts nothing in from the right (there's nothing past 'f').
	h := newHarness(5, 10)
	h.feed("abcdef\x1b[5G")
	h.feed("\x1b[2P")
	assert.Equal(t, "abcd", h.buf.Line(4).Text())
}

func TestCSI_EraseChars(t *testing.T) {
	// spec.md §9 Open Question 6: ECH splices [col, col+n) out of the
	// line, then writes n spaces back in by re-reading the now-shortened
	// line — so text at or after col+n is destroyed rather than
	// preserved, and the cursor advances by n like any other write.
	h := newHarness(5, 10)
	h.feed("abcdef\x1b[1G")
	h.feed("\x1b[3X")
	assert.Equal(t, "   ", h.buf.Line(4).Text())
	assert.Equal(t, 3, h.cur.Col())
}

func TestCSI_BackTab(t *testing.T) {
	h := newHarness(5, 30)
	h.feed("\x1b[17G") // col = 16
	h.feed("\x1b[1Z")  // col = (16//8 - 1)*8 = (2-1)*8 = 8
	assert.Equal(t, 8, h.cur.Col())
}

func TestCSI_RowAbsolute_d(t *testing.T) {
	h := newHarness(5, 10)
	h.feed("\x1b[2d") // row = height - 2 = 3
	assert.Equal(t, 3, h.cur.Row())
}

func TestCSI_ScrollRegion(t *testing.T) {
	h := newHarness(10, 10)
	h.feed("\x1b[2;8r") // margin_bottom = 10-8=2, margin_top = 10-2=8
	assert.Equal(t, 2, h.cur.MarginBottom())
	assert.Equal(t, 8, h.cur.MarginTop())
}

func TestCSI_ModeToggles(t *testing.T) {
	cases := []struct {
		name  string
		seq   string
		check func(h *harness) bool
	}{
		{"insert on", "\x1b[4h", func(h *harness) bool { return h.reg.Insert }},
		{"insert off", "\x1b[4h\x1b[4l", func(h *harness) bool { return !h.reg.Insert }},
		{"vertical on", "\x1b[7h", func(h *harness) bool { return h.reg.Vertical }},
		{"autowrap on", "\x1b[?7h", func(h *harness) bool { return h.reg.Autowrap }},
		{"mouse on", "\x1b[?1000h", func(h *harness) bool { return h.reg.Mouse }},
		{"edit on", "\x1b[?1049h", func(h *harness) bool { return h.reg.Edit }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(5, 10)
			h.feed(tc.seq)
			assert.True(t, tc.check(h))
		})
	}
}

func TestCSI_SecondaryDA_NoOp(t *testing.T) {
	h := newHarness(5, 10)
	h.feed("\x1b[>0c")
	assert.Equal(t, "", h.pty.String())
}

func TestCSI_SGR_NoOp(t *testing.T) {
	h := newHarness(5, 10)
	h.feed("\x1b[1;31m")
	assert.Equal(t, "", h.buf.Line(4).Text())
}
