package vtparser

import (
	"fmt"
	"log"
	"strings"

	"github.com/zcg-coder/vtcore/internal/screen"
)

// handleCSI implements spec.md §4.5's CSI sub-parser: an optional
// `<=>?` query byte, then digits and `;` building a parameter list, ended
// by the first byte that is neither a digit nor `;` (the final byte).
func (ip *Interpreter) handleCSI(next Next) {
	f, ok := next()
	if !ok {
		return
	}

	query := ""
	if strings.ContainsRune("<=>?", f) {
		query = string(f)
		f, ok = next()
		if !ok {
			return
		}
	}

	coms := []int{0}
	for ok && (f >= '0' && f <= '9' || f == ';') {
		if f == ';' {
			coms = append(coms, 0)
		} else {
			coms[len(coms)-1] = coms[len(coms)-1]*10 + int(f-'0')
		}
		f, ok = next()
	}
	if !ok {
		return
	}

	ip.state = StateCSIParam
	ip.dispatchCSI(query, coms, f)
}

// param returns coms[i], or 0 if the parameter list is too short.
func param(coms []int, i int) int {
	if i < len(coms) {
		return coms[i]
	}
	return 0
}

// orOne is spec.md §4.5's "n = coms[0] or 1" default.
func orOne(v int) int {
	if v == 0 {
		return 1
	}
	return v
}

func (ip *Interpreter) dispatchCSI(query string, coms []int, f rune) {
	height := ip.Buf.Height()
	n0 := param(coms, 0)
	n := orOne(n0)

	switch f {
	case 'A':
		ip.Cur.AddRow(-n)
	case 'B':
		ip.Cur.AddRow(n)
	case 'C':
		ip.Cur.AddCol(n)
	case 'D':
		ip.Cur.AddCol(-n)
	case 'G':
		col := n0 - 1
		if col < 0 {
			col = 0
		}
		ip.Cur.SetCol(col)
	case 'H':
		ip.Cur.SetRow(height - orOne(n0))
		if len(coms) > 1 {
			ip.Cur.SetCol(param(coms, 1) - 1)
		} else {
			ip.Cur.SetCol(0)
		}
	case 'J':
		ip.eraseDisplay(n0, height)
	case 'K':
		ip.eraseLine(n0)
	case 'L':
		ip.Buf.Remove(ip.Cur.MarginBottom())
		ip.Buf.InsertLine(ip.Cur.Row()+1, "")
	case 'M':
		for i := 0; i < n; i++ {
			ip.Buf.Remove(ip.Cur.Row())
			ip.Buf.InsertLine(ip.Cur.MarginBottom(), "")
		}
	case 'P':
		ip.Buf.Splice(ip.Cur.Row(), ip.Cur.Col(), ip.Cur.Col()+n)
	case 'S':
		for i := 0; i < n; i++ {
			ip.Buf.InsertLine(ip.Cur.MarginBottom(), "")
		}
	case 'T':
		for i := 0; i < n; i++ {
			ip.Buf.Remove(ip.Cur.MarginBottom())
			ip.Buf.InsertLine(ip.Cur.MarginTop(), "")
		}
	case 'X':
		// Matches the source's splice-then-insert exactly (spec.md §9
		// Open Question 6): splice drops [col, col+n) from the line, and
		// the follow-up write re-reads the now-shortened line, so any
		// text at or after col+n is destroyed rather than preserved, and
		// the cursor advances by n like any other write.
		col := ip.Cur.Col()
		ip.Buf.Splice(ip.Cur.Row(), col, col+n)
		ip.Buf.WriteAt(ip.Cur, strings.Repeat(" ", n), ip.Modes.Insert, ip.Modes.Autowrap)
	case 'Z':
		ip.Cur.SetCol((ip.Cur.Col()/8 - n) * 8)
	case 'd':
		ip.Cur.SetRow(height - n0)
	case 'c':
		if query == ">" {
			// Secondary DA, accepted silently.
			return
		}
		log.Printf("vtparser: unknown CSI %s%v%c", query, coms, f)
	case 'm':
		// SGR: no-op (spec.md non-goal: no attribute tracking).
	case 'n':
		if n0 == 6 {
			fmt.Fprintf(ip.PTY, "\x1b[%d;%dR", height-ip.Cur.Row(), ip.Cur.Col()+1)
		}
	case 'r':
		bottom := height - param(coms, 1)
		top := height - param(coms, 0)
		ip.Cur.SetMargins(bottom, top)
	case 'l', 'h':
		ip.setMode(n0, query, f == 'h')
	default:
		log.Printf("vtparser: unknown CSI %s%v%c", query, coms, f)
	}
}

func (ip *Interpreter) eraseDisplay(mode, height int) {
	row, col := ip.Cur.Row(), ip.Cur.Col()
	if mode == 0 || mode == 2 {
		ip.Buf.Splice(row, col, screen.InfEnd)
		for i := row - 1; i >= 0; i-- {
			ip.Buf.Splice(i, 0, screen.InfEnd)
		}
	}
	if mode == 1 || mode == 2 {
		ip.Buf.Splice(row, 0, col)
		for i := row + 1; i < height; i++ {
			ip.Buf.Splice(i, 0, screen.InfEnd)
		}
	}
}

func (ip *Interpreter) eraseLine(mode int) {
	row, col := ip.Cur.Row(), ip.Cur.Col()
	switch mode {
	case 0:
		ip.Buf.Splice(row, col, screen.InfEnd)
	case 1:
		ip.Buf.Splice(row, 0, col)
	case 2:
		ip.Buf.Splice(row, 0, screen.InfEnd)
	}
}

// setMode implements the DECSET/DECRST pairs of spec.md §4.5's l/h row.
func (ip *Interpreter) setMode(n0 int, query string, state bool) {
	switch {
	case n0 == 4 && query == "":
		ip.Modes.Insert = state
	case n0 == 7 && query == "":
		ip.Modes.Vertical = state
	case n0 == 7 && query == "?":
		ip.Modes.Autowrap = state
	case n0 == 25 && (query == "?" || query == ""):
		ip.Modes.Cursor = state
	case n0 == 1000 && (query == "?" || query == ""):
		ip.Modes.Mouse = state
	case n0 == 1049 && (query == "?" || query == ""):
		ip.Modes.Edit = state
	}
}
