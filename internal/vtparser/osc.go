package vtparser

import "fmt"

// handleOSC implements spec.md §4.5's OSC sub-parser: `;`-separated
// parameters terminated by BEL. OSC 0 sets the window caption; OSC 10/11
// with a `?` argument are the foreground/background color query
// handshake a shell issues on startup, answered from the cached
// OscFg/OscBg (populated by the display layer before raw mode). Anything
// else is accumulated and discarded, matching the source.
func (ip *Interpreter) handleOSC(next Next) {
	coms := []string{""}
	for {
		c, ok := next()
		if !ok {
			return
		}
		if c == '\x07' {
			break
		}
		if c == ';' {
			coms = append(coms, "")
		} else {
			coms[len(coms)-1] += string(c)
		}
	}
	if len(coms) < 2 {
		return
	}
	switch coms[0] {
	case "0":
		ip.Display.SetCaption(coms[1])
	case "10":
		if coms[1] == "?" && ip.OscFg != "" {
			fmt.Fprintf(ip.PTY, "\x1b]10;%s\x1b\\", ip.OscFg)
		}
	case "11":
		if coms[1] == "?" && ip.OscBg != "" {
			fmt.Fprintf(ip.PTY, "\x1b]11;%s\x1b\\", ip.OscBg)
		}
	}
}
