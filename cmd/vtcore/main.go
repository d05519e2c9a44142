// Command vtcore hosts a child process on a PTY and renders its ANSI/VT100
// output to the current terminal.
package main

import (
	"fmt"
	"os"

	"github.com/zcg-coder/vtcore/internal/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
