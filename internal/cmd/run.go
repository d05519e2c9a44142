package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zcg-coder/vtcore/internal/config"
	"github.com/zcg-coder/vtcore/internal/term"
	"github.com/zcg-coder/vtcore/internal/termdisplay"
)

func newRunCmd() *cobra.Command {
	var name, shell string
	var rows, cols, fontW, fontH int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Host a command on a PTY and attach the current terminal to it",
		Long: `run starts the command given by --shell (default: $SHELL) attached to a
fresh PTY, interprets its output as ANSI/VT100, and renders the result to
the current terminal until the command exits. Positional arguments are
ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.ApplyDefaults()
			if shell != "" {
				cfg.Shell = shell
			}
			if rows > 0 {
				cfg.Rows = rows
			}
			if cols > 0 {
				cfg.Cols = cols
			}
			if fontW > 0 {
				cfg.FontW = fontW
			}
			if fontH > 0 {
				cfg.FontH = fontH
			}

			if name == "" {
				name = config.NewSessionID()[:8]
			}

			sessionDir, lock, err := config.SetupSessionDir(name)
			if err != nil {
				return fmt.Errorf("setup session dir: %w", err)
			}
			defer lock.Unlock()

			sessionID := config.NewSessionID()
			return runSession(cmd, cfg, sessionDir, name, sessionID)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Session name (auto-generated if omitted)")
	cmd.Flags().StringVar(&shell, "shell", "", "Shell command to run (default: $SHELL)")
	cmd.Flags().IntVar(&rows, "rows", 0, "Initial PTY rows (default 24)")
	cmd.Flags().IntVar(&cols, "cols", 0, "Initial PTY cols (default 80)")
	cmd.Flags().IntVar(&fontW, "font-width", 0, "Cell width in pixels, for resize/mouse math (default 8)")
	cmd.Flags().IntVar(&fontH, "font-height", 0, "Cell height in pixels, for resize/mouse math (default 16)")

	return cmd
}

func runSession(cmd *cobra.Command, cfg *config.Config, sessionDir, name, sessionID string) error {
	disp := termdisplay.New(os.Stdout)

	fg, bg := "", ""
	if disp.IsTTY() {
		fg, bg = disp.DetectColors()
	}

	t := term.New(disp, cfg.Rows, cfg.Cols, cfg.FontW, cfg.FontH)
	t.SetOSCColors(fg, bg)

	if err := t.StartPTY(cfg.Shell, cfg.Rows, cfg.Cols); err != nil {
		return err
	}

	if err := config.WriteSessionMetadata(sessionDir, config.SessionMetadata{
		SessionID: sessionID,
		Name:      name,
		Shell:     cfg.Shell,
		PID:       t.Cmd.Process.Pid,
		Rows:      cfg.Rows,
		Cols:      cfg.Cols,
	}); err != nil {
		return fmt.Errorf("write session metadata: %w", err)
	}

	if disp.IsTTY() {
		if err := disp.EnterRaw(); err != nil {
			return err
		}
		defer disp.Restore()
	}

	stop := make(chan struct{})
	defer close(stop)
	if disp.IsTTY() {
		go disp.WatchResize(stop, func(cols, rows int) {
			t.Resize(cols*cfg.FontW, rows*cfg.FontH)
		})
	}

	go t.PipeOutput()
	go func() { io.Copy(t.Ptm, os.Stdin) }()
	go renderLoop(t, disp, stop)

	<-t.Done()
	return t.Cmd.Wait()
}

// renderLoop polls the display's invalidate flag and re-draws dirty rows to
// the real terminal, using absolute cursor addressing for each changed row
// (spec.md §2's RenderTick consumer thread). Screen rows count up from the
// bottom, so row r is drawn on terminal line height-r.
func renderLoop(t *term.Term, disp *termdisplay.Terminal, stop <-chan struct{}) {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !disp.RenderDue() {
				continue
			}
			t.RenderTick(func(snap term.Snapshot) {
				height := t.Buf.Height()
				for row, text := range snap.DirtyRows {
					fmt.Fprintf(os.Stdout, "\x1b[%d;1H\x1b[2K%s", height-row, text)
				}
				fmt.Fprintf(os.Stdout, "\x1b[%d;%dH", height-snap.Row, snap.Col+1)
			})
		}
	}
}
