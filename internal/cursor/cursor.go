// Package cursor implements the bounded cursor/margin coordinate model
// described in spec.md §3 and §4.3: row and column are clamped against
// scroll margins and zero respectively, and every margin write re-clamps
// the row.
package cursor

// State holds the cursor position, saved cursor, and scroll margins for a
// screen of a given height. heightFn is consulted lazily so the cursor
// tracks a ScreenBuffer that may be resized after construction.
type State struct {
	heightFn func() int

	marginTop    *BoundedInt // [0, height-1], initialized to height-1 ("full screen")
	marginBottom *BoundedInt // [0, height-1], initialized to 0 ("full screen")
	row          *BoundedInt // [marginBottom, marginTop]
	col          *BoundedInt // [0, +inf)

	savedRow, savedCol int
}

// New returns a State for a screen whose height is reported by heightFn,
// with the cursor at (margin_bottom, 0) and full-screen margins, per
// spec.md §3 Lifecycle.
func New(heightFn func() int) *State {
	s := &State{heightFn: heightFn}
	s.marginTop = NewBoundedInt(heightFn()-1, func() int { return 0 }, func() int { return s.heightFn() - 1 })
	s.marginBottom = NewBoundedInt(0, func() int { return 0 }, func() int { return s.heightFn() - 1 })
	s.row = NewBoundedInt(s.marginBottom.Get(), s.marginBottom.Get, s.marginTop.Get)
	s.col = NewBoundedInt(0, func() int { return 0 }, nil)
	s.savedRow, s.savedCol = s.row.Get(), s.col.Get()
	return s
}

func (s *State) Row() int { return s.row.Get() }
func (s *State) Col() int { return s.col.Get() }

func (s *State) SetRow(v int) { s.row.Set(v) }
func (s *State) SetCol(v int) { s.col.Set(v) }

func (s *State) AddRow(delta int) { s.row.Add(delta) }
func (s *State) AddCol(delta int) { s.col.Add(delta) }

func (s *State) MarginTop() int    { return s.marginTop.Get() }
func (s *State) MarginBottom() int { return s.marginBottom.Get() }

// SetMargins assigns both margins and re-clamps row against the new
// bounds, per spec.md §4.3: "every margin write re-clamps row".
func (s *State) SetMargins(bottom, top int) {
	s.marginBottom.Set(bottom)
	s.marginTop.Set(top)
	s.row.Reclamp()
}

// Save stores the current cursor position for a later Restore (ESC 7).
func (s *State) Save() {
	s.savedRow, s.savedCol = s.row.Get(), s.col.Get()
}

// Restore moves the cursor back to the last Saved position (ESC 8). If
// Save was never called, this restores the zero value, matching the
// source's saved_cursor default of (0, 0) at construction time.
func (s *State) Restore() {
	s.row.Set(s.savedRow)
	s.col.Set(s.savedCol)
}

// Resize re-clamps margins and row after the owning screen's height
// changes; col's bounds do not depend on height and it is left as is.
// Call after the ScreenBuffer has adopted the new height.
func (s *State) Resize() {
	s.marginTop.Reclamp()
	s.marginBottom.Reclamp()
	s.row.Reclamp()
}
