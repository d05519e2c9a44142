// Package screen implements the ordered line buffer a terminal screen is
// made of: splice, insert_line, remove, and write_at, per spec.md §4.2.
// Row 0 is the bottom visible line; row height-1 is the top (§3,
// "Coordinate convention").
package screen

import "github.com/zcg-coder/vtcore/internal/cursor"

// Buffer is an ordered sequence of exactly Height lines.
type Buffer struct {
	height int
	width  int
	lines  []*Line
}

// New returns a Buffer of height empty lines, per spec.md §3 Lifecycle.
func New(height, width int) *Buffer {
	b := &Buffer{height: height, width: width}
	b.lines = make([]*Line, height)
	for i := range b.lines {
		b.lines[i] = &Line{}
	}
	return b
}

func (b *Buffer) Height() int { return b.height }
func (b *Buffer) Width() int  { return b.width }

// Line returns the line at the given row. Panics on an out-of-range row,
// same as indexing the underlying slice directly would.
func (b *Buffer) Line(row int) *Line {
	return b.lines[row]
}

// DirtyRows returns the indices of every line that changed since the last
// ClearDirty, in ascending order.
func (b *Buffer) DirtyRows() []int {
	var rows []int
	for i, l := range b.lines {
		if l.dirty {
			rows = append(rows, i)
		}
	}
	return rows
}

// ClearDirty resets every line's dirty flag, for use after a render tick
// has snapshotted the dirty rows.
func (b *Buffer) ClearDirty() {
	for _, l := range b.lines {
		l.clearDirty()
	}
}

func clip(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func (b *Buffer) markDirtyRange(from, to int) {
	if to > b.height {
		to = b.height
	}
	for i := from; i < to; i++ {
		if i >= 0 && i < len(b.lines) {
			b.lines[i].markDirty()
		}
	}
}

// InfEnd is passed to Splice as end to mean "to end of line" (spec.md
// §4.2: "end = ∞ means 'to end of line'").
const InfEnd = -1

// Splice replaces lines[row][start:end) with empty, per spec.md §4.2.
// end == InfEnd means "to end of line". Marks row dirty; does not move
// the cursor.
func (b *Buffer) Splice(row, start, end int) {
	line := b.lines[row]
	n := len(line.runes)
	s := clip(start, n)

	var tail []rune
	if end != InfEnd {
		e := clip(end, n)
		tail = append([]rune(nil), line.runes[e:]...)
	}

	result := make([]rune, 0, s+len(tail))
	result = append(result, line.runes[:s]...)
	result = append(result, tail...)
	line.runes = result
	line.markDirty()
}

// InsertLine drops the last line and inserts text at index, per spec.md
// §4.2 ("Note on insert_line"): net length stays Height. Marks
// [index, Height) dirty.
func (b *Buffer) InsertLine(index int, text string) {
	kept := b.lines[:len(b.lines)-1]
	newLines := make([]*Line, 0, b.height)
	newLines = append(newLines, kept[:index]...)
	newLines = append(newLines, &Line{runes: []rune(text), dirty: true})
	newLines = append(newLines, kept[index:]...)
	b.lines = newLines
	b.markDirtyRange(index, b.height)
}

// Remove deletes the line at index and appends an empty line at the end,
// per spec.md §4.2. Marks [index, Height) dirty.
func (b *Buffer) Remove(index int) {
	newLines := make([]*Line, 0, b.height)
	newLines = append(newLines, b.lines[:index]...)
	newLines = append(newLines, b.lines[index+1:]...)
	newLines = append(newLines, &Line{dirty: true})
	b.lines = newLines
	b.markDirtyRange(index, b.height)
}

func padTo(prefix []rune, col int) []rune {
	if len(prefix) >= col {
		return prefix[:col]
	}
	out := make([]rune, col)
	copy(out, prefix)
	for i := len(prefix); i < col; i++ {
		out[i] = ' '
	}
	return out
}

// WriteAt implements spec.md §4.2 write_at and the wrap policy of §4.4:
// pad the prefix with spaces to col if shorter, splice text in at column
// col (insertMode preserves and shifts the tail right, otherwise the tail
// is overwritten), and advance the cursor column by len(text). If the
// pre-splice line length was >= width, apply the documented (and
// deliberately preserved, see spec.md §9 Open Question 1) wrap behavior.
func (b *Buffer) WriteAt(cur *cursor.State, text string, insertMode, autowrap bool) {
	row := cur.Row()
	col := cur.Col()
	line := b.lines[row]
	preLen := len(line.runes)

	chars := []rune(text)
	prefix := padTo(line.runes[:clip(col, len(line.runes))], col)

	var tail []rune
	if insertMode {
		tail = append([]rune(nil), line.runes[clip(col, len(line.runes)):]...)
	} else {
		skipTo := col + len(chars)
		tail = append([]rune(nil), line.runes[clip(skipTo, len(line.runes)):]...)
	}

	result := make([]rune, 0, len(prefix)+len(chars)+len(tail))
	result = append(result, prefix...)
	result = append(result, chars...)
	result = append(result, tail...)
	line.runes = result
	line.markDirty()

	cur.AddCol(len(chars))

	if preLen >= b.width {
		if autowrap {
			b.InsertLine(0, "")
			cur.SetCol(0)
			// Re-read the (now shifted) row's content, per spec.md §9
			// Open Question 1: this reproduces the source's unusual
			// autowrap path exactly rather than reinterpreting it.
			shifted := b.lines[row]
			var overflow string
			if b.width < len(shifted.runes) {
				overflow = string(shifted.runes[b.width:])
			}
			b.WriteAt(cur, overflow, insertMode, autowrap)
			if row+1 < b.height {
				b.Splice(row+1, b.width, InfEnd)
				b.lines[row+1].markDirty()
			}
		} else {
			b.Splice(row, b.width, InfEnd)
		}
	}
	b.lines[row].markDirty()
}

// Resize truncates or pads lines with empties at the top (index 0), per
// spec.md §3 Lifecycle.
func (b *Buffer) Resize(height, width int) {
	if height > b.height {
		grown := make([]*Line, 0, height)
		for i := 0; i < height-b.height; i++ {
			grown = append(grown, &Line{dirty: true})
		}
		grown = append(grown, b.lines...)
		b.lines = grown
	} else if height < b.height {
		b.lines = b.lines[b.height-height:]
	}
	b.height = height
	b.width = width
	for _, l := range b.lines {
		l.markDirty()
	}
}
