package screen

// Line is a single row of the screen: a sequence of Unicode scalar values
// plus a dirty flag (spec.md §3 Data Model). Runes, not bytes, are the
// unit of length and indexing here so column math lines up with what the
// interpreter yields from the byte stream.
type Line struct {
	runes []rune
	dirty bool
}

// Text returns the line's current contents.
func (l *Line) Text() string {
	return string(l.runes)
}

// Len returns the number of scalar values currently on the line.
func (l *Line) Len() int {
	return len(l.runes)
}

// Dirty reports whether the line has changed since the last ClearDirty.
func (l *Line) Dirty() bool {
	return l.dirty
}

func (l *Line) markDirty() {
	l.dirty = true
}

func (l *Line) clearDirty() {
	l.dirty = false
}
