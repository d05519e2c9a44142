package cursor

// BoundedInt carries an int whose assignments are clamped against bounds
// that can themselves change over time, expressed as closures rather than
// fixed numbers. It is the systems-language stand-in for the source's
// descriptor-based bounded attribute: whenever the bounds move (a margin
// write), call Reclamp to re-apply them to the current value.
type BoundedInt struct {
	val  int
	low  func() int // nil means unbounded below
	high func() int // nil means unbounded above
}

// NewBoundedInt constructs a BoundedInt with the given initial value and
// bound functions. Either bound may be nil.
func NewBoundedInt(initial int, low, high func() int) *BoundedInt {
	b := &BoundedInt{low: low, high: high}
	b.Set(initial)
	return b
}

func clamp(v int, low, high func() int) int {
	if low != nil {
		if lo := low(); v < lo {
			v = lo
		}
	}
	if high != nil {
		if hi := high(); v > hi {
			v = hi
		}
	}
	return v
}

// Get returns the current clamped value.
func (b *BoundedInt) Get() int {
	return b.val
}

// Set clamps v against the current bounds and stores it.
func (b *BoundedInt) Set(v int) {
	b.val = clamp(v, b.low, b.high)
}

// Add is shorthand for Set(Get() + delta).
func (b *BoundedInt) Add(delta int) {
	b.Set(b.val + delta)
}

// Reclamp re-applies the current bounds to the stored value without
// changing it otherwise. Call this whenever a bound this BoundedInt
// depends on may have moved.
func (b *BoundedInt) Reclamp() {
	b.val = clamp(b.val, b.low, b.high)
}
