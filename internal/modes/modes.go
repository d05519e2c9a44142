// Package modes holds the fixed set of named boolean terminal modes that
// change how the interpreter and dispatcher behave.
package modes

// Registry is a fixed mapping of named boolean modes. It is deliberately a
// plain struct rather than a map: the mode set is closed (spec.md names all
// seven), so a dynamic lookup would just hide a typo'd key until runtime.
type Registry struct {
	Application bool // numeric keypad / cursor keys send application sequences
	Edit        bool // DECSET 1049, local edit mode
	Cursor      bool // DECTCEM, cursor visible
	Vertical    bool // VEN, DECSET 7 without a query prefix
	Insert      bool // IRM, insert vs replace on write
	Autowrap    bool // DECAWM
	Mouse       bool // xterm X10 mouse reporting
}

// New returns a Registry in its initial state: every mode false except
// Cursor, which starts visible.
func New() *Registry {
	return &Registry{Cursor: true}
}
