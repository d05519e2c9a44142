// Package bytesource turns a PTY file descriptor into a lazy, single-pass
// sequence of Unicode scalar values, per spec.md §4.1.
package bytesource

import "io"

const readChunk = 10000

// Source reads from an underlying io.Reader (the PTY master) and yields
// decoded runes one at a time, buffering partial multi-byte UTF-8
// sequences across reads.
type Source struct {
	r   io.Reader
	buf []byte
}

// New wraps r (typically the PTY master file) as a Source.
func New(r io.Reader) *Source {
	return &Source{r: r}
}

// decoded is the pending rune queue from the last successful decode. The
// iterator returned by Runes drains it before calling fill to read again.
type decoded struct {
	runes []rune
	pos   int
}

func (s *Source) nextFromBuffer(d *decoded) (rune, bool) {
	if d.pos < len(d.runes) {
		r := d.runes[d.pos]
		d.pos++
		return r, true
	}
	return 0, false
}

// Runes returns a channel-free iterator function: call it repeatedly to
// get the next rune until ok is false, which means the PTY read failed
// (the child exited or the fd closed) and the sequence is over.
//
// Each call blocks until a decoded rune is available or a read error ends
// the sequence; it may perform several reads first (a partial sequence is
// kept and completed, a malformed buffer is dropped). The iterator is not
// safe for concurrent use; it is meant to be driven by a single producer
// goroutine (spec.md §5).
func (s *Source) Runes() func() (rune, bool) {
	pending := &decoded{}
	return func() (rune, bool) {
		for {
			if r, ok := s.nextFromBuffer(pending); ok {
				return r, true
			}
			runes, ok := s.fill()
			if !ok {
				return 0, false
			}
			pending.runes = runes
			pending.pos = 0
		}
	}
}

// fill performs reads until it has decodable runes or a fatal read error.
// On a non-partial decode failure, the accumulated buffer is dropped and
// reading continues (spec.md §7, §9 Open Question 5).
//
// TODO: resync to the next valid UTF-8 lead byte instead of dropping the
// whole buffer on a non-partial decode error, so a single bad byte
// doesn't cost up to readChunk bytes of output.
func (s *Source) fill() ([]rune, bool) {
	chunk := make([]byte, readChunk)
	for {
		n, err := s.r.Read(chunk)
		if n > 0 {
			s.buf = append(s.buf, chunk[:n]...)
			if runes, ok := decodeAll(s.buf); ok {
				s.buf = s.buf[:0]
				if len(runes) > 0 {
					return runes, true
				}
				// Decoded to nothing (e.g. the read was empty after a
				// clean decode); keep reading for more.
			} else if !isPartial(s.buf) {
				s.buf = s.buf[:0]
			}
			// else: partial trailing sequence, retain buf and read more.
		}
		if err != nil {
			return nil, false
		}
	}
}
