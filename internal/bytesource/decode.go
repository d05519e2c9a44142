package bytesource

import "unicode/utf8"

// decodeAll attempts to decode buf as a complete sequence of UTF-8
// scalars. ok is false if decoding failed, either because the buffer ends
// mid-sequence (see isPartial) or because it contains a genuinely invalid
// byte.
func decodeAll(buf []byte) (runes []rune, ok bool) {
	out := make([]rune, 0, len(buf))
	for i := 0; i < len(buf); {
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size == 1 {
			return nil, false
		}
		out = append(out, r)
		i += size
	}
	return out, true
}

// isPartial reports whether buf's decode failure is solely due to a
// truncated multi-byte sequence at the very end of the buffer (as
// opposed to an invalid byte earlier in the buffer).
func isPartial(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	// Walk back to the start of the last rune (at most a 4-byte lookback).
	start := len(buf) - 1
	for limit := len(buf) - 4; start > 0 && start >= limit; start-- {
		if utf8.RuneStart(buf[start]) {
			break
		}
	}
	if !utf8.RuneStart(buf[start]) {
		// More than 3 continuation bytes trailing with no lead byte: not
		// a recoverable partial sequence.
		return false
	}
	return !utf8.FullRune(buf[start:])
}
