// @focus: #sys { io } #input { decoder }
package terminal

import (
	"bytes"
	"iter"
	"strconv"
	"unicode/utf8"
)

const (
	esc = 0x1b

	// maxCSILen bounds parameter and intermediate bytes of one CSI sequence
	maxCSILen = 64
)

// Decoder turns a raw terminal byte stream into events. It keeps the bytes
// of an incomplete sequence between calls, so feeding a stream whole or in
// arbitrary pieces yields the same events. Not safe for concurrent use.
type Decoder struct {
	// Persistent buffer for stream assembly; partial UTF-8 and escape
	// sequences survive across reads
	buf []byte

	// Content bytes of an open paste already searched for the end marker
	pasteScanned int
	// Set while discarding the tail of an oversized CSI sequence
	skipCSI bool
}

// NewDecoder creates an empty decoder
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, 256)}
}

// Feed appends data to the buffer and returns a lazy sequence of the events
// decodable so far. The bytes are retained immediately, whether or not the
// sequence is consumed. Breaking out of the range loop leaves the remaining
// bytes buffered for the next Feed or Flush.
func (d *Decoder) Feed(data []byte) iter.Seq[Event] {
	d.buf = append(d.buf, data...)
	return d.decode(true)
}

// Flush decodes the buffer as if no more input will follow the current
// bytes: a lone ESC becomes the Escape key and incomplete sequences are
// resolved or dropped. Called when the escape window expires or at EOF.
func (d *Decoder) Flush() iter.Seq[Event] {
	return d.decode(false)
}

// Pending returns the number of undecoded bytes
func (d *Decoder) Pending() int {
	return len(d.buf)
}

// InPaste reports whether the undecoded input is an open bracketed paste
func (d *Decoder) InPaste() bool {
	return bytes.HasPrefix(d.buf, []byte(seqPasteStart))
}

// Reset discards buffered bytes
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.pasteScanned = 0
	d.skipCSI = false
}

func (d *Decoder) decode(more bool) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for len(d.buf) > 0 {
			if d.skipCSI {
				d.skipOverflow()
				continue
			}

			var n int
			var ev Event
			if d.InPaste() {
				n, ev = parsePaste(d.buf, d.pasteScanned, more)
				if n == 0 {
					// The end marker may straddle the next read
					d.pasteScanned = max(0, len(d.buf)-len(seqPasteStart)-len(seqPasteEnd)+1)
					return
				}
				d.pasteScanned = 0
			} else {
				n, ev = decodeOne(d.buf, more)
				if n == 0 {
					return
				}
			}
			d.consume(n)

			if _, ok := ev.(csiOverflow); ok {
				d.skipCSI = true
				continue
			}
			if ev != nil && !yield(ev) {
				return
			}
		}
	}
}

// skipOverflow discards parameter and intermediate bytes of an oversized
// CSI sequence up to and including its final byte. Any other byte ends the
// sequence and is decoded normally.
func (d *Decoder) skipOverflow() {
	i := 0
	for ; i < len(d.buf); i++ {
		c := d.buf[i]
		if c >= 0x20 && c <= 0x3f {
			continue
		}
		d.skipCSI = false
		if c >= 0x40 && c <= 0x7e {
			i++
		}
		break
	}
	d.consume(i)
}

// consume drops n bytes from the front, compacting in place
func (d *Decoder) consume(n int) {
	rem := copy(d.buf, d.buf[n:])
	d.buf = d.buf[:rem]
}

// decodeOne classifies by lead byte and parses a single token.
// It returns the bytes consumed (0 = need more input) and the event, which
// is nil for tokens that are swallowed.
func decodeOne(buf []byte, more bool) (int, Event) {
	if buf[0] == esc {
		return parseEscape(buf, more)
	}
	n, k := parseKey(buf, more)
	if n == 0 {
		return 0, nil
	}
	return n, k
}

// parseKey parses one control byte, space, or UTF-8 encoded rune
func parseKey(buf []byte, more bool) (int, KeyEvent) {
	b := buf[0]
	switch {
	case b < 0x20 || b == 0x7f:
		return 1, KeyEvent{Type: KeyType(b)}
	case b == ' ':
		return 1, KeyEvent{Type: KeySpace, Runes: []rune{' '}}
	case b < utf8.RuneSelf:
		return 1, KeyEvent{Type: KeyRunes, Runes: []rune{rune(b)}}
	}

	if more && !utf8.FullRune(buf) {
		return 0, KeyEvent{}
	}
	// Invalid or truncated encodings decode to U+FFFD one byte at a time
	r, size := utf8.DecodeRune(buf)
	return size, KeyEvent{Type: KeyRunes, Runes: []rune{r}}
}

// parseEscape handles everything starting with ESC
func parseEscape(buf []byte, more bool) (int, Event) {
	if len(buf) == 1 {
		if more {
			return 0, nil
		}
		return 1, KeyEvent{Type: KeyEsc}
	}

	switch buf[1] {
	case '[':
		return parseCSI(buf, more)
	case 'O':
		return parseSS3(buf, more)
	case esc:
		// ESC ESC: Alt applied to whatever the second ESC starts
		n, ev := parseEscape(buf[1:], more)
		if n == 0 {
			return 0, nil
		}
		return n + 1, withAlt(ev)
	}

	// Alt + key
	n, k := parseKey(buf[1:], more)
	if n == 0 {
		return 0, nil
	}
	k.Alt = true
	return n + 1, k
}

// csiOverflow marks a CSI sequence cut at maxCSILen; the decoder drops the
// rest of it
type csiOverflow struct{}

func (csiOverflow) isEvent() {}

func withAlt(ev Event) Event {
	switch e := ev.(type) {
	case KeyEvent:
		if !e.Paste {
			e.Alt = true
		}
		return e
	case MouseEvent:
		e.Alt = true
		return e
	}
	return ev
}

// parseCSI parses ESC [ ... following ECMA-48: parameter bytes 0x30-0x3F,
// intermediate bytes 0x20-0x2F, one final byte 0x40-0x7E
func parseCSI(buf []byte, more bool) (int, Event) {
	if len(buf) == 2 {
		if more {
			return 0, nil
		}
		return 2, KeyEvent{Type: KeyRunes, Runes: []rune{'['}, Alt: true}
	}

	switch buf[2] {
	case 'M':
		return parseX10Mouse(buf, more)
	case '[':
		// Linux console F1-F5: ESC [ [ A..E
		if len(buf) < 4 {
			if more {
				return 0, nil
			}
			return 3, nil
		}
		if k, ok := lookupCSI(buf[2:4]); ok {
			return 4, k
		}
		return 4, nil
	}

	i := 2
	for ; i < len(buf); i++ {
		c := buf[i]
		if c >= 0x40 && c <= 0x7e {
			break
		}
		if c < 0x20 || c > 0x3f {
			// Malformed: drop the introducer and parameters, the offending
			// byte is decoded on its own
			return i, nil
		}
		if i-2 >= maxCSILen {
			return i, csiOverflow{}
		}
	}
	if i == len(buf) {
		if more {
			return 0, nil
		}
		return i, nil
	}

	n := i + 1
	body := buf[2:n]
	final := buf[i]

	switch {
	case body[0] == '<' && (final == 'M' || final == 'm'):
		return n, parseSGRMouse(body[1:len(body)-1], final == 'm')
	case string(body) == "200~":
		return parsePaste(buf, 0, more)
	case string(body) == "I":
		return n, FocusEvent{}
	case string(body) == "O":
		return n, BlurEvent{}
	}

	if k, ok := lookupCSI(body); ok {
		return n, k
	}
	// Well-formed but unrecognised
	return n, nil
}

// parseSS3 parses ESC O x
func parseSS3(buf []byte, more bool) (int, Event) {
	if len(buf) < 3 {
		if more {
			return 0, nil
		}
		return 2, KeyEvent{Type: KeyRunes, Runes: []rune{'O'}, Alt: true}
	}
	if k, ok := lookupSS3(buf[2:3]); ok {
		return 3, k
	}
	return 3, nil
}

// parsePaste collects everything between the bracketed paste markers.
// buf starts with the paste start marker; the search for the end marker
// begins at content offset from.
func parsePaste(buf []byte, from int, more bool) (int, Event) {
	start := len(seqPasteStart)
	from = min(from, len(buf)-start)
	end := bytes.Index(buf[start+from:], []byte(seqPasteEnd))
	if end >= 0 {
		end += from
	}
	if end < 0 {
		if more {
			return 0, nil
		}
		return len(buf), KeyEvent{Type: KeyRunes, Runes: []rune(string(buf[start:])), Paste: true}
	}
	content := buf[start : start+end]
	return start + end + len(seqPasteEnd), KeyEvent{Type: KeyRunes, Runes: []rune(string(content)), Paste: true}
}

// parseSGRMouse decodes the "b;x;y" parameters of ESC [ < b ; x ; y M|m
func parseSGRMouse(params []byte, release bool) Event {
	fields := bytes.Split(params, []byte{';'})
	if len(fields) != 3 {
		return nil
	}
	var vals [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(string(f))
		if err != nil || v < 0 {
			return nil
		}
		vals[i] = v
	}

	m := decodeMouseButton(vals[0], release)
	m.X = max(vals[1]-1, 0)
	m.Y = max(vals[2]-1, 0)
	return m
}

// parseX10Mouse decodes ESC [ M Cb Cx Cy, each value offset by 32
func parseX10Mouse(buf []byte, more bool) (int, Event) {
	const seqLen = 6
	if len(buf) < seqLen {
		if more {
			return 0, nil
		}
		return len(buf), nil
	}
	b := int(buf[3]) - 32
	if b < 0 {
		return seqLen, nil
	}
	m := decodeMouseButton(b, false)
	m.X = max(int(buf[4])-32-1, 0)
	m.Y = max(int(buf[5])-32-1, 0)
	return seqLen, m
}
