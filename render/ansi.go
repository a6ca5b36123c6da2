// @focus: #render { ansi }
package render

import "bytes"

// Pre-allocated ANSI sequence fragments
var (
	csi            = []byte("\x1b[")
	csiEraseLine   = []byte("\x1b[K")  // cursor to end of line
	csiEraseBelow  = []byte("\x1b[J")  // cursor to end of screen
	csiEraseScreen = []byte("\x1b[2J") // whole screen
	csiHome        = []byte("\x1b[H")
)

// writeInt writes an integer without going through fmt
// Terminal values are small: 0-999 typical max
func writeInt(w *bytes.Buffer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// writeCursorMove writes a relative cursor movement: A up, B down, C forward
func writeCursorMove(w *bytes.Buffer, n int, dir byte) {
	if n <= 0 {
		return
	}
	w.Write(csi)
	if n > 1 {
		writeInt(w, n)
	}
	w.WriteByte(dir)
}

func writeCursorUp(w *bytes.Buffer, n int)      { writeCursorMove(w, n, 'A') }
func writeCursorDown(w *bytes.Buffer, n int)    { writeCursorMove(w, n, 'B') }
func writeCursorForward(w *bytes.Buffer, n int) { writeCursorMove(w, n, 'C') }
