// @focus: #terminal { ansi }
package terminal

import "io"

// Pre-allocated ANSI sequence fragments
var (
	csiSGR0  = []byte("\x1b[0m")
	csiRIS   = []byte("\x1bc") // Reset to Initial State (emergency)
	csiClear = []byte("\x1b[2J\x1b[H")

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	csiAutoWrapOn     = []byte("\x1b[?7h")

	// Mouse reporting: 1000 press/release, 1002 button motion, 1003 any motion, 1006 SGR encoding
	csiMouseClickOn   = []byte("\x1b[?1000h")
	csiMouseClickOff  = []byte("\x1b[?1000l")
	csiMouseCellOn    = []byte("\x1b[?1002h")
	csiMouseCellOff   = []byte("\x1b[?1002l")
	csiMouseAllOn     = []byte("\x1b[?1003h")
	csiMouseAllOff    = []byte("\x1b[?1003l")
	csiMouseSGROn     = []byte("\x1b[?1006h")
	csiMouseSGROff    = []byte("\x1b[?1006l")
	csiPasteOn        = []byte("\x1b[?2004h")
	csiPasteOff       = []byte("\x1b[?2004l")
	csiFocusReportOn  = []byte("\x1b[?1004h")
	csiFocusReportOff = []byte("\x1b[?1004l")
)

// Input-side markers
const (
	seqPasteStart = "\x1b[200~"
	seqPasteEnd   = "\x1b[201~"
)

// writeWindowTitle writes an OSC 2 title sequence
func writeWindowTitle(w io.Writer, title string) error {
	_, err := io.WriteString(w, "\x1b]2;"+title+"\x07")
	return err
}

// writeAll writes each sequence in order, stopping at the first error
func writeAll(w io.Writer, seqs ...[]byte) error {
	for _, s := range seqs {
		if _, err := w.Write(s); err != nil {
			return err
		}
	}
	return nil
}
