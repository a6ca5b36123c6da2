// @focus: #render { diff }
package render

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// Diff returns the bytes that turn a screen showing prev into one showing
// next. Positions are relative: the cursor is expected at column 0 of
// prev's last row and is left at column 0 of next's last row, so the same
// output works inline and on the alternate screen.
//
// Unchanged rows are skipped. A changed row of plain text is rewritten
// from its first differing grapheme; styled rows are rewritten whole.
// full repaints every row. Equal frames without full yield nil.
func Diff(prev, next Frame, full bool) []byte {
	if !full && prev.Equal(next) {
		return nil
	}

	var buf bytes.Buffer
	d := differ{buf: &buf, width: next.width}
	if prev.Height() > 0 {
		d.cur = prev.Height() - 1
		d.maxRow = d.cur
	}

	if full {
		d.moveTo(0)
		buf.WriteByte('\r')
		buf.Write(csiEraseBelow)
		for i, line := range next.lines {
			if i > 0 {
				buf.WriteString("\r\n")
			}
			buf.WriteString(line)
		}
		buf.WriteByte('\r')
		return buf.Bytes()
	}

	for i, line := range next.lines {
		var old string
		fresh := i >= prev.Height()
		if !fresh {
			old = prev.lines[i]
			if old == line {
				continue
			}
		}
		d.moveTo(i)
		d.updateLine(old, line, fresh)
	}

	// Clear rows the new frame no longer covers
	if next.Height() < prev.Height() {
		d.moveTo(next.Height())
		buf.WriteByte('\r')
		buf.Write(csiEraseBelow)
	}

	d.moveTo(max(next.Height()-1, 0))
	buf.WriteByte('\r')
	return buf.Bytes()
}

// differ tracks the cursor row while emitting updates
type differ struct {
	buf    *bytes.Buffer
	width  int
	cur    int // cursor row, relative to the first row of the frame
	maxRow int // last row that exists on screen
}

// moveTo moves the cursor to row t. Rows past the last existing one are
// created with newlines; cursor-down stops at the screen bottom.
func (d *differ) moveTo(t int) {
	switch {
	case t < d.cur:
		writeCursorUp(d.buf, d.cur-t)
	case t > d.cur:
		writeCursorDown(d.buf, min(t, d.maxRow)-d.cur)
		for r := max(d.cur, d.maxRow); r < t; r++ {
			d.buf.WriteString("\r\n")
		}
		d.maxRow = max(d.maxRow, t)
	}
	d.cur = t
}

// updateLine rewrites row content from the first changed cell
func (d *differ) updateLine(old, line string, fresh bool) {
	d.buf.WriteByte('\r')

	if plain(old) && plain(line) {
		cells, offset := commonPrefix(old, line)
		writeCursorForward(d.buf, cells)
		d.buf.WriteString(line[offset:])
	} else {
		d.buf.WriteString(line)
	}

	// Erase leftovers of a wider old row. A row filling the full width
	// leaves the cursor in the pending-wrap state where erasing would
	// clear its last cell.
	newW := ansi.StringWidth(line)
	if (fresh || newW < ansi.StringWidth(old)) && (d.width <= 0 || newW < d.width) {
		d.buf.Write(csiEraseLine)
	}
}

// plain reports whether s has no escape sequences or control characters,
// so its cells can be addressed by grapheme widths
func plain(s string) bool {
	return !strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 || r == 0x7f })
}

// commonPrefix returns the display width and byte length of the longest
// run of identical leading grapheme clusters
func commonPrefix(a, b string) (cells, offset int) {
	stateA, stateB := -1, -1
	for len(a) > 0 && len(b) > 0 {
		ca, restA, w, sa := uniseg.FirstGraphemeClusterInString(a, stateA)
		cb, restB, _, sb := uniseg.FirstGraphemeClusterInString(b, stateB)
		if ca != cb {
			break
		}
		cells += w
		offset += len(cb)
		a, b, stateA, stateB = restA, restB, sa, sb
	}
	return cells, offset
}
