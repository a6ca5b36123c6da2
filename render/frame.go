package render

import (
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// tabWidth is the distance between tab stops
const tabWidth = 8

// Frame is an immutable snapshot of a rendered view, one string per
// terminal row. Lines may carry SGR styling.
type Frame struct {
	lines []string
	width int
}

// NewFrame splits a view into rows. Rows wider than width are truncated
// by display cells (escape sequences do not count); when the view has more
// rows than height only the bottom rows are kept. Tabs are expanded to
// spaces first. Zero width or height disables the respective limit.
func NewFrame(view string, width, height int) Frame {
	view = strings.ReplaceAll(view, "\r\n", "\n")
	lines := strings.Split(view, "\n")

	if height > 0 && len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for i, l := range lines {
		lines[i] = expandTabs(l)
	}
	if width > 0 {
		for i, l := range lines {
			if ansi.StringWidth(l) > width {
				lines[i] = ansi.Truncate(l, width, "")
			}
		}
	}
	return Frame{lines: lines, width: width}
}

// Lines returns a copy of the rows
func (f Frame) Lines() []string {
	return slices.Clone(f.lines)
}

// Height returns the number of rows
func (f Frame) Height() int {
	return len(f.lines)
}

// Equal reports whether both frames show the same rows
func (f Frame) Equal(o Frame) bool {
	return slices.Equal(f.lines, o.lines)
}

// String joins the rows back into a view
func (f Frame) String() string {
	return strings.Join(f.lines, "\n")
}

// expandTabs replaces each tab with spaces up to the next tab stop. Escape
// sequences take no cells.
func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	for {
		i := strings.IndexByte(line, '\t')
		if i < 0 {
			b.WriteString(line)
			return b.String()
		}
		b.WriteString(line[:i])
		col := ansi.StringWidth(b.String())
		b.WriteString(strings.Repeat(" ", tabWidth-col%tabWidth))
		line = line[i+1:]
	}
}
