package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/teacup/tea"
	"github.com/lixenwraith/teacup/terminal"
)

const maxLog = 10

// inspector logs every input event and lets the mouse drag an object
type inspector struct {
	width, height int

	events []string

	objX, objY int
	placed     bool
	dragging   bool
}

func newInspector() *inspector {
	return &inspector{width: 80, height: 24}
}

func (m *inspector) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("teacup keys"), tea.WindowSize())
}

func (m *inspector) addLog(s string) {
	if len(m.events) >= maxLog {
		copy(m.events, m.events[1:])
		m.events = m.events[:maxLog-1]
	}
	m.events = append(m.events, s)
}

func (m *inspector) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == terminal.KeyCtrlQ {
			return tea.Quit
		}
		m.addLog(formatKey(msg))

	case tea.MouseMsg:
		m.addLog(formatMouse(msg))
		m.drag(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.placed {
			m.objX, m.objY = m.width/2, m.height/2
			m.placed = true
		}
		m.clampObject()
		m.addLog(fmt.Sprintf("RESIZE: %dx%d", msg.Width, msg.Height))

	case tea.FocusMsg:
		m.addLog("FOCUS")
	case tea.BlurMsg:
		m.addLog("BLUR")
	}
	return nil
}

// drag moves the [X] while the left button holds it
func (m *inspector) drag(ev tea.MouseMsg) {
	switch ev.Action {
	case terminal.MouseActionPress:
		if ev.Button == terminal.MouseButtonLeft && ev.Y == m.objY && ev.X >= m.objX && ev.X < m.objX+3 {
			m.dragging = true
		}
	case terminal.MouseActionRelease:
		m.dragging = false
	case terminal.MouseActionMotion:
		if m.dragging {
			m.objX, m.objY = ev.X, ev.Y
			m.clampObject()
		}
	}
}

func (m *inspector) clampObject() {
	m.objX = max(0, min(m.objX, m.width-3))
	m.objY = max(0, min(m.objY, m.height-1))
}

func (m *inspector) View() string {
	w, h := m.width, m.height
	if w < 10 || h < 3 {
		return "too small"
	}
	rows := make([]string, h)

	rows[0] = center("Input Test - Press keys, move mouse, drag the [X] - Ctrl+C or Ctrl+Q to quit", w)
	if h > 1 {
		rows[1] = strings.Repeat("─", w)
	}
	for i, entry := range m.events {
		y := 2 + i
		if y >= h-2 {
			break
		}
		rows[y] = " " + entry
	}
	if h > 3 {
		rows[h-2] = strings.Repeat("─", w)
	}
	rows[h-1] = fmt.Sprintf(" Size: %dx%d | Object: (%d,%d) | Dragging: %v", w, h, m.objX, m.objY, m.dragging)

	if m.objY >= 0 && m.objY < h {
		rows[m.objY] = overlay(rows[m.objY], "[X]", m.objX, w)
	}
	for i := range rows {
		rows[i] = runewidth.Truncate(rows[i], w, "")
	}
	return strings.Join(rows, "\n")
}

// center pads s so it sits in the middle of width cells
func center(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", (width-sw)/2) + s
}

// overlay writes patch over line starting at cell x
func overlay(line, patch string, x, width int) string {
	line = runewidth.FillRight(line, width)
	left := runewidth.Truncate(line, x, "")
	left = runewidth.FillRight(left, x)
	right := runewidth.TruncateLeft(line, x+runewidth.StringWidth(patch), "")
	return left + patch + right
}

func formatKey(k tea.KeyMsg) string {
	if k.Paste {
		return fmt.Sprintf("PASTE: %q", string(k.Runes))
	}
	if k.Type == terminal.KeyRunes && len(k.Runes) == 1 && !unicode.IsPrint(k.Runes[0]) {
		return fmt.Sprintf("KEY: U+%04X", k.Runes[0])
	}
	return "KEY: " + k.String()
}

func formatMouse(ev tea.MouseMsg) string {
	return fmt.Sprintf("MOUSE: %s @ (%d,%d)", ev.String(), ev.X, ev.Y)
}
