package main

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/teacup/config"
	"github.com/lixenwraith/teacup/tea"
	"github.com/lixenwraith/teacup/terminal"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: terminal.KeyRunes, Runes: []rune(s)}
}

func TestCounterKeys(t *testing.T) {
	c := newCounter(config.Default().Keys)
	s := tea.NewSimulator(c)

	for _, k := range []tea.Msg{runes("+"), runes("+"), tea.KeyMsg{Type: terminal.KeyUp}, runes("-")} {
		s.Send(k)
	}
	s.RunUntilEmpty()
	assert.Equal(t, 2, c.count)
	assert.Contains(t, s.LastView(), "count:")

	s.Send(runes("r"))
	s.RunUntilEmpty()
	assert.Zero(t, c.count)
	assert.Equal(t, []string{"reset from 2"}, s.Printed())

	s.Send(runes("q"))
	require.NoError(t, s.RunUntilQuit(5))
}

func TestCounterMouseWheel(t *testing.T) {
	c := newCounter(config.Default().Keys)
	s := tea.NewSimulator(c)

	s.Send(tea.MouseMsg{Button: terminal.MouseButtonWheelUp, Action: terminal.MouseActionPress})
	s.Send(tea.MouseMsg{Button: terminal.MouseButtonWheelUp, Action: terminal.MouseActionPress})
	s.Send(tea.MouseMsg{Button: terminal.MouseButtonWheelDown, Action: terminal.MouseActionPress})
	s.RunUntilEmpty()

	assert.Equal(t, 1, c.count)
	assert.Contains(t, s.LastView(), "mouse: wheel down")
}

func TestCounterClockAndFocus(t *testing.T) {
	c := newCounter(config.Default().Keys)
	cmd := c.Update(clockMsg{})
	assert.NotNil(t, cmd, "clock re-arms itself")
	assert.Equal(t, 1, c.ticks)

	c.Update(tea.BlurMsg{})
	assert.Contains(t, c.View(), "unfocused")
	c.Update(tea.FocusMsg{})
	assert.NotContains(t, c.View(), "unfocused")
}

func TestCounterFollowsColorMode(t *testing.T) {
	c := newCounter(config.Default().Keys)
	assert.NotContains(t, c.View(), "\x1b[", "plain until the output is known")

	s := tea.NewSimulator(c)
	s.SetColorMode(terminal.ColorMode256)
	s.Send(tea.RequestColorMode()())
	s.RunUntilEmpty()
	assert.Contains(t, s.LastView(), "\x1b[")

	c.Update(tea.ColorModeMsg{Mode: terminal.ColorModeNone})
	assert.NotContains(t, c.View(), "\x1b[")
}

func TestInspectorLogsAndDrags(t *testing.T) {
	m := newInspector()
	s := tea.NewSimulator(m)
	s.SetSize(40, 12)
	s.Init()
	s.RunUntilEmpty()

	require.Equal(t, 20, m.objX)
	require.Equal(t, 6, m.objY)

	s.Send(runes("a"))
	s.Send(tea.MouseMsg{X: 21, Y: 6, Button: terminal.MouseButtonLeft, Action: terminal.MouseActionPress})
	s.Send(tea.MouseMsg{X: 5, Y: 3, Button: terminal.MouseButtonLeft, Action: terminal.MouseActionMotion})
	s.Send(tea.MouseMsg{X: 5, Y: 3, Button: terminal.MouseButtonLeft, Action: terminal.MouseActionRelease})
	s.RunUntilEmpty()

	assert.Equal(t, 5, m.objX)
	assert.Equal(t, 3, m.objY)
	assert.False(t, m.dragging)
	assert.Contains(t, m.events, "KEY: a")

	view := s.LastView()
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 12)
	for i, l := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(l), 40, "line %d", i)
	}
	assert.Equal(t, 5, strings.Index(runewidth.FillRight(lines[3], 40), "[X]"))

	s.Send(tea.KeyMsg{Type: terminal.KeyCtrlQ})
	require.NoError(t, s.RunUntilQuit(5))
}

func TestInspectorLogIsBounded(t *testing.T) {
	m := newInspector()
	for i := range maxLog + 5 {
		m.Update(runes(string(rune('a' + i))))
	}
	assert.Len(t, m.events, maxLog)
	assert.Equal(t, "KEY: f", m.events[0])
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "KEY: U+0080", formatKey(runes("\u0080")))
	assert.Equal(t, `PASTE: "hi"`, formatKey(tea.KeyMsg{Type: terminal.KeyRunes, Runes: []rune("hi"), Paste: true}))
	assert.Equal(t, "KEY: alt+x", formatKey(tea.KeyMsg{Type: terminal.KeyRunes, Runes: []rune("x"), Alt: true}))
}

func TestOverlay(t *testing.T) {
	assert.Equal(t, "ab[X]f", overlay("abcdef", "[X]", 2, 6))
	assert.Equal(t, "  [X] ", overlay("", "[X]", 2, 6))
}
