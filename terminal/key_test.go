package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyEventString(t *testing.T) {
	tests := []struct {
		key  KeyEvent
		want string
	}{
		{KeyEvent{Type: KeyCtrlC}, "ctrl+c"},
		{KeyEvent{Type: KeyEnter}, "enter"},
		{KeyEvent{Type: KeyEsc}, "esc"},
		{KeyEvent{Type: KeyUp}, "up"},
		{KeyEvent{Type: KeyCtrlShiftUp}, "ctrl+shift+up"},
		{KeyEvent{Type: KeyF20}, "f20"},
		{KeyEvent{Type: KeyRunes, Runes: []rune("a")}, "a"},
		{KeyEvent{Type: KeyRunes, Runes: []rune("a"), Alt: true}, "alt+a"},
		{KeyEvent{Type: KeyDelete, Alt: true}, "alt+delete"},
		{KeyEvent{Type: KeyRunes, Runes: []rune("hello"), Paste: true}, "[hello]"},
		{KeyEvent{Type: KeySpace, Runes: []rune{' '}}, "space"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.key.String())
	}
}

func TestKeyTypeByName(t *testing.T) {
	for k, name := range keyNames {
		got, ok := KeyTypeByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, k, got, name)
	}

	k, ok := KeyTypeByName("escape")
	assert.True(t, ok)
	assert.Equal(t, KeyEsc, k)

	_, ok = KeyTypeByName("hyper+q")
	assert.False(t, ok)
}

func TestKeyTypeClasses(t *testing.T) {
	assert.True(t, KeyCtrlC.IsCtrl())
	assert.True(t, KeyBackspace.IsCtrl())
	assert.False(t, KeyUp.IsCtrl())

	assert.True(t, KeyF1.IsFunction())
	assert.True(t, KeyF20.IsFunction())
	assert.False(t, KeyCtrlShiftEnd.IsFunction())

	assert.True(t, KeyCtrlShiftLeft.IsCursor())
	assert.False(t, KeyHome.IsCursor())
}

func TestKeyEventRune(t *testing.T) {
	assert.Equal(t, 'x', KeyEvent{Type: KeyRunes, Runes: []rune("x")}.Rune())
	assert.Zero(t, KeyEvent{Type: KeyRunes, Runes: []rune("xy")}.Rune())
}

func TestMouseEventString(t *testing.T) {
	tests := []struct {
		ev   MouseEvent
		want string
	}{
		{MouseEvent{Button: MouseButtonLeft, Ctrl: true}, "ctrl+left"},
		{MouseEvent{Button: MouseButtonLeft, Action: MouseActionRelease}, "left release"},
		{MouseEvent{Button: MouseButtonRight, Action: MouseActionMotion}, "right motion"},
		{MouseEvent{Button: MouseButtonWheelUp}, "wheel up"},
		{MouseEvent{Button: MouseButtonNone, Action: MouseActionMotion}, "motion"},
		{MouseEvent{Button: MouseButtonNone, Action: MouseActionRelease}, "release"},
		{MouseEvent{Button: MouseButtonMiddle, Alt: true, Shift: true}, "alt+shift+middle"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ev.String())
	}
}

func TestParseMouseMode(t *testing.T) {
	for _, m := range []MouseMode{MouseModeNone, MouseModeCellMotion, MouseModeAllMotion} {
		got, ok := ParseMouseMode(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ParseMouseMode("wheel")
	assert.False(t, ok)
}
