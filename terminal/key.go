package terminal

import "strings"

// KeyType identifies a key. Control keys carry the value of the byte the
// terminal sends for them, synthetic keys are negative.
type KeyType int

// Control keys
const (
	KeyNull KeyType = iota
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyCtrlI
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
	KeyEsc
	KeyCtrlBackslash
	KeyCtrlCloseBracket
	KeyCtrlCaret
	KeyCtrlUnderscore

	KeyBackspace KeyType = 127
)

// Aliases for control keys with dedicated names
const (
	KeyCtrlAt = KeyNull
	KeyTab    = KeyCtrlI
	KeyEnter  = KeyCtrlM
	KeyEscape = KeyEsc
	KeyDEL    = KeyBackspace
)

// Synthetic keys
const (
	KeyRunes KeyType = -(iota + 1)
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyShiftTab
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDown
	KeyCtrlPgUp
	KeyCtrlPgDown
	KeyDelete
	KeyInsert
	KeySpace
	KeyCtrlUp
	KeyCtrlDown
	KeyCtrlRight
	KeyCtrlLeft
	KeyCtrlHome
	KeyCtrlEnd
	KeyShiftUp
	KeyShiftDown
	KeyShiftRight
	KeyShiftLeft
	KeyShiftHome
	KeyShiftEnd
	KeyCtrlShiftUp
	KeyCtrlShiftDown
	KeyCtrlShiftLeft
	KeyCtrlShiftRight
	KeyCtrlShiftHome
	KeyCtrlShiftEnd
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
)

// String returns the canonical name, e.g. "ctrl+c", "up", "f5"
func (k KeyType) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return ""
}

// IsCtrl reports whether k is a C0 control key or DEL
func (k KeyType) IsCtrl() bool {
	return (k >= KeyNull && k <= KeyCtrlUnderscore) || k == KeyBackspace
}

// IsFunction reports whether k is one of F1-F20
func (k KeyType) IsFunction() bool {
	return k <= KeyF1 && k >= KeyF20
}

// IsCursor reports whether k moves the cursor (arrows with any modifier)
func (k KeyType) IsCursor() bool {
	switch k {
	case KeyUp, KeyDown, KeyLeft, KeyRight,
		KeyCtrlUp, KeyCtrlDown, KeyCtrlLeft, KeyCtrlRight,
		KeyShiftUp, KeyShiftDown, KeyShiftLeft, KeyShiftRight,
		KeyCtrlShiftUp, KeyCtrlShiftDown, KeyCtrlShiftLeft, KeyCtrlShiftRight:
		return true
	}
	return false
}

// KeyEvent is a decoded keypress or a bracketed paste.
// Runes is set for KeyRunes and KeySpace. Paste marks text delivered
// between bracketed paste markers; it is never interpreted as keys.
type KeyEvent struct {
	Type  KeyType
	Runes []rune
	Alt   bool
	Paste bool
}

// String renders the key the way bindings are written: "alt+a", "enter",
// "ctrl+shift+up". Pasted text is wrapped in brackets.
func (k KeyEvent) String() string {
	var sb strings.Builder
	if k.Alt {
		sb.WriteString("alt+")
	}
	if k.Type == KeyRunes {
		if k.Paste {
			sb.WriteByte('[')
		}
		sb.WriteString(string(k.Runes))
		if k.Paste {
			sb.WriteByte(']')
		}
		return sb.String()
	}
	sb.WriteString(k.Type.String())
	return sb.String()
}

// Rune returns the single rune of a one-rune event, or 0
func (k KeyEvent) Rune() rune {
	if len(k.Runes) == 1 {
		return k.Runes[0]
	}
	return 0
}
