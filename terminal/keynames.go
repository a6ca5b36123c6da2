package terminal

// keyNames maps KeyType constants to canonical binding names
var keyNames = map[KeyType]string{
	KeyNull:             "ctrl+@",
	KeyCtrlA:            "ctrl+a",
	KeyCtrlB:            "ctrl+b",
	KeyCtrlC:            "ctrl+c",
	KeyCtrlD:            "ctrl+d",
	KeyCtrlE:            "ctrl+e",
	KeyCtrlF:            "ctrl+f",
	KeyCtrlG:            "ctrl+g",
	KeyCtrlH:            "ctrl+h",
	KeyTab:              "tab",
	KeyCtrlJ:            "ctrl+j",
	KeyCtrlK:            "ctrl+k",
	KeyCtrlL:            "ctrl+l",
	KeyEnter:            "enter",
	KeyCtrlN:            "ctrl+n",
	KeyCtrlO:            "ctrl+o",
	KeyCtrlP:            "ctrl+p",
	KeyCtrlQ:            "ctrl+q",
	KeyCtrlR:            "ctrl+r",
	KeyCtrlS:            "ctrl+s",
	KeyCtrlT:            "ctrl+t",
	KeyCtrlU:            "ctrl+u",
	KeyCtrlV:            "ctrl+v",
	KeyCtrlW:            "ctrl+w",
	KeyCtrlX:            "ctrl+x",
	KeyCtrlY:            "ctrl+y",
	KeyCtrlZ:            "ctrl+z",
	KeyEsc:              "esc",
	KeyCtrlBackslash:    "ctrl+\\",
	KeyCtrlCloseBracket: "ctrl+]",
	KeyCtrlCaret:        "ctrl+^",
	KeyCtrlUnderscore:   "ctrl+_",
	KeyBackspace:        "backspace",

	KeyRunes:          "runes",
	KeyUp:             "up",
	KeyDown:           "down",
	KeyRight:          "right",
	KeyLeft:           "left",
	KeyShiftTab:       "shift+tab",
	KeyHome:           "home",
	KeyEnd:            "end",
	KeyPgUp:           "pgup",
	KeyPgDown:         "pgdown",
	KeyCtrlPgUp:       "ctrl+pgup",
	KeyCtrlPgDown:     "ctrl+pgdown",
	KeyDelete:         "delete",
	KeyInsert:         "insert",
	KeySpace:          "space",
	KeyCtrlUp:         "ctrl+up",
	KeyCtrlDown:       "ctrl+down",
	KeyCtrlRight:      "ctrl+right",
	KeyCtrlLeft:       "ctrl+left",
	KeyCtrlHome:       "ctrl+home",
	KeyCtrlEnd:        "ctrl+end",
	KeyShiftUp:        "shift+up",
	KeyShiftDown:      "shift+down",
	KeyShiftRight:     "shift+right",
	KeyShiftLeft:      "shift+left",
	KeyShiftHome:      "shift+home",
	KeyShiftEnd:       "shift+end",
	KeyCtrlShiftUp:    "ctrl+shift+up",
	KeyCtrlShiftDown:  "ctrl+shift+down",
	KeyCtrlShiftLeft:  "ctrl+shift+left",
	KeyCtrlShiftRight: "ctrl+shift+right",
	KeyCtrlShiftHome:  "ctrl+shift+home",
	KeyCtrlShiftEnd:   "ctrl+shift+end",

	KeyF1:  "f1",
	KeyF2:  "f2",
	KeyF3:  "f3",
	KeyF4:  "f4",
	KeyF5:  "f5",
	KeyF6:  "f6",
	KeyF7:  "f7",
	KeyF8:  "f8",
	KeyF9:  "f9",
	KeyF10: "f10",
	KeyF11: "f11",
	KeyF12: "f12",
	KeyF13: "f13",
	KeyF14: "f14",
	KeyF15: "f15",
	KeyF16: "f16",
	KeyF17: "f17",
	KeyF18: "f18",
	KeyF19: "f19",
	KeyF20: "f20",
}

// nameToKey is the reverse lookup, built at init
var nameToKey map[string]KeyType

// keyNameAliases accepts common alternate spellings
var keyNameAliases = map[string]KeyType{
	"escape":    KeyEsc,
	"return":    KeyEnter,
	"backtab":   KeyShiftTab,
	"page_up":   KeyPgUp,
	"page_down": KeyPgDown,
	"del":       KeyDelete,
	" ":         KeySpace,
}

func init() {
	nameToKey = make(map[string]KeyType, len(keyNames)+len(keyNameAliases))
	for k, name := range keyNames {
		nameToKey[name] = k
	}
	for name, k := range keyNameAliases {
		nameToKey[name] = k
	}
}

// KeyTypeByName returns the KeyType for a canonical or alias name
func KeyTypeByName(name string) (KeyType, bool) {
	k, ok := nameToKey[name]
	return k, ok
}
