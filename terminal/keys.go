// @focus: #sys { io } #input { keys }
package terminal

import "strconv"

// escapeSequence maps the body of a CSI or SS3 sequence (bytes after the
// introducer) to the key it encodes
type escapeSequence struct {
	seq string
	key KeyType
	r   rune // KeyRunes only (keypad)
	alt bool
}

// modifiedKey lists the KeyType produced for each shift/ctrl combination.
// Alt never changes the KeyType, it sets KeyEvent.Alt.
type modifiedKey struct {
	plain, shift, ctrl, ctrlShift KeyType
}

func (m modifiedKey) pick(shift, ctrl bool) KeyType {
	switch {
	case shift && ctrl:
		return m.ctrlShift
	case ctrl:
		return m.ctrl
	case shift:
		return m.shift
	}
	return m.plain
}

// Cursor keys encoded as CSI [1;m]X
var cursorFinals = []struct {
	final string
	keys  modifiedKey
}{
	{"A", modifiedKey{KeyUp, KeyShiftUp, KeyCtrlUp, KeyCtrlShiftUp}},
	{"B", modifiedKey{KeyDown, KeyShiftDown, KeyCtrlDown, KeyCtrlShiftDown}},
	{"C", modifiedKey{KeyRight, KeyShiftRight, KeyCtrlRight, KeyCtrlShiftRight}},
	{"D", modifiedKey{KeyLeft, KeyShiftLeft, KeyCtrlLeft, KeyCtrlShiftLeft}},
	{"H", modifiedKey{KeyHome, KeyShiftHome, KeyCtrlHome, KeyCtrlShiftHome}},
	{"F", modifiedKey{KeyEnd, KeyShiftEnd, KeyCtrlEnd, KeyCtrlShiftEnd}},
	{"P", modifiedKey{KeyF1, KeyF13, KeyF1, KeyF13}},
	{"Q", modifiedKey{KeyF2, KeyF14, KeyF2, KeyF14}},
	{"R", modifiedKey{KeyF3, KeyF15, KeyF3, KeyF15}},
	{"S", modifiedKey{KeyF4, KeyF16, KeyF4, KeyF16}},
}

// VT220-style keys encoded as CSI N[;m]~
var tildeCodes = []struct {
	code int
	keys modifiedKey
}{
	{1, modifiedKey{KeyHome, KeyShiftHome, KeyCtrlHome, KeyCtrlShiftHome}},
	{2, modifiedKey{KeyInsert, KeyInsert, KeyInsert, KeyInsert}},
	{3, modifiedKey{KeyDelete, KeyDelete, KeyDelete, KeyDelete}},
	{4, modifiedKey{KeyEnd, KeyShiftEnd, KeyCtrlEnd, KeyCtrlShiftEnd}},
	{5, modifiedKey{KeyPgUp, KeyPgUp, KeyCtrlPgUp, KeyCtrlPgUp}},
	{6, modifiedKey{KeyPgDown, KeyPgDown, KeyCtrlPgDown, KeyCtrlPgDown}},
	{7, modifiedKey{KeyHome, KeyShiftHome, KeyCtrlHome, KeyCtrlShiftHome}}, // rxvt
	{8, modifiedKey{KeyEnd, KeyShiftEnd, KeyCtrlEnd, KeyCtrlShiftEnd}},     // rxvt
	{11, modifiedKey{KeyF1, KeyF13, KeyF1, KeyF13}},
	{12, modifiedKey{KeyF2, KeyF14, KeyF2, KeyF14}},
	{13, modifiedKey{KeyF3, KeyF15, KeyF3, KeyF15}},
	{14, modifiedKey{KeyF4, KeyF16, KeyF4, KeyF16}},
	{15, modifiedKey{KeyF5, KeyF17, KeyF5, KeyF17}},
	{17, modifiedKey{KeyF6, KeyF18, KeyF6, KeyF18}},
	{18, modifiedKey{KeyF7, KeyF19, KeyF7, KeyF19}},
	{19, modifiedKey{KeyF8, KeyF20, KeyF8, KeyF20}},
	{20, modifiedKey{KeyF9, KeyF9, KeyF9, KeyF9}},
	{21, modifiedKey{KeyF10, KeyF10, KeyF10, KeyF10}},
	{23, modifiedKey{KeyF11, KeyF11, KeyF11, KeyF11}},
	{24, modifiedKey{KeyF12, KeyF12, KeyF12, KeyF12}},
	{25, modifiedKey{KeyF13, KeyF13, KeyF13, KeyF13}},
	{26, modifiedKey{KeyF14, KeyF14, KeyF14, KeyF14}},
	{28, modifiedKey{KeyF15, KeyF15, KeyF15, KeyF15}},
	{29, modifiedKey{KeyF16, KeyF16, KeyF16, KeyF16}},
	{31, modifiedKey{KeyF17, KeyF17, KeyF17, KeyF17}},
	{32, modifiedKey{KeyF18, KeyF18, KeyF18, KeyF18}},
	{33, modifiedKey{KeyF19, KeyF19, KeyF19, KeyF19}},
	{34, modifiedKey{KeyF20, KeyF20, KeyF20, KeyF20}},
}

// Sequences that do not follow the modifier grammar
var fixedCSISequences = []escapeSequence{
	{seq: "Z", key: KeyShiftTab},

	// rxvt shifted arrows
	{seq: "a", key: KeyShiftUp},
	{seq: "b", key: KeyShiftDown},
	{seq: "c", key: KeyShiftRight},
	{seq: "d", key: KeyShiftLeft},

	// Linux console function keys (CSI [ A..E)
	{seq: "[A", key: KeyF1},
	{seq: "[B", key: KeyF2},
	{seq: "[C", key: KeyF3},
	{seq: "[D", key: KeyF4},
	{seq: "[E", key: KeyF5},
}

// SS3 sequences (ESC O ...)
var ss3Sequences = []escapeSequence{
	{seq: "A", key: KeyUp},
	{seq: "B", key: KeyDown},
	{seq: "C", key: KeyRight},
	{seq: "D", key: KeyLeft},
	{seq: "H", key: KeyHome},
	{seq: "F", key: KeyEnd},
	{seq: "P", key: KeyF1},
	{seq: "Q", key: KeyF2},
	{seq: "R", key: KeyF3},
	{seq: "S", key: KeyF4},
	{seq: "M", key: KeyEnter},

	// Application keypad
	{seq: "j", key: KeyRunes, r: '*'},
	{seq: "k", key: KeyRunes, r: '+'},
	{seq: "l", key: KeyRunes, r: ','},
	{seq: "m", key: KeyRunes, r: '-'},
	{seq: "n", key: KeyRunes, r: '.'},
	{seq: "o", key: KeyRunes, r: '/'},
	{seq: "p", key: KeyRunes, r: '0'},
	{seq: "q", key: KeyRunes, r: '1'},
	{seq: "r", key: KeyRunes, r: '2'},
	{seq: "s", key: KeyRunes, r: '3'},
	{seq: "t", key: KeyRunes, r: '4'},
	{seq: "u", key: KeyRunes, r: '5'},
	{seq: "v", key: KeyRunes, r: '6'},
	{seq: "w", key: KeyRunes, r: '7'},
	{seq: "x", key: KeyRunes, r: '8'},
	{seq: "y", key: KeyRunes, r: '9'},
	{seq: "X", key: KeyRunes, r: '='},
}

var csiMap = buildSequenceMap(buildCSISequences())
var ss3Map = buildSequenceMap(ss3Sequences)

// buildCSISequences expands the cursor and tilde tables over the xterm
// modifier parameter: m-1 is a bitmask of shift(1), alt(2), ctrl(4)
func buildCSISequences() []escapeSequence {
	seqs := make([]escapeSequence, 0, 512)
	seqs = append(seqs, fixedCSISequences...)

	for _, c := range cursorFinals {
		if c.final != "P" && c.final != "Q" && c.final != "R" && c.final != "S" {
			seqs = append(seqs, escapeSequence{seq: c.final, key: c.keys.plain})
		}
		for m := 1; m <= 8; m++ {
			bits := m - 1
			key := c.keys.pick(bits&1 != 0, bits&4 != 0)
			seqs = append(seqs, escapeSequence{
				seq: "1;" + strconv.Itoa(m) + c.final,
				key: key,
				alt: bits&2 != 0,
			})
		}
	}

	for _, t := range tildeCodes {
		code := strconv.Itoa(t.code)
		seqs = append(seqs, escapeSequence{seq: code + "~", key: t.keys.plain})
		for m := 1; m <= 8; m++ {
			bits := m - 1
			seqs = append(seqs, escapeSequence{
				seq: code + ";" + strconv.Itoa(m) + "~",
				key: t.keys.pick(bits&1 != 0, bits&4 != 0),
				alt: bits&2 != 0,
			})
		}
	}
	return seqs
}

func buildSequenceMap(seqs []escapeSequence) map[string]escapeSequence {
	m := make(map[string]escapeSequence, len(seqs))
	for _, s := range seqs {
		m[s.seq] = s
	}
	return m
}

// lookupCSI resolves a CSI body. The string([]byte) conversion inside the
// map index does not allocate.
func lookupCSI(body []byte) (KeyEvent, bool) {
	s, ok := csiMap[string(body)]
	if !ok {
		return KeyEvent{}, false
	}
	return KeyEvent{Type: s.key, Alt: s.alt}, true
}

// lookupSS3 resolves the byte following ESC O
func lookupSS3(body []byte) (KeyEvent, bool) {
	s, ok := ss3Map[string(body)]
	if !ok {
		return KeyEvent{}, false
	}
	if s.key == KeyRunes {
		return KeyEvent{Type: KeyRunes, Runes: []rune{s.r}}, true
	}
	return KeyEvent{Type: s.key}, true
}
