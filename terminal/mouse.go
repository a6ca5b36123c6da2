package terminal

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
	MouseButtonWheelUp
	MouseButtonWheelDown
	MouseButtonWheelLeft
	MouseButtonWheelRight
	MouseButtonBackward
	MouseButtonForward
	MouseButton10
	MouseButton11
)

// MouseAction represents the type of mouse event
type MouseAction uint8

const (
	MouseActionPress MouseAction = iota
	MouseActionRelease
	MouseActionMotion
)

// MouseMode selects which mouse events the terminal reports
type MouseMode uint8

const (
	MouseModeNone       MouseMode = iota
	MouseModeCellMotion           // press, release, motion while a button is held
	MouseModeAllMotion            // press, release, all motion
)

var mouseButtonNames = map[MouseButton]string{
	MouseButtonNone:       "none",
	MouseButtonLeft:       "left",
	MouseButtonMiddle:     "middle",
	MouseButtonRight:      "right",
	MouseButtonWheelUp:    "wheel up",
	MouseButtonWheelDown:  "wheel down",
	MouseButtonWheelLeft:  "wheel left",
	MouseButtonWheelRight: "wheel right",
	MouseButtonBackward:   "backward",
	MouseButtonForward:    "forward",
	MouseButton10:         "button 10",
	MouseButton11:         "button 11",
}

// String returns human-readable button name
func (b MouseButton) String() string {
	return mouseButtonNames[b]
}

// String returns human-readable action name
func (a MouseAction) String() string {
	switch a {
	case MouseActionPress:
		return "press"
	case MouseActionRelease:
		return "release"
	case MouseActionMotion:
		return "motion"
	default:
		return "unknown"
	}
}

// String returns the mode name used in configuration
func (m MouseMode) String() string {
	switch m {
	case MouseModeCellMotion:
		return "cell"
	case MouseModeAllMotion:
		return "all"
	default:
		return "none"
	}
}

// ParseMouseMode accepts "none", "cell" or "all"
func ParseMouseMode(s string) (MouseMode, bool) {
	switch s {
	case "", "none", "off":
		return MouseModeNone, true
	case "cell", "cell_motion":
		return MouseModeCellMotion, true
	case "all", "all_motion":
		return MouseModeAllMotion, true
	}
	return MouseModeNone, false
}

// MouseEvent is a decoded mouse report. X and Y are 0-based cell coordinates.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

// IsWheel reports whether the event comes from a scroll wheel
func (m MouseEvent) IsWheel() bool {
	switch m.Button {
	case MouseButtonWheelUp, MouseButtonWheelDown, MouseButtonWheelLeft, MouseButtonWheelRight:
		return true
	}
	return false
}

// String renders e.g. "ctrl+left", "left release", "wheel up", "motion"
func (m MouseEvent) String() string {
	var s string
	if m.Ctrl {
		s += "ctrl+"
	}
	if m.Alt {
		s += "alt+"
	}
	if m.Shift {
		s += "shift+"
	}

	if m.Button == MouseButtonNone {
		if m.Action == MouseActionMotion || m.Action == MouseActionRelease {
			s += m.Action.String()
		} else {
			s += "unknown"
		}
		return s
	}
	if m.IsWheel() {
		return s + m.Button.String()
	}

	s += m.Button.String()
	if m.Action != MouseActionPress {
		s += " " + m.Action.String()
	}
	return s
}

// Mouse report button byte layout shared by the X10 and SGR encodings
const (
	mouseBitShift  = 0b0000_0100
	mouseBitAlt    = 0b0000_1000
	mouseBitCtrl   = 0b0001_0000
	mouseBitMotion = 0b0010_0000
	mouseBitWheel  = 0b0100_0000
	mouseBitExtra  = 0b1000_0000
	mouseBitsBtn   = 0b0000_0011
)

// decodeMouseButton fills button, action and modifiers from a report byte.
// release marks the SGR lowercase terminator; X10 encodes release as button 3.
func decodeMouseButton(b int, release bool) MouseEvent {
	m := MouseEvent{
		Shift: b&mouseBitShift != 0,
		Alt:   b&mouseBitAlt != 0,
		Ctrl:  b&mouseBitCtrl != 0,
	}

	btn := b & mouseBitsBtn
	switch {
	case b&mouseBitExtra != 0:
		m.Button = MouseButtonBackward + MouseButton(btn)
	case b&mouseBitWheel != 0:
		m.Button = MouseButtonWheelUp + MouseButton(btn)
	default:
		if btn == mouseBitsBtn {
			m.Button = MouseButtonNone
			if b&mouseBitMotion == 0 {
				m.Action = MouseActionRelease
			}
		} else {
			m.Button = MouseButtonLeft + MouseButton(btn)
		}
	}

	switch {
	case b&mouseBitMotion != 0 && !m.IsWheel():
		m.Action = MouseActionMotion
	case release:
		m.Action = MouseActionRelease
	}
	return m
}
