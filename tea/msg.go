package tea

import "github.com/lixenwraith/teacup/terminal"

// Msg is any value delivered to Update. Inspect it with a type switch.
type Msg = any

// Input messages are the decoded terminal events
type (
	KeyMsg        = terminal.KeyEvent
	MouseMsg      = terminal.MouseEvent
	WindowSizeMsg = terminal.ResizeEvent
	FocusMsg      = terminal.FocusEvent
	BlurMsg       = terminal.BlurEvent
)

// ColorModeMsg answers a RequestColorMode command with the color
// capability detected for the output
type ColorModeMsg struct {
	Mode terminal.ColorMode
}

// QuitMsg ends the program normally. The loop consumes it; Update never
// sees it.
type QuitMsg struct{}

// InterruptMsg ends the program with ErrInterrupted. Ctrl+C and SIGINT
// produce it.
type InterruptMsg struct{}

// BatchMsg carries commands to run concurrently. Returned by the command
// built with Batch.
type BatchMsg []Cmd

// SequenceMsg carries commands to run one after another. Returned by the
// command built with Sequence.
type SequenceMsg []Cmd

// Runtime-internal messages, handled by the loop and never passed on
type (
	setWindowTitleMsg string
	windowSizeMsg     struct{}
	colorModeMsg      struct{}
	printLineMsg      struct{ text string }

	// panicMsg reports a command that panicked
	panicMsg struct {
		value any
		stack []byte
	}
)

// screenOp selects a terminal mode change requested by a command
type screenOp uint8

const (
	screenClear screenOp = iota
	screenEnterAlt
	screenExitAlt
	screenShowCursor
	screenHideCursor
	screenMouseCell
	screenMouseAll
	screenMouseOff
	screenPasteOn
	screenPasteOff
	screenFocusOn
	screenFocusOff
)

type screenMsg struct{ op screenOp }
