package tea

import (
	"fmt"
	"time"
)

// Batch runs cmds concurrently. Their messages arrive in no particular
// order. Nil commands are dropped.
func Batch(cmds ...Cmd) Cmd {
	valid := compact(cmds)
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return func() Msg { return BatchMsg(valid) }
}

// Sequence runs cmds one at a time. Each message is delivered before the
// next command starts. Nil commands are dropped.
func Sequence(cmds ...Cmd) Cmd {
	valid := compact(cmds)
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return func() Msg { return SequenceMsg(valid) }
}

func compact(cmds []Cmd) []Cmd {
	var valid []Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	return valid
}

// Quit is a command that ends the program
func Quit() Msg {
	return QuitMsg{}
}

// Interrupt is a command that ends the program with ErrInterrupted
func Interrupt() Msg {
	return InterruptMsg{}
}

// Tick delivers fn(t) once d has elapsed. To repeat, return another Tick
// from Update when the message arrives.
func Tick(d time.Duration, fn func(time.Time) Msg) Cmd {
	return func() Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		return fn(<-t.C)
	}
}

// Every delivers fn(t) at the next instant that is a whole multiple of d
// on the wall clock. Every(time.Second, ...) fires on second boundaries
// regardless of when it was issued.
func Every(d time.Duration, fn func(time.Time) Msg) Cmd {
	return func() Msg {
		now := time.Now()
		next := now.Truncate(d).Add(d)
		t := time.NewTimer(next.Sub(now))
		defer t.Stop()
		return fn(<-t.C)
	}
}

// SetWindowTitle sets the terminal window title
func SetWindowTitle(title string) Cmd {
	return func() Msg { return setWindowTitleMsg(title) }
}

// WindowSize requests a WindowSizeMsg with the current terminal size
func WindowSize() Cmd {
	return func() Msg { return windowSizeMsg{} }
}

// RequestColorMode requests a ColorModeMsg describing the output
func RequestColorMode() Cmd {
	return func() Msg { return colorModeMsg{} }
}

// Println prints a line above the frame that stays in the scrollback.
// It has no effect on the alternate screen.
func Println(args ...any) Cmd {
	return func() Msg { return printLineMsg{text: fmt.Sprint(args...)} }
}

// Printf is Println with formatting
func Printf(format string, args ...any) Cmd {
	return func() Msg { return printLineMsg{text: fmt.Sprintf(format, args...)} }
}

// Screen commands. Each can be returned directly as a Cmd.

func ClearScreen() Msg           { return screenMsg{screenClear} }
func EnterAltScreen() Msg        { return screenMsg{screenEnterAlt} }
func ExitAltScreen() Msg         { return screenMsg{screenExitAlt} }
func ShowCursor() Msg            { return screenMsg{screenShowCursor} }
func HideCursor() Msg            { return screenMsg{screenHideCursor} }
func EnableMouseCellMotion() Msg { return screenMsg{screenMouseCell} }
func EnableMouseAllMotion() Msg  { return screenMsg{screenMouseAll} }
func DisableMouse() Msg          { return screenMsg{screenMouseOff} }
func EnableBracketedPaste() Msg  { return screenMsg{screenPasteOn} }
func DisableBracketedPaste() Msg { return screenMsg{screenPasteOff} }
func EnableReportFocus() Msg     { return screenMsg{screenFocusOn} }
func DisableReportFocus() Msg    { return screenMsg{screenFocusOff} }
