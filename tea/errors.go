package tea

import "errors"

var (
	// ErrProgramKilled is returned when the program was stopped by Kill or
	// by its context
	ErrProgramKilled = errors.New("tea: program was killed")
	// ErrInterrupted is returned after Ctrl+C, SIGINT or an InterruptMsg
	ErrInterrupted = errors.New("tea: program was interrupted")
	// ErrProgramPanic is returned when model code or a command panicked
	ErrProgramPanic = errors.New("tea: program panic")
	// ErrAlreadyStarted is returned by a second call to Run
	ErrAlreadyStarted = errors.New("tea: program already started")
)

// TerminalError reports a failure of the terminal device. The terminal
// has been restored when Run returns it.
type TerminalError struct {
	Op  string
	Err error
}

func (e *TerminalError) Error() string {
	return "tea: terminal " + e.Op + ": " + e.Err.Error()
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}
