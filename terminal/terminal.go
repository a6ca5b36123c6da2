package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ErrReleased is returned by writes after the terminal has been restored
var ErrReleased = errors.New("terminal: released")

// Options configures terminal acquisition
type Options struct {
	// Input and Output default to os.Stdin and os.Stdout
	Input  io.Reader
	Output io.Writer
	// DisableInput skips the input reader entirely
	DisableInput bool

	AltScreen      bool
	Mouse          MouseMode
	BracketedPaste bool
	ReportFocus    bool
	ShowCursor     bool

	// EscapeTimeout defaults to DefaultEscapeTimeout
	EscapeTimeout time.Duration

	// Width and Height are reported when the output is not a terminal
	Width, Height int

	// Backend overrides the device; Input and Output are ignored when set
	Backend Backend
}

func (o Options) withDefaults() Options {
	if o.Input == nil && !o.DisableInput && o.Backend == nil {
		o.Input = os.Stdin
	}
	if o.Output == nil {
		o.Output = os.Stdout
	}
	if o.EscapeTimeout <= 0 {
		o.EscapeTimeout = DefaultEscapeTimeout
	}
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.Height <= 0 {
		o.Height = 24
	}
	return o
}

// Driver owns the terminal between Acquire and Release. All output goes
// through Write and the mode methods, which serialise on one mutex.
type Driver struct {
	backend Backend
	opts    Options
	color   ColorMode

	input  *inputReader
	resize *resizeHandler
	events chan Event
	errs   chan error
	stopCh chan struct{}

	releaseOnce sync.Once
	releaseErr  error

	mu           sync.Mutex
	released     bool
	altScreen    bool
	mouse        MouseMode
	paste        bool
	focus        bool
	cursorHidden bool
}

// Acquire puts the terminal under program control: raw mode, then the
// screen modes requested in opts. On failure everything already changed
// is restored before the error is returned.
func Acquire(opts Options) (*Driver, error) {
	opts = opts.withDefaults()

	b := opts.Backend
	if b == nil {
		in := opts.Input
		if opts.DisableInput {
			in = nil
		}
		b = newBackend(in, opts.Output)
	}

	d := &Driver{
		backend: b,
		opts:    opts,
		color:   DetectColorMode(opts.Output),
		events:  make(chan Event, 256),
		errs:    make(chan error, 1),
		stopCh:  make(chan struct{}),
	}

	if err := b.Init(); err != nil {
		return nil, errors.Join(err, b.Fini())
	}
	if err := d.enterModes(); err != nil {
		return nil, errors.Join(err, d.Release())
	}

	if !opts.DisableInput {
		d.input = newInputReader(b, opts.EscapeTimeout, d.events, d.errs)
		d.input.start()
	}

	if b.IsTerminal() {
		if w, h, ok := b.Size(); ok {
			d.post(ResizeEvent{Width: w, Height: h})
		}
		d.resize = newResizeHandler(b.Size, d.post, d.fail)
		d.resize.start()
	}
	return d, nil
}

// Scope acquires the terminal, runs fn and restores the terminal when fn
// returns or panics. A panic continues after restoration.
func Scope(opts Options, fn func(*Driver) error) (err error) {
	d, err := Acquire(opts)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := d.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(d)
}

func (d *Driver) enterModes() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.opts.AltScreen {
		if err := d.setAltScreenLocked(true); err != nil {
			return fmt.Errorf("enter alt screen: %w", err)
		}
	}
	if !d.opts.ShowCursor {
		if err := d.setCursorLocked(false); err != nil {
			return err
		}
	}
	if err := d.setMouseLocked(d.opts.Mouse); err != nil {
		return err
	}
	if err := d.setPasteLocked(d.opts.BracketedPaste); err != nil {
		return err
	}
	return d.setFocusLocked(d.opts.ReportFocus)
}

// Release restores every mode the driver changed, stops the input and
// resize goroutines and leaves raw mode. It runs once; later calls return
// the first result.
func (d *Driver) Release() error {
	d.releaseOnce.Do(func() {
		d.releaseErr = d.release()
	})
	return d.releaseErr
}

// Reset is the crash path for goroutines that cannot return an error to
// the owner of the driver. It runs Release and, when the orderly restore
// fails, falls back to EmergencyReset on the backend.
func (d *Driver) Reset() {
	if err := d.Release(); err != nil {
		EmergencyReset(d.backend)
	}
}

func (d *Driver) release() error {
	close(d.stopCh)
	if d.input != nil {
		d.input.stop()
	}
	if d.resize != nil {
		d.resize.stop()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// One write so the restore sequence cannot interleave with anything
	var buf bytes.Buffer
	switch d.mouse {
	case MouseModeAllMotion:
		buf.Write(csiMouseAllOff)
	case MouseModeCellMotion:
		buf.Write(csiMouseCellOff)
	}
	if d.mouse != MouseModeNone {
		buf.Write(csiMouseClickOff)
		buf.Write(csiMouseSGROff)
	}
	if d.focus {
		buf.Write(csiFocusReportOff)
	}
	if d.paste {
		buf.Write(csiPasteOff)
	}
	buf.Write(csiSGR0)
	if d.cursorHidden {
		buf.Write(csiCursorShow)
	}
	if d.altScreen {
		buf.Write(csiAltScreenExit)
	}

	var errs []error
	if _, err := d.backend.Write(buf.Bytes()); err != nil {
		errs = append(errs, fmt.Errorf("restore modes: %w", err))
	}
	if err := d.backend.Fini(); err != nil {
		errs = append(errs, err)
	}

	d.released = true
	d.mouse = MouseModeNone
	d.focus, d.paste, d.cursorHidden, d.altScreen = false, false, false, false
	return errors.Join(errs...)
}

// Events returns decoded input merged with resize notifications
func (d *Driver) Events() <-chan Event {
	return d.events
}

// Errors delivers unrecoverable input failures
func (d *Driver) Errors() <-chan error {
	return d.errs
}

// Write sends bytes to the terminal output
func (d *Driver) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return 0, ErrReleased
	}
	return d.backend.Write(p)
}

// Size returns current terminal dimensions, falling back to the configured
// size when the output is not a terminal
func (d *Driver) Size() (int, int) {
	if w, h, ok := d.backend.Size(); ok {
		return w, h
	}
	return d.opts.Width, d.opts.Height
}

// IsTerminal reports whether output is a tty
func (d *Driver) IsTerminal() bool {
	return d.backend.IsTerminal()
}

// ColorMode returns detected color capability
func (d *Driver) ColorMode() ColorMode {
	return d.color
}

// AltScreen reports whether the alternate screen is active
func (d *Driver) AltScreen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.altScreen
}

// MouseMode returns the active mouse reporting mode
func (d *Driver) MouseMode() MouseMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mouse
}

// EnterAltScreen switches to the alternate screen and clears it
func (d *Driver) EnterAltScreen() error {
	return d.locked(func() error { return d.setAltScreenLocked(true) })
}

// ExitAltScreen returns to the main screen
func (d *Driver) ExitAltScreen() error {
	return d.locked(func() error { return d.setAltScreenLocked(false) })
}

// SetMouseMode enables or disables mouse reporting
func (d *Driver) SetMouseMode(mode MouseMode) error {
	return d.locked(func() error { return d.setMouseLocked(mode) })
}

// SetBracketedPaste toggles bracketed paste
func (d *Driver) SetBracketedPaste(on bool) error {
	return d.locked(func() error { return d.setPasteLocked(on) })
}

// SetReportFocus toggles focus in/out reports
func (d *Driver) SetReportFocus(on bool) error {
	return d.locked(func() error { return d.setFocusLocked(on) })
}

// SetCursorVisible shows/hides cursor
func (d *Driver) SetCursorVisible(visible bool) error {
	return d.locked(func() error { return d.setCursorLocked(visible) })
}

// SetWindowTitle sets the terminal window title
func (d *Driver) SetWindowTitle(title string) error {
	return d.locked(func() error { return writeWindowTitle(d.backend, title) })
}

// ClearScreen erases the screen and homes the cursor
func (d *Driver) ClearScreen() error {
	return d.locked(func() error { return writeAll(d.backend, csiClear) })
}

// locked runs fn under the output mutex; after release it is a no-op
func (d *Driver) locked(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return nil
	}
	return fn()
}

func (d *Driver) setAltScreenLocked(on bool) error {
	if d.altScreen == on {
		return nil
	}
	var err error
	if on {
		err = writeAll(d.backend, csiAltScreenEnter, csiClear)
	} else {
		err = writeAll(d.backend, csiAltScreenExit)
	}
	if err == nil {
		d.altScreen = on
	}
	return err
}

func (d *Driver) setCursorLocked(visible bool) error {
	if d.cursorHidden == !visible {
		return nil
	}
	seq := csiCursorHide
	if visible {
		seq = csiCursorShow
	}
	if err := writeAll(d.backend, seq); err != nil {
		return err
	}
	d.cursorHidden = !visible
	return nil
}

// setMouseLocked diffs the old and new modes and writes only the changes
func (d *Driver) setMouseLocked(mode MouseMode) error {
	old := d.mouse
	if old == mode {
		return nil
	}

	var seqs [][]byte
	switch old {
	case MouseModeCellMotion:
		seqs = append(seqs, csiMouseCellOff)
	case MouseModeAllMotion:
		seqs = append(seqs, csiMouseAllOff)
	}
	if mode == MouseModeNone {
		seqs = append(seqs, csiMouseClickOff, csiMouseSGROff)
	}

	// Enable SGR first if enabling from nothing
	if old == MouseModeNone {
		seqs = append(seqs, csiMouseClickOn, csiMouseSGROn)
	}
	switch mode {
	case MouseModeCellMotion:
		seqs = append(seqs, csiMouseCellOn)
	case MouseModeAllMotion:
		seqs = append(seqs, csiMouseAllOn)
	}

	if err := writeAll(d.backend, seqs...); err != nil {
		return fmt.Errorf("mouse mode: %w", err)
	}
	d.mouse = mode
	return nil
}

func (d *Driver) setPasteLocked(on bool) error {
	if d.paste == on {
		return nil
	}
	seq := csiPasteOff
	if on {
		seq = csiPasteOn
	}
	if err := writeAll(d.backend, seq); err != nil {
		return err
	}
	d.paste = on
	return nil
}

func (d *Driver) setFocusLocked(on bool) error {
	if d.focus == on {
		return nil
	}
	seq := csiFocusReportOff
	if on {
		seq = csiFocusReportOn
	}
	if err := writeAll(d.backend, seq); err != nil {
		return err
	}
	d.focus = on
	return nil
}

// post delivers an event unless the driver is released
func (d *Driver) post(ev ResizeEvent) bool {
	select {
	case d.events <- ev:
		return true
	case <-d.stopCh:
		return false
	}
}

func (d *Driver) fail(err error) {
	select {
	case d.errs <- err:
	default:
	}
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Release cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseAllOff)
	w.Write(csiMouseCellOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)
	w.Write(csiPasteOff)
	w.Write(csiFocusReportOff)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
