package tea

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/teacup/render"
	"github.com/lixenwraith/teacup/terminal"
)

// ProgramOption configures a Program
type ProgramOption func(*Program)

type programOptions struct {
	ctx context.Context

	input    io.Reader
	inputSet bool
	output   io.Writer
	backend  terminal.Backend

	altScreen      bool
	mouse          terminal.MouseMode
	bracketedPaste bool
	reportFocus    bool
	escapeTimeout  time.Duration
	width, height  int

	fps            int
	handleSignals  bool
	catchPanics    bool
	maxConcurrency int64
	logger         *log.Logger
	scheduler      SchedulerFunc
}

func defaultOptions() programOptions {
	return programOptions{
		ctx:            context.Background(),
		bracketedPaste: true,
		fps:            render.DefaultFPS,
		handleSignals:  true,
		catchPanics:    true,
		logger:         log.New(io.Discard),
	}
}

// WithContext sets a context; cancelling it kills the program
func WithContext(ctx context.Context) ProgramOption {
	return func(p *Program) {
		p.opts.ctx = ctx
	}
}

// WithInput sets the input source. Nil disables input entirely.
func WithInput(r io.Reader) ProgramOption {
	return func(p *Program) {
		p.opts.input = r
		p.opts.inputSet = true
	}
}

// WithOutput sets where frames are written. Defaults to stdout.
func WithOutput(w io.Writer) ProgramOption {
	return func(p *Program) {
		p.opts.output = w
	}
}

// WithBackend replaces the terminal device. Input and output options are
// ignored when set.
func WithBackend(b terminal.Backend) ProgramOption {
	return func(p *Program) {
		p.opts.backend = b
	}
}

// WithAltScreen starts the program on the alternate screen
func WithAltScreen() ProgramOption {
	return func(p *Program) {
		p.opts.altScreen = true
	}
}

// WithMouseCellMotion reports clicks, wheel and drags
func WithMouseCellMotion() ProgramOption {
	return func(p *Program) {
		p.opts.mouse = terminal.MouseModeCellMotion
	}
}

// WithMouseAllMotion reports all mouse movement
func WithMouseAllMotion() ProgramOption {
	return func(p *Program) {
		p.opts.mouse = terminal.MouseModeAllMotion
	}
}

// WithoutBracketedPaste leaves bracketed paste off
func WithoutBracketedPaste() ProgramOption {
	return func(p *Program) {
		p.opts.bracketedPaste = false
	}
}

// WithReportFocus delivers FocusMsg and BlurMsg
func WithReportFocus() ProgramOption {
	return func(p *Program) {
		p.opts.reportFocus = true
	}
}

// WithFPS caps the frame rate, clamped to [1, render.MaxFPS]
func WithFPS(fps int) ProgramOption {
	return func(p *Program) {
		p.opts.fps = fps
	}
}

// WithoutSignalHandler leaves SIGINT and SIGTERM to the caller
func WithoutSignalHandler() ProgramOption {
	return func(p *Program) {
		p.opts.handleSignals = false
	}
}

// WithoutCatchPanics lets panics in model code and commands propagate
func WithoutCatchPanics() ProgramOption {
	return func(p *Program) {
		p.opts.catchPanics = false
	}
}

// WithLogger sets the diagnostics logger. It must not write to the
// program's terminal.
func WithLogger(l *log.Logger) ProgramOption {
	return func(p *Program) {
		p.opts.logger = l
	}
}

// WithScheduler replaces the default goroutine-per-command scheduler
func WithScheduler(fn SchedulerFunc) ProgramOption {
	return func(p *Program) {
		p.opts.scheduler = fn
	}
}

// WithMaxConcurrency bounds how many commands the default scheduler runs
// at once
func WithMaxConcurrency(n int64) ProgramOption {
	return func(p *Program) {
		p.opts.maxConcurrency = n
	}
}

// WithEscapeTimeout sets how long a lone ESC waits before it is reported
// as the Escape key
func WithEscapeTimeout(d time.Duration) ProgramOption {
	return func(p *Program) {
		p.opts.escapeTimeout = d
	}
}

// WithWindowSize sets the size reported when the output is not a
// terminal, and delivers it as the first WindowSizeMsg
func WithWindowSize(width, height int) ProgramOption {
	return func(p *Program) {
		p.opts.width, p.opts.height = width, height
	}
}

func (o programOptions) terminalOptions() terminal.Options {
	return terminal.Options{
		Input:          o.input,
		Output:         o.output,
		DisableInput:   o.inputSet && o.input == nil,
		AltScreen:      o.altScreen,
		Mouse:          o.mouse,
		BracketedPaste: o.bracketedPaste,
		ReportFocus:    o.reportFocus,
		EscapeTimeout:  o.escapeTimeout,
		Width:          o.width,
		Height:         o.height,
		Backend:        o.backend,
	}
}
