// @focus: #tea { program, lifecycle }
package tea

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/teacup/render"
	"github.com/lixenwraith/teacup/terminal"
)

// ProgramState is the lifecycle phase of a Program
type ProgramState int32

const (
	StateInit ProgramState = iota
	StateRunning
	StateShuttingDown
)

func (s ProgramState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	default:
		return fmt.Sprintf("ProgramState(%d)", int32(s))
	}
}

// Program runs a Model against the terminal
type Program struct {
	id     uuid.UUID
	model  Model
	opts   programOptions
	logger *log.Logger

	ctx      context.Context
	cancel   context.CancelCauseFunc
	msgs     chan Msg
	finished chan struct{}
	started  atomic.Bool
	state    atomic.Int32

	// Owned by Run
	drv      *terminal.Driver
	renderer *render.Renderer
	sched    Scheduler
	lastView string
}

// NewProgram creates a program for model. Nothing touches the terminal
// until Run.
func NewProgram(model Model, opts ...ProgramOption) *Program {
	p := &Program{
		id:       uuid.New(),
		model:    model,
		opts:     defaultOptions(),
		msgs:     make(chan Msg),
		finished: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.opts.ctx == nil {
		p.opts.ctx = context.Background()
	}
	if p.opts.logger == nil {
		p.opts.logger = log.New(io.Discard)
	}
	p.ctx, p.cancel = context.WithCancelCause(p.opts.ctx)
	p.logger = p.opts.logger.With("program", p.ID()[:8])
	return p
}

// ID identifies this program instance in logs
func (p *Program) ID() string {
	return p.id.String()
}

// State returns the current lifecycle phase
func (p *Program) State() ProgramState {
	return ProgramState(p.state.Load())
}

func (p *Program) setState(s ProgramState) {
	p.state.Store(int32(s))
	p.logger.Debug("state", "state", s)
}

// Send delivers msg to Update. It blocks until the loop accepts it and
// is a no-op once the program has finished.
func (p *Program) Send(msg Msg) {
	select {
	case p.msgs <- msg:
	case <-p.ctx.Done():
	case <-p.finished:
	}
}

// Quit asks the program to exit normally
func (p *Program) Quit() {
	p.Send(QuitMsg{})
}

// Kill stops the program without waiting for the model. Run returns
// ErrProgramKilled; the terminal is still restored.
func (p *Program) Kill() {
	p.cancel(ErrProgramKilled)
}

// Wait blocks until Run has returned
func (p *Program) Wait() {
	<-p.finished
}

// Run acquires the terminal, runs the event loop until the program ends
// and restores the terminal before returning. The final model is returned
// on every path.
//
// Errors: nil after a quit, ErrInterrupted, ErrProgramKilled,
// ErrProgramPanic, or a *TerminalError when the device failed.
func (p *Program) Run() (final Model, err error) {
	if !p.started.CompareAndSwap(false, true) {
		return p.model, ErrAlreadyStarted
	}
	defer close(p.finished)
	p.logger.Info("starting")

	drv, err := terminal.Acquire(p.opts.terminalOptions())
	if err != nil {
		p.logger.Error("terminal acquire failed", "err", err)
		return p.model, &TerminalError{Op: "acquire", Err: err}
	}
	p.drv = drv

	// Runs last: nothing may write after the terminal is restored
	defer func() {
		if rerr := drv.Release(); rerr != nil {
			p.logger.Error("terminal restore failed", "err", rerr)
			err = errors.Join(err, &TerminalError{Op: "restore", Err: rerr})
		}
		p.logger.Info("stopped", "err", err)
	}()

	runCtx, stop := context.WithCancel(p.ctx)
	g, gctx := errgroup.WithContext(runCtx)
	defer func() {
		stop()
		_ = g.Wait()
	}()

	if p.opts.catchPanics {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("model panic", "panic", r, "stack", string(debug.Stack()))
				final, err = p.model, fmt.Errorf("%w: %v", ErrProgramPanic, r)
			}
		}()
	}

	width, height := drv.Size()
	p.renderer = render.New(drv,
		render.WithFPS(p.opts.fps),
		render.WithSize(width, height),
		render.WithAltScreen(p.opts.altScreen),
		render.WithLogger(p.logger),
	)

	deliver := func(msg Msg) bool {
		select {
		case p.msgs <- msg:
			return true
		case <-runCtx.Done():
			return false
		}
	}
	if p.opts.scheduler != nil {
		p.sched = p.opts.scheduler(runCtx, deliver)
	} else {
		p.sched = NewScheduler(runCtx, deliver, SchedulerConfig{
			MaxConcurrency: p.opts.maxConcurrency,
			CatchPanics:    p.opts.catchPanics,
			OnPanic:        p.crash,
			Logger:         p.logger,
		})
	}

	g.Go(func() error {
		return p.renderer.Run(gctx)
	})
	if p.opts.handleSignals {
		g.Go(func() error {
			return p.handleSignals(gctx, deliver)
		})
	}

	// Init
	p.sched.Execute(p.model.Init())
	if !drv.IsTerminal() && p.opts.width > 0 && p.opts.height > 0 {
		size := WindowSizeMsg{Width: p.opts.width, Height: p.opts.height}
		p.sched.Execute(func() Msg { return size })
	}
	p.view()
	p.setState(StateRunning)

	err = p.eventLoop(gctx)

	// Shutting down: stop the frame ticker before the last frame
	p.setState(StateShuttingDown)
	stop()
	_ = g.Wait()

	var termErr *TerminalError
	if !errors.As(err, &termErr) {
		if rerr := p.renderer.Stop(p.model.View()); rerr != nil {
			p.logger.Error("final frame failed", "err", rerr)
			err = errors.Join(err, &TerminalError{Op: "write", Err: rerr})
		}
	}
	return p.model, err
}

// crash restores the terminal from a command goroutine whose panic is not
// caught; Run's own deferred restore never runs in that case
func (p *Program) crash(v any) {
	p.logger.Error("uncaught command panic, restoring terminal", "panic", v)
	p.drv.Reset()
}

// eventLoop dispatches messages until one ends the program
func (p *Program) eventLoop(ctx context.Context) error {
	for {
		var msg Msg
		select {
		case <-ctx.Done():
			if p.ctx.Err() != nil {
				return p.killed()
			}
			// The errgroup cancels with the renderer's write error
			err := context.Cause(ctx)
			p.logger.Error("renderer failed", "err", err)
			return &TerminalError{Op: "write", Err: err}

		case err := <-p.drv.Errors():
			p.logger.Error("terminal input failed", "err", err)
			return &TerminalError{Op: "read", Err: err}

		case ev := <-p.drv.Events():
			msg = inputMsg(ev)

		case msg = <-p.msgs:
		}

		if done, err := p.handle(msg); done {
			return err
		}
	}
}

func (p *Program) killed() error {
	cause := context.Cause(p.ctx)
	if errors.Is(cause, ErrProgramKilled) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrProgramKilled, cause)
}

// inputMsg converts a terminal event; Ctrl+C interrupts
func inputMsg(ev terminal.Event) Msg {
	if k, ok := ev.(terminal.KeyEvent); ok && k.Type == terminal.KeyCtrlC && !k.Paste {
		return InterruptMsg{}
	}
	return ev
}

// handle processes one message. Runtime messages are consumed here;
// everything else goes to Update. Returns true when the program ends.
func (p *Program) handle(msg Msg) (bool, error) {
	switch m := msg.(type) {
	case nil:
		return false, nil
	case QuitMsg:
		return true, nil
	case InterruptMsg:
		return true, ErrInterrupted
	case panicMsg:
		return true, fmt.Errorf("%w: %v", ErrProgramPanic, m.value)

	case BatchMsg:
		p.sched.ExecuteBatch(m)
		return false, nil
	case SequenceMsg:
		p.sched.ExecuteSequence(m)
		return false, nil

	case setWindowTitleMsg:
		return p.exec(func() error { return p.drv.SetWindowTitle(string(m)) })
	case windowSizeMsg:
		w, h := p.drv.Size()
		p.sched.Execute(func() Msg { return WindowSizeMsg{Width: w, Height: h} })
		return false, nil
	case colorModeMsg:
		mode := p.drv.ColorMode()
		p.sched.Execute(func() Msg { return ColorModeMsg{Mode: mode} })
		return false, nil
	case printLineMsg:
		p.renderer.Println(splitLines(m.text)...)
		return false, nil
	case screenMsg:
		return p.screen(m.op)

	case WindowSizeMsg:
		p.renderer.Resize(m.Width, m.Height)
	}

	p.sched.Execute(p.model.Update(msg))
	p.view()
	return false, nil
}

// view requests a frame when the view text changed
func (p *Program) view() {
	v := p.model.View()
	if v == p.lastView {
		return
	}
	p.lastView = v
	p.renderer.Request(v)
}

// exec runs a terminal write between frames
func (p *Program) exec(fn func() error) (bool, error) {
	if err := p.renderer.Exec(fn); err != nil {
		return true, &TerminalError{Op: "write", Err: err}
	}
	return false, nil
}

func (p *Program) screen(op screenOp) (bool, error) {
	var err error
	switch op {
	case screenClear:
		err = p.renderer.ExecScreen(p.drv.AltScreen(), p.drv.ClearScreen)
	case screenEnterAlt:
		err = p.renderer.ExecScreen(true, p.drv.EnterAltScreen)
	case screenExitAlt:
		err = p.renderer.ExecScreen(false, p.drv.ExitAltScreen)
	case screenShowCursor:
		return p.exec(func() error { return p.drv.SetCursorVisible(true) })
	case screenHideCursor:
		return p.exec(func() error { return p.drv.SetCursorVisible(false) })
	case screenMouseCell:
		return p.exec(func() error { return p.drv.SetMouseMode(terminal.MouseModeCellMotion) })
	case screenMouseAll:
		return p.exec(func() error { return p.drv.SetMouseMode(terminal.MouseModeAllMotion) })
	case screenMouseOff:
		return p.exec(func() error { return p.drv.SetMouseMode(terminal.MouseModeNone) })
	case screenPasteOn:
		return p.exec(func() error { return p.drv.SetBracketedPaste(true) })
	case screenPasteOff:
		return p.exec(func() error { return p.drv.SetBracketedPaste(false) })
	case screenFocusOn:
		return p.exec(func() error { return p.drv.SetReportFocus(true) })
	case screenFocusOff:
		return p.exec(func() error { return p.drv.SetReportFocus(false) })
	}
	if err != nil {
		return true, &TerminalError{Op: "write", Err: err}
	}
	return false, nil
}
