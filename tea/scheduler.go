// @focus: #tea { scheduler }
package tea

import (
	"context"
	"io"
	"runtime/debug"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"
)

// Scheduler runs commands off the event loop and delivers their messages.
//
// Execute runs one command. ExecuteBatch runs commands independently, with
// messages arriving in any order. ExecuteSequence runs commands in list
// order, delivering each message before starting the next command. A
// BatchMsg or SequenceMsg produced by a command is expanded in place.
type Scheduler interface {
	Execute(cmd Cmd)
	ExecuteBatch(cmds []Cmd)
	ExecuteSequence(cmds []Cmd)
	// Wait blocks until every started command has finished
	Wait()
}

// Deliver hands a message to the event loop. It returns false once the
// loop no longer accepts messages.
type Deliver func(Msg) bool

// SchedulerFunc builds the scheduler for a run. ctx ends when the program
// shuts down.
type SchedulerFunc func(ctx context.Context, deliver Deliver) Scheduler

// SchedulerConfig tunes the default scheduler
type SchedulerConfig struct {
	// MaxConcurrency bounds commands executing at once; 0 is unbounded
	MaxConcurrency int64
	// CatchPanics turns a panicking command into a panic message instead
	// of crashing the process
	CatchPanics bool
	// OnPanic runs on the panicking goroutine when CatchPanics is off,
	// before the panic continues and takes the process down
	OnPanic func(v any)
	Logger  *log.Logger
}

// GoScheduler runs every command on its own goroutine. Commands are never
// interrupted; once ctx ends their messages are dropped.
type GoScheduler struct {
	ctx     context.Context
	deliver Deliver
	sem     *semaphore.Weighted
	catch   bool
	onPanic func(v any)
	logger  *log.Logger
	wg      sync.WaitGroup
}

// NewScheduler creates the default goroutine scheduler
func NewScheduler(ctx context.Context, deliver Deliver, cfg SchedulerConfig) *GoScheduler {
	s := &GoScheduler{
		ctx:     ctx,
		deliver: deliver,
		catch:   cfg.CatchPanics,
		onPanic: cfg.OnPanic,
		logger:  cfg.Logger,
	}
	if cfg.MaxConcurrency > 0 {
		s.sem = semaphore.NewWeighted(cfg.MaxConcurrency)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Execute implements Scheduler
func (s *GoScheduler) Execute(cmd Cmd) {
	if cmd == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.step(cmd)
	}()
}

// ExecuteBatch implements Scheduler
func (s *GoScheduler) ExecuteBatch(cmds []Cmd) {
	for _, cmd := range cmds {
		s.Execute(cmd)
	}
}

// ExecuteSequence implements Scheduler
func (s *GoScheduler) ExecuteSequence(cmds []Cmd) {
	if len(cmds) == 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sequence(cmds)
	}()
}

// Wait implements Scheduler
func (s *GoScheduler) Wait() {
	s.wg.Wait()
}

func (s *GoScheduler) sequence(cmds []Cmd) bool {
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		if !s.step(cmd) {
			return false
		}
	}
	return true
}

// step runs cmd and delivers its result. Composite results are expanded:
// a batch completes entirely before step returns, so a sequence never
// moves past an unfinished batch. Returns false when delivery stopped.
func (s *GoScheduler) step(cmd Cmd) bool {
	msg, ok := s.call(cmd)
	if !ok {
		return false
	}

	switch m := msg.(type) {
	case nil:
		return true
	case BatchMsg:
		var wg sync.WaitGroup
		for _, c := range m {
			if c == nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.step(c)
			}()
		}
		wg.Wait()
		return s.ctx.Err() == nil
	case SequenceMsg:
		return s.sequence(m)
	default:
		return s.deliver(m)
	}
}

// call executes one command, holding a concurrency slot while it runs
func (s *GoScheduler) call(cmd Cmd) (msg Msg, ok bool) {
	if s.sem != nil {
		if err := s.sem.Acquire(s.ctx, 1); err != nil {
			return nil, false
		}
		defer s.sem.Release(1)
	}

	switch {
	case s.catch:
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				s.logger.Error("command panic", "panic", r, "stack", string(stack))
				s.deliver(panicMsg{value: r, stack: stack})
				msg, ok = nil, false
			}
		}()
	case s.onPanic != nil:
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("command panic", "panic", r, "stack", string(debug.Stack()))
				s.onPanic(r)
				panic(r)
			}
		}()
	}
	return cmd(), true
}
