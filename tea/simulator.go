package tea

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/teacup/terminal"
)

// SimStats counts simulator activity
type SimStats struct {
	Updates  int // messages passed to Update
	Commands int // commands executed
	Renders  int // distinct views produced
}

// Simulator steps a model without a terminal. Commands run synchronously
// on the calling goroutine, batches and sequences in list order, so runs
// are reproducible. Timer commands still wait for their duration.
type Simulator struct {
	model Model
	queue []Msg

	views   []string
	printed []string
	title   string
	width   int
	height  int
	color   terminal.ColorMode

	quit        bool
	interrupted bool
	stats       SimStats
}

// NewSimulator wraps model. WindowSize requests report 80x24 unless
// SetSize is called.
func NewSimulator(model Model) *Simulator {
	return &Simulator{model: model, width: 80, height: 24}
}

// SetSize sets the size reported for WindowSize requests
func (s *Simulator) SetSize(width, height int) {
	s.width, s.height = width, height
}

// SetColorMode sets the mode reported for RequestColorMode; the default
// is ColorModeNone
func (s *Simulator) SetColorMode(mode terminal.ColorMode) {
	s.color = mode
}

// Init runs the model's Init command and records the first view
func (s *Simulator) Init() {
	s.exec(s.model.Init())
	s.record()
}

// Send queues msg for the next Step
func (s *Simulator) Send(msg Msg) {
	s.queue = append(s.queue, msg)
}

// Step processes one queued message. Returns false when nothing was
// queued or the program already quit.
func (s *Simulator) Step() bool {
	if s.quit || len(s.queue) == 0 {
		return false
	}
	msg := s.queue[0]
	s.queue = s.queue[1:]

	switch m := msg.(type) {
	case nil:
		return true
	case QuitMsg:
		s.quit = true
		return true
	case InterruptMsg:
		s.quit, s.interrupted = true, true
		return true
	case BatchMsg:
		for _, c := range m {
			s.exec(c)
		}
		return true
	case SequenceMsg:
		for _, c := range m {
			s.exec(c)
		}
		return true
	case setWindowTitleMsg:
		s.title = string(m)
		return true
	case windowSizeMsg:
		s.Send(WindowSizeMsg{Width: s.width, Height: s.height})
		return true
	case colorModeMsg:
		s.Send(ColorModeMsg{Mode: s.color})
		return true
	case printLineMsg:
		s.printed = append(s.printed, splitLines(m.text)...)
		return true
	case screenMsg:
		return true
	}

	s.stats.Updates++
	s.exec(s.model.Update(msg))
	s.record()
	return true
}

// RunUntilEmpty steps until the queue drains or the model quits and
// returns the number of steps taken
func (s *Simulator) RunUntilEmpty() int {
	n := 0
	for s.Step() {
		n++
	}
	return n
}

// errSimulatorIdle is returned when the queue drains before a quit
var errSimulatorIdle = errors.New("tea: simulator idle before quit")

// RunUntilQuit steps until the model quits. It fails if the queue drains
// first or maxSteps is exceeded. An interrupt yields ErrInterrupted.
func (s *Simulator) RunUntilQuit(maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		if s.quit {
			break
		}
		if !s.Step() {
			return errSimulatorIdle
		}
	}
	if !s.quit {
		return fmt.Errorf("tea: no quit after %d steps", maxSteps)
	}
	if s.interrupted {
		return ErrInterrupted
	}
	return nil
}

// Model returns the simulated model
func (s *Simulator) Model() Model {
	return s.model
}

// Views returns every distinct view in order of appearance
func (s *Simulator) Views() []string {
	return s.views
}

// LastView returns the most recent view
func (s *Simulator) LastView() string {
	if len(s.views) == 0 {
		return ""
	}
	return s.views[len(s.views)-1]
}

// Printed returns lines emitted with Println and Printf
func (s *Simulator) Printed() []string {
	return s.printed
}

// Title returns the last window title set
func (s *Simulator) Title() string {
	return s.title
}

// Pending returns the number of queued messages
func (s *Simulator) Pending() int {
	return len(s.queue)
}

// Stats returns activity counters
func (s *Simulator) Stats() SimStats {
	return s.stats
}

// IsQuit reports whether a quit or interrupt was processed
func (s *Simulator) IsQuit() bool {
	return s.quit
}

func (s *Simulator) exec(cmd Cmd) {
	if cmd == nil {
		return
	}
	s.stats.Commands++
	switch m := cmd().(type) {
	case nil:
	case BatchMsg:
		for _, c := range m {
			s.exec(c)
		}
	case SequenceMsg:
		for _, c := range m {
			s.exec(c)
		}
	default:
		s.Send(m)
	}
}

// record keeps the view if it differs from the previous one
func (s *Simulator) record() {
	v := s.model.View()
	if len(s.views) > 0 && s.views[len(s.views)-1] == v {
		return
	}
	s.views = append(s.views, v)
	s.stats.Renders++
}
