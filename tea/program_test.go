package tea

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// safeBuffer is written by the renderer goroutine and read by the test
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testModel records every message; hooks decide the commands
type testModel struct {
	init   Cmd
	update func(m *testModel, msg Msg) Cmd
	view   func(m *testModel) string
	msgs   []Msg
}

func (m *testModel) Init() Cmd { return m.init }

func (m *testModel) Update(msg Msg) Cmd {
	m.msgs = append(m.msgs, msg)
	if m.update != nil {
		return m.update(m, msg)
	}
	return nil
}

func (m *testModel) View() string {
	if m.view != nil {
		return m.view(m)
	}
	return "static"
}

func (m *testModel) nums() []int {
	var out []int
	for _, msg := range m.msgs {
		if n, ok := msg.(numMsg); ok {
			out = append(out, int(n))
		}
	}
	return out
}

func newTestProgram(m Model, out *safeBuffer, opts ...ProgramOption) *Program {
	base := []ProgramOption{
		WithInput(nil),
		WithOutput(out),
		WithoutSignalHandler(),
		WithFPS(120),
	}
	return NewProgram(m, append(base, opts...)...)
}

func runWithTimeout(t *testing.T, p *Program) (Model, error) {
	t.Helper()
	type result struct {
		m   Model
		err error
	}
	done := make(chan result, 1)
	go func() {
		m, err := p.Run()
		done <- result{m, err}
	}()
	select {
	case r := <-done:
		return r.m, r.err
	case <-time.After(5 * time.Second):
		p.Kill()
		t.Fatal("program did not finish")
		return nil, nil
	}
}

func TestProgramQuitFromUpdate(t *testing.T) {
	out := &safeBuffer{}
	m := &testModel{
		init: num(1),
		update: func(m *testModel, msg Msg) Cmd {
			if msg == numMsg(1) {
				return Quit
			}
			return nil
		},
	}
	p := newTestProgram(m, out)

	final, err := runWithTimeout(t, p)
	require.NoError(t, err)
	assert.Same(t, m, final)
	assert.Equal(t, StateShuttingDown, p.State())

	// Quit is consumed by the loop
	for _, msg := range m.msgs {
		assert.NotEqual(t, QuitMsg{}, msg)
	}

	s := out.String()
	assert.Equal(t, 1, strings.Count(s, "static"), "one frame for an unchanged view")
	assert.True(t, strings.HasSuffix(s, "\x1b[0m\x1b[?25h"), "terminal restored last: %q", s)
}

func TestProgramSequenceOrder(t *testing.T) {
	out := &safeBuffer{}
	m := &testModel{
		init: Sequence(
			delayed(1, 30*time.Millisecond),
			delayed(2, 10*time.Millisecond),
			delayed(3, 0),
		),
		update: func(m *testModel, msg Msg) Cmd {
			if len(m.nums()) == 3 {
				return Quit
			}
			return nil
		},
	}

	_, err := runWithTimeout(t, newTestProgram(m, out))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, m.nums())
}

func TestProgramBatchDeliversEachOnce(t *testing.T) {
	out := &safeBuffer{}
	const n = 20
	cmds := make([]Cmd, n)
	for i := range cmds {
		cmds[i] = delayed(i, time.Duration(i%5)*time.Millisecond)
	}
	m := &testModel{
		init: Batch(cmds...),
		update: func(m *testModel, msg Msg) Cmd {
			if len(m.nums()) == n {
				return Quit
			}
			return nil
		},
	}

	_, err := runWithTimeout(t, newTestProgram(m, out))
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, v := range m.nums() {
		seen[v]++
	}
	assert.Len(t, seen, n)
	for v, c := range seen {
		assert.Equal(t, 1, c, "message %d", v)
	}
}

func TestProgramTickNotEarly(t *testing.T) {
	out := &safeBuffer{}
	start := time.Now()
	var elapsed time.Duration
	m := &testModel{
		init: Tick(100*time.Millisecond, func(time.Time) Msg { return tickMsg{} }),
		update: func(m *testModel, msg Msg) Cmd {
			if _, ok := msg.(tickMsg); ok {
				elapsed = time.Since(start)
				return Quit
			}
			return nil
		},
	}

	_, err := runWithTimeout(t, newTestProgram(m, out))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}

func TestProgramViewChanges(t *testing.T) {
	out := &safeBuffer{}
	m := &testModel{
		init: num(1),
		update: func(m *testModel, msg Msg) Cmd {
			n := int(msg.(numMsg))
			if n == 3 {
				return Quit
			}
			return num(n + 1)
		},
		view: func(m *testModel) string {
			return "count " + strings.Repeat("#", len(m.msgs))
		},
	}

	p := newTestProgram(m, out)
	_, err := runWithTimeout(t, p)
	require.NoError(t, err)
	// The final frame always shows the last state
	assert.Equal(t, "count ###", p.renderer.LastFrame().String())
	assert.Contains(t, out.String(), "count ")
}

func TestProgramKill(t *testing.T) {
	out := &safeBuffer{}
	p := newTestProgram(&testModel{}, out)

	go func() {
		time.Sleep(20 * time.Millisecond)
		p.Kill()
	}()
	_, err := runWithTimeout(t, p)
	assert.ErrorIs(t, err, ErrProgramKilled)
	assert.Contains(t, out.String(), "\x1b[0m")
}

func TestProgramContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := runWithTimeout(t, newTestProgram(&testModel{}, &safeBuffer{}, WithContext(ctx)))
	assert.ErrorIs(t, err, ErrProgramKilled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProgramCtrlCInterrupts(t *testing.T) {
	out := &safeBuffer{}
	m := &testModel{}
	p := NewProgram(m,
		WithInput(strings.NewReader("ab\x03")),
		WithOutput(out),
		WithoutSignalHandler(),
	)

	_, err := runWithTimeout(t, p)
	assert.ErrorIs(t, err, ErrInterrupted)

	var keys []string
	for _, msg := range m.msgs {
		if k, ok := msg.(KeyMsg); ok {
			keys = append(keys, k.String())
		}
	}
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestProgramSendAndQuit(t *testing.T) {
	out := &safeBuffer{}
	m := &testModel{}
	p := newTestProgram(m, out)

	go func() {
		p.Send(numMsg(7))
		p.Quit()
	}()
	_, err := runWithTimeout(t, p)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, m.nums())

	p.Wait()
	// After Run returns Send must not block
	p.Send(numMsg(8))
}

func TestProgramRunTwice(t *testing.T) {
	p := newTestProgram(&testModel{init: Quit}, &safeBuffer{})
	_, err := runWithTimeout(t, p)
	require.NoError(t, err)

	_, err = p.Run()
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestProgramUpdatePanicRestoresTerminal(t *testing.T) {
	out := &safeBuffer{}
	m := &testModel{
		init: num(1),
		update: func(*testModel, Msg) Cmd {
			panic("update exploded")
		},
	}

	final, err := runWithTimeout(t, newTestProgram(m, out, WithAltScreen()))
	assert.ErrorIs(t, err, ErrProgramPanic)
	assert.Same(t, m, final)
	assert.True(t, strings.HasSuffix(out.String(), "\x1b[?1049l"), "alt screen left last")
}

func TestProgramCommandPanic(t *testing.T) {
	m := &testModel{init: func() Msg { panic("cmd exploded") }}
	_, err := runWithTimeout(t, newTestProgram(m, &safeBuffer{}))
	assert.ErrorIs(t, err, ErrProgramPanic)
	assert.Contains(t, err.Error(), "cmd exploded")
}

// crashChildEnv makes the test binary act as a program whose command
// panics with panic catching disabled
const crashChildEnv = "TEACUP_CRASH_CHILD"

func TestProgramUncaughtCommandPanicRestoresTerminal(t *testing.T) {
	if os.Getenv(crashChildEnv) == "1" {
		m := &testModel{init: func() Msg { panic("cmd exploded") }}
		NewProgram(m,
			WithInput(nil),
			WithOutput(os.Stdout),
			WithAltScreen(),
			WithoutCatchPanics(),
			WithoutSignalHandler(),
		).Run()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestProgramUncaughtCommandPanicRestoresTerminal$")
	cmd.Env = append(os.Environ(), crashChildEnv+"=1")
	out, err := cmd.Output()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, "the panic still ends the process")
	s := string(out)
	enter := strings.Index(s, "\x1b[?1049h")
	require.GreaterOrEqual(t, enter, 0, "alt screen entered: %q", s)
	assert.Greater(t, strings.LastIndex(s, "\x1b[?1049l"), enter, "alt screen left: %q", s)
	assert.Contains(t, s, "\x1b[?2004l")
	assert.Contains(t, s, "\x1b[?25h")
}

// failingWriter fails every write that contains trigger
type failingWriter struct {
	safeBuffer
	trigger string
}

var errDevice = errors.New("input/output error")

func (w *failingWriter) Write(p []byte) (int, error) {
	if strings.Contains(string(p), w.trigger) {
		return 0, errDevice
	}
	return w.safeBuffer.Write(p)
}

func TestProgramWriteFailureRestoresTerminal(t *testing.T) {
	out := &failingWriter{trigger: "unwritable"}
	m := &testModel{
		init: num(1),
		view: func(m *testModel) string {
			if len(m.msgs) > 0 {
				return "unwritable"
			}
			return "static"
		},
	}
	p := NewProgram(m, WithInput(nil), WithOutput(out), WithoutSignalHandler(), WithFPS(120))

	_, err := runWithTimeout(t, p)
	var te *TerminalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "write", te.Op)
	assert.ErrorIs(t, err, errDevice)

	// Restore still reaches the device after the failed frame
	assert.True(t, strings.HasSuffix(out.String(), "\x1b[0m\x1b[?25h"), "%q", out.String())
}

// errReader fails like a vanished tty
type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errDevice }

func TestProgramReadFailure(t *testing.T) {
	out := &safeBuffer{}
	p := NewProgram(&testModel{}, WithInput(errReader{}), WithOutput(out), WithoutSignalHandler())

	_, err := runWithTimeout(t, p)
	var te *TerminalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "read", te.Op)
	assert.ErrorIs(t, err, errDevice)
	assert.True(t, strings.HasSuffix(out.String(), "\x1b[0m\x1b[?25h"), "%q", out.String())
}

func TestProgramInitialWindowSize(t *testing.T) {
	m := &testModel{
		update: func(m *testModel, msg Msg) Cmd {
			if _, ok := msg.(WindowSizeMsg); ok && len(m.msgs) == 1 {
				return WindowSize()
			}
			return Quit
		},
	}
	_, err := runWithTimeout(t, newTestProgram(m, &safeBuffer{}, WithWindowSize(100, 40)))
	require.NoError(t, err)

	require.Len(t, m.msgs, 2)
	assert.Equal(t, WindowSizeMsg{Width: 100, Height: 40}, m.msgs[0])
	assert.Equal(t, WindowSizeMsg{Width: 100, Height: 40}, m.msgs[1])
}

func TestProgramRequestColorMode(t *testing.T) {
	m := &testModel{
		init: RequestColorMode(),
		update: func(_ *testModel, msg Msg) Cmd {
			if _, ok := msg.(ColorModeMsg); ok {
				return Quit
			}
			return nil
		},
	}
	_, err := runWithTimeout(t, newTestProgram(m, &safeBuffer{}))
	require.NoError(t, err)
	require.Len(t, m.msgs, 1)
	assert.IsType(t, ColorModeMsg{}, m.msgs[0])
}

func TestProgramPrintln(t *testing.T) {
	out := &safeBuffer{}
	m := &testModel{
		init: Sequence(Println("above the frame"), num(1)),
		update: func(*testModel, Msg) Cmd {
			return Quit
		},
	}
	_, err := runWithTimeout(t, newTestProgram(m, out))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "above the frame\r\n")
}

func TestProgramScreenCommands(t *testing.T) {
	out := &safeBuffer{}
	m := &testModel{
		init: Sequence(
			SetWindowTitle("teacup"),
			EnterAltScreen,
			EnableMouseCellMotion,
			num(1),
		),
		update: func(*testModel, Msg) Cmd {
			return Quit
		},
	}
	_, err := runWithTimeout(t, newTestProgram(m, out))
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "\x1b]2;teacup\a")
	assert.Contains(t, s, "\x1b[?1049h")
	assert.Contains(t, s, "\x1b[?1002h")
	// Restored on exit
	assert.Contains(t, s, "\x1b[?1002l")
	assert.True(t, strings.HasSuffix(s, "\x1b[?1049l"))
}

func TestProgramCustomScheduler(t *testing.T) {
	var used bool
	m := &testModel{init: Quit}
	p := newTestProgram(m, &safeBuffer{}, WithScheduler(func(ctx context.Context, deliver Deliver) Scheduler {
		used = true
		return NewScheduler(ctx, deliver, SchedulerConfig{MaxConcurrency: 1})
	}))

	_, err := runWithTimeout(t, p)
	require.NoError(t, err)
	assert.True(t, used)
}

func TestTerminalError(t *testing.T) {
	base := errors.New("broken pipe")
	var err error = &TerminalError{Op: "write", Err: base}
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "tea: terminal write: broken pipe", err.Error())

	var te *TerminalError
	require.ErrorAs(t, errors.Join(errors.New("other"), err), &te)
	assert.Equal(t, "write", te.Op)
}

func TestProgramStateString(t *testing.T) {
	assert.Equal(t, "init", StateInit.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "shutting-down", StateShuttingDown.String())
	assert.NotEmpty(t, NewProgram(&testModel{}).ID())
}
