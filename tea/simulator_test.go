package tea

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/teacup/terminal"
)

// counter is a small model driven by keys
type counter struct {
	n int
}

func (c *counter) Init() Cmd {
	return Batch(SetWindowTitle("counter"), Println("started"))
}

func (c *counter) Update(msg Msg) Cmd {
	switch msg := msg.(type) {
	case KeyMsg:
		switch msg.String() {
		case "+":
			c.n++
		case "-":
			c.n--
		case "q":
			return Quit
		case "r":
			return Sequence(num(10), num(20))
		}
	case numMsg:
		c.n += int(msg)
	}
	return nil
}

func (c *counter) View() string {
	return fmt.Sprintf("n=%d", c.n)
}

func key(r rune) KeyMsg {
	return KeyMsg{Type: terminal.KeyRunes, Runes: []rune{r}}
}

func TestSimulatorCounter(t *testing.T) {
	c := &counter{}
	s := NewSimulator(c)
	s.Init()

	// Init commands produce runtime messages only
	assert.Equal(t, 2, s.Pending())
	s.RunUntilEmpty()
	assert.Equal(t, "counter", s.Title())
	assert.Equal(t, []string{"started"}, s.Printed())

	for _, r := range "++-+" {
		s.Send(key(r))
	}
	s.RunUntilEmpty()
	assert.Equal(t, "n=2", s.LastView())
	assert.Equal(t, []string{"n=0", "n=1", "n=2", "n=1", "n=2"}, s.Views())

	s.Send(key('r'))
	s.RunUntilEmpty()
	assert.Equal(t, "n=32", s.LastView())

	s.Send(key('q'))
	require.NoError(t, s.RunUntilQuit(10))
	assert.True(t, s.IsQuit())

	s.Send(key('+'))
	assert.False(t, s.Step(), "nothing processed after quit")
	assert.Equal(t, "n=32", s.LastView())
	assert.Equal(t, 1, s.Pending())
}

func TestSimulatorUnchangedViewsCollapse(t *testing.T) {
	s := NewSimulator(&counter{})
	s.Init()
	s.Send(key('x'))
	s.Send(key('y'))
	s.RunUntilEmpty()

	assert.Equal(t, []string{"n=0"}, s.Views())
	st := s.Stats()
	assert.Equal(t, 2, st.Updates)
	assert.Equal(t, 1, st.Renders)
}

func TestSimulatorRunUntilQuit(t *testing.T) {
	s := NewSimulator(&counter{})
	s.Init()
	assert.Error(t, s.RunUntilQuit(100), "idle without a quit")

	s = NewSimulator(&counter{})
	s.Send(Interrupt())
	assert.ErrorIs(t, s.RunUntilQuit(10), ErrInterrupted)

	s = NewSimulator(&counter{})
	for range 5 {
		s.Send(key('+'))
	}
	assert.Error(t, s.RunUntilQuit(3))
}

func TestSimulatorWindowSize(t *testing.T) {
	m := &testModel{init: WindowSize()}
	s := NewSimulator(m)
	s.SetSize(120, 50)
	s.Init()
	s.RunUntilEmpty()

	require.Len(t, m.msgs, 1)
	assert.Equal(t, WindowSizeMsg{Width: 120, Height: 50}, m.msgs[0])
	assert.Same(t, m, s.Model())
}
