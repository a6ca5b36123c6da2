package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/teacup/config"
	"github.com/lixenwraith/teacup/tea"
	"github.com/lixenwraith/teacup/terminal"
)

type styles struct {
	title, value, dim lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		value: r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		dim:   r.NewStyle().Faint(true),
	}
}

// stylesFor renders with no more colors than mode allows
func stylesFor(mode terminal.ColorMode) styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(mode.Profile())
	return newStyles(r)
}

// clockMsg fires on every wall-clock second
type clockMsg time.Time

// counter counts key presses and wheel turns while a clock ticks
type counter struct {
	keys   config.KeyMap
	styles styles

	count   int
	ticks   int
	now     time.Time
	width   int
	height  int
	mouse   string
	focused bool
}

func newCounter(keys config.KeyMap) *counter {
	return &counter{keys: keys, styles: stylesFor(terminal.ColorModeNone), focused: true}
}

func (c *counter) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("teacup counter"), tea.RequestColorMode(), clock())
}

func clock() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (c *counter) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case clockMsg:
		c.now = time.Time(msg)
		c.ticks++
		return clock()

	case tea.KeyMsg:
		switch {
		case c.keys.Matches("quit", msg):
			return tea.Quit
		case c.keys.Matches("increment", msg):
			c.count++
		case c.keys.Matches("decrement", msg):
			c.count--
		case c.keys.Matches("reset", msg):
			prev := c.count
			c.count = 0
			return tea.Printf("reset from %d", prev)
		}

	case tea.MouseMsg:
		c.mouse = msg.String()
		if msg.Action == terminal.MouseActionPress {
			switch msg.Button {
			case terminal.MouseButtonWheelUp:
				c.count++
			case terminal.MouseButtonWheelDown:
				c.count--
			}
		}

	case tea.ColorModeMsg:
		c.styles = stylesFor(msg.Mode)

	case tea.WindowSizeMsg:
		c.width, c.height = msg.Width, msg.Height

	case tea.FocusMsg:
		c.focused = true
	case tea.BlurMsg:
		c.focused = false
	}
	return nil
}

func (c *counter) View() string {
	var b strings.Builder
	b.WriteString(c.styles.title.Render("teacup counter"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  count: %s\n", c.styles.value.Render(fmt.Sprint(c.count)))

	clockText := "--:--:--"
	if !c.now.IsZero() {
		clockText = c.now.Format("15:04:05")
	}
	fmt.Fprintf(&b, "  clock: %s  ticks: %d\n", clockText, c.ticks)

	if c.width > 0 {
		fmt.Fprintf(&b, "  size:  %dx%d\n", c.width, c.height)
	}
	if c.mouse != "" {
		fmt.Fprintf(&b, "  mouse: %s\n", c.mouse)
	}
	if !c.focused {
		b.WriteString("  (unfocused)\n")
	}

	help := fmt.Sprintf("%s increment  %s decrement  %s reset  %s quit",
		c.keys.Help("increment"), c.keys.Help("decrement"), c.keys.Help("reset"), c.keys.Help("quit"))
	b.WriteString("\n")
	b.WriteString(c.styles.dim.Render(help))
	return b.String()
}
