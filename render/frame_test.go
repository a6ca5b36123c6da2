package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFrame(t *testing.T) {
	tests := []struct {
		name          string
		view          string
		width, height int
		want          []string
	}{
		{"single line", "hello", 0, 0, []string{"hello"}},
		{"crlf normalized", "a\r\nb", 0, 0, []string{"a", "b"}},
		{"truncated to width", "abcdef", 3, 0, []string{"abc"}},
		{"wide runes truncate on cell boundary", "日本語", 5, 0, []string{"日本"}},
		{"styling does not count", "\x1b[1mab\x1b[0m", 2, 0, []string{"\x1b[1mab\x1b[0m"}},
		{"bottom rows kept", "1\n2\n3", 0, 2, []string{"2", "3"}},
		{"trailing newline is an empty row", "a\n", 0, 0, []string{"a", ""}},
		{"tabs expand to tab stops", "a\tb\tc", 0, 0, []string{"a       b       c"}},
		{"tabs after styling", "\x1b[1m\tx", 0, 0, []string{"\x1b[1m        x"}},
		{"expanded tabs are truncated", "\t\tabc", 10, 0, []string{"          "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(tt.view, tt.width, tt.height)
			assert.Equal(t, tt.want, f.Lines())
			assert.Equal(t, len(tt.want), f.Height())
		})
	}
}

func TestFrameEqual(t *testing.T) {
	a := NewFrame("x\ny", 0, 0)
	assert.True(t, a.Equal(NewFrame("x\r\ny", 0, 0)))
	assert.False(t, a.Equal(NewFrame("x\nz", 0, 0)))
	assert.Equal(t, "x\ny", a.String())
}

func TestFrameLinesIsCopy(t *testing.T) {
	f := NewFrame("a", 0, 0)
	lines := f.Lines()
	lines[0] = "changed"
	assert.Equal(t, "a", f.String())
}
