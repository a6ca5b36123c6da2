package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func frame(lines ...string) Frame {
	return Frame{lines: lines}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		prev Frame
		next Frame
		full bool
		want string
	}{
		{
			name: "identical frames produce nothing",
			prev: frame("a", "b"),
			next: frame("a", "b"),
			want: "",
		},
		{
			name: "rewrite from first differing cell",
			prev: frame("hello"),
			next: frame("help!"),
			want: "\r\x1b[3Cp!\r",
		},
		{
			name: "unchanged rows skipped",
			prev: frame("a", "b", "c"),
			next: frame("a", "X", "c"),
			want: "\x1b[A\rX\x1b[B\r",
		},
		{
			name: "narrower row erases leftovers",
			prev: frame("hello"),
			next: frame("he"),
			want: "\r\x1b[2C\x1b[K\r",
		},
		{
			name: "surplus rows cleared",
			prev: frame("aaa", "bbb"),
			next: frame("aaa"),
			want: "\r\x1b[J\x1b[A\r",
		},
		{
			name: "new rows created with newlines",
			prev: frame("a"),
			next: frame("a", "b"),
			want: "\r\n\rb\x1b[K\r",
		},
		{
			name: "wide characters count two cells",
			prev: frame("日本語"),
			next: frame("日本人"),
			want: "\r\x1b[4C人\r",
		},
		{
			name: "styled rows rewritten whole",
			prev: frame("\x1b[1mhi\x1b[0m"),
			next: frame("\x1b[1mho\x1b[0m"),
			want: "\r\x1b[1mho\x1b[0m\r",
		},
		{
			name: "full repaint",
			prev: frame("a", "b"),
			next: frame("c"),
			full: true,
			want: "\x1b[A\r\x1b[Jc\r",
		},
		{
			name: "full repaint of identical frame",
			prev: frame("a"),
			next: frame("a"),
			full: true,
			want: "\r\x1b[Ja\r",
		},
		{
			name: "first frame",
			prev: Frame{},
			next: frame("x", "y"),
			want: "\rx\x1b[K\r\n\ry\x1b[K\r",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Diff(tt.prev, tt.next, tt.full)))
		})
	}
}

func TestDiffFullWidthRowKeepsLastCell(t *testing.T) {
	next := Frame{lines: []string{"abcd", "ab"}, width: 4}
	// No erase after the full row: the cursor sits in the pending-wrap column
	assert.Equal(t, "\rabcd\r\n\rab\x1b[K\r", string(Diff(Frame{}, next, false)))
}

func TestDiffCombiningMarks(t *testing.T) {
	// "e" and "e" + combining acute are different clusters
	got := string(Diff(frame("xe"), frame("xe\u0301"), false))
	assert.Equal(t, "\r\x1b[Ce\u0301\r", got)
}

func TestCommonPrefix(t *testing.T) {
	cells, offset := commonPrefix("a世b", "a世c")
	assert.Equal(t, 3, cells)
	assert.Equal(t, len("a世"), offset)

	cells, offset = commonPrefix("", "abc")
	assert.Zero(t, cells)
	assert.Zero(t, offset)
}
