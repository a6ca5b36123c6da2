package terminal

import (
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorModeNone      ColorMode = iota // no color / not a terminal
	ColorMode16                         // ANSI 16 colors
	ColorMode256                        // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// String returns the mode name
func (m ColorMode) String() string {
	switch m {
	case ColorMode16:
		return "ansi"
	case ColorMode256:
		return "ansi256"
	case ColorModeTrueColor:
		return "truecolor"
	default:
		return "none"
	}
}

// DetectColorMode determines color capability of w. termenv handles the
// TERM/COLORTERM/NO_COLOR conventions; a few terminals that advertise
// truecolor only through their own variables are recognised on top.
func DetectColorMode(w io.Writer) ColorMode {
	mode := fromProfile(termenv.NewOutput(w).EnvColorProfile())
	if mode == ColorMode256 && truecolorTerminal() {
		return ColorModeTrueColor
	}
	return mode
}

// Profile converts the mode to the termenv profile that renders at most
// this many colors
func (m ColorMode) Profile() termenv.Profile {
	switch m {
	case ColorModeTrueColor:
		return termenv.TrueColor
	case ColorMode256:
		return termenv.ANSI256
	case ColorMode16:
		return termenv.ANSI
	default:
		return termenv.Ascii
	}
}

func fromProfile(p termenv.Profile) ColorMode {
	switch p {
	case termenv.TrueColor:
		return ColorModeTrueColor
	case termenv.ANSI256:
		return ColorMode256
	case termenv.ANSI:
		return ColorMode16
	default:
		return ColorModeNone
	}
}

func truecolorTerminal() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct")
}
