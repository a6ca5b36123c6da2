// @focus: #config { file, options }
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/teacup/render"
	"github.com/lixenwraith/teacup/tea"
	"github.com/lixenwraith/teacup/terminal"
)

// Config holds runtime settings as stored in a TOML file
type Config struct {
	AltScreen       bool   `toml:"alt_screen"`
	Mouse           string `toml:"mouse"` // none, cell, all
	FPS             int    `toml:"fps"`
	BracketedPaste  bool   `toml:"bracketed_paste"`
	ReportFocus     bool   `toml:"report_focus"`
	CatchPanics     bool   `toml:"catch_panics"`
	Signals         bool   `toml:"signals"`
	EscapeTimeoutMS int    `toml:"escape_timeout_ms"`

	Log  LogConfig `toml:"log"`
	Keys KeyMap    `toml:"keys"`
}

// LogConfig selects the diagnostics log file. No file means no logging.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// maxEscapeTimeout bounds how long a lone ESC may be held back
const maxEscapeTimeout = time.Second

// Default returns the settings used when no file is given
func Default() Config {
	return Config{
		Mouse:           terminal.MouseModeNone.String(),
		FPS:             render.DefaultFPS,
		BracketedPaste:  true,
		CatchPanics:     true,
		Signals:         true,
		EscapeTimeoutMS: int(terminal.DefaultEscapeTimeout / time.Millisecond),
		Log:             LogConfig{Level: "info"},
		Keys: KeyMap{
			"quit":      {"q", "esc"},
			"increment": {"+", "up", "k"},
			"decrement": {"-", "down", "j"},
			"reset":     {"r"},
		},
	}
}

// ParseError reports a malformed configuration source
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes TOML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	return parse("<data>", data)
}

// Load reads and parses a config file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

func parse(source string, data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, &ParseError{Path: source, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &ParseError{Path: source, Err: err}
	}
	return cfg, nil
}

// Encode writes c as TOML
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate reports every invalid field
func (c Config) Validate() error {
	var errs []error
	if _, ok := terminal.ParseMouseMode(c.Mouse); !ok {
		errs = append(errs, fmt.Errorf("mouse: unknown mode %q (want none, cell or all)", c.Mouse))
	}
	if c.FPS < 1 || c.FPS > render.MaxFPS {
		errs = append(errs, fmt.Errorf("fps: %d out of range [1, %d]", c.FPS, render.MaxFPS))
	}
	if c.EscapeTimeoutMS < 0 || time.Duration(c.EscapeTimeoutMS)*time.Millisecond > maxEscapeTimeout {
		errs = append(errs, fmt.Errorf("escape_timeout_ms: %d out of range [0, %d]", c.EscapeTimeoutMS, maxEscapeTimeout.Milliseconds()))
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level: %w", err))
		}
	}
	if err := c.Keys.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// EscapeTimeout returns the lone-ESC wait as a duration
func (c Config) EscapeTimeout() time.Duration {
	return time.Duration(c.EscapeTimeoutMS) * time.Millisecond
}

// ProgramOptions converts the settings to program options. Call Validate
// first; invalid values fall back to defaults.
func (c Config) ProgramOptions() []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithFPS(c.FPS)}
	if c.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if mode, _ := terminal.ParseMouseMode(c.Mouse); mode != terminal.MouseModeNone {
		if mode == terminal.MouseModeAllMotion {
			opts = append(opts, tea.WithMouseAllMotion())
		} else {
			opts = append(opts, tea.WithMouseCellMotion())
		}
	}
	if !c.BracketedPaste {
		opts = append(opts, tea.WithoutBracketedPaste())
	}
	if c.ReportFocus {
		opts = append(opts, tea.WithReportFocus())
	}
	if !c.CatchPanics {
		opts = append(opts, tea.WithoutCatchPanics())
	}
	if !c.Signals {
		opts = append(opts, tea.WithoutSignalHandler())
	}
	if c.EscapeTimeoutMS > 0 {
		opts = append(opts, tea.WithEscapeTimeout(c.EscapeTimeout()))
	}
	return opts
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenLogger returns the configured logger and a closer for its file.
// Without a log file the logger discards everything.
func (c Config) OpenLogger(prefix string) (*log.Logger, io.Closer, error) {
	if c.Log.File == "" {
		return log.New(io.Discard), nopCloser{}, nil
	}

	logger, f, err := tea.LogToFile(c.Log.File, prefix)
	if err != nil {
		return nil, nil, err
	}
	if c.Log.Level != "" {
		level, err := log.ParseLevel(c.Log.Level)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		logger.SetLevel(level)
	}
	return logger, f, nil
}
