// @focus: #sys { term }
// Package terminal owns the physical terminal for a teacup program.
//
// Features:
//   - Raw mode, alternate screen, cursor, mouse, bracketed paste and focus modes
//   - Restoration exactly once on every exit path, including panics
//   - Stateful input decoding of keys, SGR/X10 mouse, paste and focus reports
//   - SIGWINCH resize detection merged into the input event stream
//
// The package emits ANSI sequences directly and does not consult terminfo.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
