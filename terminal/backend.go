package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// Backend abstracts the device behind a Driver so tests can substitute
// in-memory streams for the tty.
type Backend interface {
	// Init enters raw mode when the input is a terminal
	Init() error
	// Fini restores the mode saved by Init
	Fini() error

	// Size returns the current dimensions, or ok=false when unknown
	Size() (width, height int, ok bool)
	// IsTerminal reports whether output is a tty
	IsTerminal() bool

	// Write writes raw bytes to the terminal output
	Write(p []byte) (int, error)
	// Read blocks until input is available, CancelRead is called, or the
	// input ends
	Read(p []byte) (int, error)
	// CancelRead unblocks a pending Read; returns false if the reader
	// cannot be interrupted
	CancelRead() bool
}

// streamBackend drives any reader/writer pair. When they are *os.File
// terminals it also manages raw mode and size queries.
type streamBackend struct {
	in  io.Reader
	out io.Writer

	inFd   int
	outFd  int
	inTTY  bool
	outTTY bool

	reader  cancelreader.CancelReader
	oldTerm *term.State
}

func newBackend(in io.Reader, out io.Writer) *streamBackend {
	b := &streamBackend{in: in, out: out, inFd: -1, outFd: -1}
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		b.inFd = int(f.Fd())
		b.inTTY = true
	}
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		b.outFd = int(f.Fd())
		b.outTTY = true
	}
	return b
}

func (b *streamBackend) Init() error {
	if b.in != nil {
		r, err := cancelreader.NewReader(b.in)
		if err != nil {
			// Files the poller rejects (regular files, /dev/null) are read
			// through the uncancellable fallback
			r, err = cancelreader.NewReader(struct{ io.Reader }{b.in})
		}
		if err != nil {
			return fmt.Errorf("input reader: %w", err)
		}
		b.reader = r
	}

	if !b.inTTY {
		return nil
	}
	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	b.oldTerm = old
	return nil
}

func (b *streamBackend) Fini() error {
	var errs []error
	if b.reader != nil {
		b.reader.Cancel()
		if err := b.reader.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.oldTerm != nil {
		if err := term.Restore(b.inFd, b.oldTerm); err != nil {
			errs = append(errs, fmt.Errorf("restore mode: %w", err))
		}
		b.oldTerm = nil
	}
	return errors.Join(errs...)
}

func (b *streamBackend) Size() (int, int, bool) {
	fd := b.outFd
	if fd < 0 {
		fd = b.inFd
	}
	if fd < 0 {
		return 0, 0, false
	}
	w, h := getTerminalSize(fd)
	return w, h, w > 0 && h > 0
}

func (b *streamBackend) IsTerminal() bool {
	return b.outTTY
}

func (b *streamBackend) Write(p []byte) (int, error) {
	return b.out.Write(p)
}

func (b *streamBackend) Read(p []byte) (int, error) {
	if b.reader == nil {
		return 0, io.EOF
	}
	return b.reader.Read(p)
}

func (b *streamBackend) CancelRead() bool {
	if b.reader == nil {
		return true
	}
	return b.reader.Cancel()
}
