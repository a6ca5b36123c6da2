package terminal

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"runtime/debug"
	"sync"
	"time"

	"github.com/muesli/cancelreader"
)

// DefaultEscapeTimeout is the duration to wait after ESC to distinguish a
// standalone ESC from the start of an escape sequence
const DefaultEscapeTimeout = 50 * time.Millisecond

// inputReader reads the backend and decodes on its own goroutine
type inputReader struct {
	backend Backend
	decoder *Decoder
	timeout time.Duration

	eventCh chan<- Event
	errCh   chan<- error
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// newInputReader creates a new input reader delivering into eventCh
func newInputReader(backend Backend, timeout time.Duration, eventCh chan<- Event, errCh chan<- error) *inputReader {
	return &inputReader{
		backend: backend,
		decoder: NewDecoder(),
		timeout: timeout,
		eventCh: eventCh,
		errCh:   errCh,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// start begins reading input in a goroutine
func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

// stop signals the reader to stop
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	r.backend.CancelRead()
	// Wait with timeout - an uncancellable reader may stay blocked
	select {
	case <-r.doneCh:
	case <-time.After(100 * time.Millisecond):
	}
}

// readLoop decodes chunks from pump and applies the escape window: while
// undecoded bytes remain (a lone ESC or a partial sequence) and no more
// input arrives within the timeout, the decoder is flushed. An open
// bracketed paste is never flushed by the timer.
func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if rec := recover(); rec != nil {
			r.fail(fmt.Errorf("input reader panic: %v\n%s", rec, debug.Stack()))
		}
	}()

	chunks := make(chan []byte)
	readErr := make(chan error, 1)
	go r.pump(chunks, readErr)

	var escape <-chan time.Time
	for {
		select {
		case <-r.stopCh:
			return

		case data := <-chunks:
			if !r.emit(r.decoder.Feed(data)) {
				return
			}
			escape = nil
			if r.decoder.Pending() > 0 && !r.decoder.InPaste() {
				escape = time.After(r.timeout)
			}

		case <-escape:
			escape = nil
			if !r.emit(r.decoder.Flush()) {
				return
			}

		case err := <-readErr:
			r.emit(r.decoder.Flush())
			if !errors.Is(err, io.EOF) && !errors.Is(err, cancelreader.ErrCanceled) {
				r.fail(err)
			}
			return
		}
	}
}

// pump performs the blocking reads
func (r *inputReader) pump(chunks chan<- []byte, errs chan<- error) {
	buf := make([]byte, 256)
	for {
		n, err := r.backend.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case chunks <- data:
			case <-r.stopCh:
				return
			}
		}
		if err != nil {
			errs <- err
			return
		}
	}
}

// emit forwards decoded events, returns false when stopped
func (r *inputReader) emit(events iter.Seq[Event]) bool {
	for ev := range events {
		select {
		case r.eventCh <- ev:
		case <-r.stopCh:
			return false
		}
	}
	return true
}

func (r *inputReader) fail(err error) {
	select {
	case r.errCh <- err:
	default:
	}
}
