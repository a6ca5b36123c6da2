// @focus: #render { renderer }
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Frame rate limits
const (
	DefaultFPS = 60
	MaxFPS     = 120
)

// Stats counts renderer output
type Stats struct {
	Frames  int // write calls carrying a frame
	Skipped int // flushes that found nothing to write
	Bytes   int
}

// Option configures a Renderer
type Option func(*Renderer)

// WithFPS caps redraws per second, clamped to [1, MaxFPS]
func WithFPS(fps int) Option {
	return func(r *Renderer) {
		r.interval = frameInterval(fps)
	}
}

// WithSize sets the initial terminal size used for clipping
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		r.width, r.height = width, height
	}
}

// WithAltScreen tells the renderer it starts on the alternate screen
func WithAltScreen(on bool) Option {
	return func(r *Renderer) {
		r.altScreen = on
	}
}

// WithLogger routes renderer diagnostics
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

func frameInterval(fps int) time.Duration {
	fps = min(max(fps, 1), MaxFPS)
	return time.Second / time.Duration(fps)
}

// Renderer is the only writer of frames to the terminal. Views are
// requested at any rate; Run flushes the newest one at most once per frame
// interval and skips the write entirely when nothing changed.
type Renderer struct {
	mu       sync.Mutex
	out      io.Writer
	buf      bytes.Buffer
	interval time.Duration
	logger   *log.Logger

	width, height int
	altScreen     bool

	last    Frame
	pending string
	dirty   bool
	repaint bool
	queued  []string
	stopped bool
	stats   Stats
}

// New creates a renderer writing to out
func New(out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		out:      out,
		interval: frameInterval(DefaultFPS),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interval returns the minimum time between two frames
func (r *Renderer) Interval() time.Duration {
	return r.interval
}

// Request stores view as the next frame, replacing any view not yet drawn
func (r *Renderer) Request(view string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = view
	r.dirty = true
}

// Flush draws the pending view now
func (r *Renderer) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return nil
	}
	return r.flushLocked(false)
}

// Run flushes on every frame tick until ctx is done. A write failure ends
// the loop with the error.
func (r *Renderer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Flush(); err != nil {
				r.logger.Error("frame write failed", "err", err)
				return fmt.Errorf("render: %w", err)
			}
		}
	}
}

// Stop performs the final render of view and disables further output.
// Inline, the cursor is left on the line below the frame.
func (r *Renderer) Stop(view string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return nil
	}
	r.stopped = true
	r.pending = view
	r.dirty = true
	return r.flushLocked(true)
}

// Resize updates the clipping size and repaints everything on the next flush
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.repaint = true
	r.logger.Debug("resize", "width", width, "height", height)
}

// Repaint forces a full redraw on the next flush
func (r *Renderer) Repaint() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repaint = true
}

// Reset forgets what is on screen, after it was cleared or switched
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
}

func (r *Renderer) resetLocked() {
	r.last = Frame{}
	r.repaint = true
}

// SetAltScreen records a screen switch; the new screen starts blank
func (r *Renderer) SetAltScreen(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.altScreen == on {
		return
	}
	r.altScreen = on
	r.resetLocked()
}

// AltScreen reports whether frames go to the alternate screen
func (r *Renderer) AltScreen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.altScreen
}

// Println queues lines to be printed above the frame. They persist in the
// scrollback after the program exits. Ignored on the alternate screen.
func (r *Renderer) Println(lines ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.altScreen {
		return
	}
	r.queued = append(r.queued, lines...)
}

// Exec runs fn with frame output held, so terminal writes made by fn never
// land in the middle of a frame
func (r *Renderer) Exec(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn()
}

// ExecScreen runs fn, which clears or switches the screen, with frame
// output held. On success the next flush repaints from scratch on the
// screen given by alt.
func (r *Renderer) ExecScreen(alt bool, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	r.altScreen = alt
	r.resetLocked()
	return nil
}

// Stats returns output counters
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// LastFrame returns the frame currently on screen
func (r *Renderer) LastFrame() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Renderer) flushLocked(final bool) error {
	if !final && !r.dirty && !r.repaint && len(r.queued) == 0 {
		return nil
	}

	next := NewFrame(r.pending, r.width, r.height)
	r.buf.Reset()

	switch {
	case len(r.queued) > 0:
		r.writeQueuedLocked()
		r.buf.Write(Diff(Frame{}, next, true))
	case r.repaint && r.altScreen:
		r.buf.Write(csiHome)
		r.buf.Write(csiEraseScreen)
		r.buf.Write(Diff(Frame{}, next, true))
	case r.repaint:
		r.buf.Write(Diff(r.last, next, true))
	default:
		r.buf.Write(Diff(r.last, next, false))
	}
	if final && !r.altScreen {
		r.buf.WriteString("\r\n")
	}

	r.dirty, r.repaint = false, false
	if r.buf.Len() == 0 {
		r.stats.Skipped++
		return nil
	}

	n, err := r.out.Write(r.buf.Bytes())
	r.stats.Bytes += n
	if err != nil {
		return err
	}
	r.last = next
	r.stats.Frames++
	return nil
}

// writeQueuedLocked moves to the top of the current frame, clears it and
// prints the queued lines; the frame is then drawn below them
func (r *Renderer) writeQueuedLocked() {
	if h := r.last.Height(); h > 1 {
		writeCursorUp(&r.buf, h-1)
	}
	r.buf.WriteByte('\r')
	r.buf.Write(csiEraseBelow)
	for _, line := range r.queued {
		r.buf.WriteString(line)
		r.buf.WriteString("\r\n")
	}
	r.queued = nil
}
