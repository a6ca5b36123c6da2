//go:build unix

package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"golang.org/x/sys/unix"
)

// resizeHandler manages SIGWINCH signals
type resizeHandler struct {
	size   func() (int, int, bool)
	post   func(ResizeEvent) bool
	onFail func(error)
	sigCh  chan os.Signal
	stopCh chan struct{}
	doneCh chan struct{}
}

// newResizeHandler reports size changes through post; post returns false
// once the receiver has gone away
func newResizeHandler(size func() (int, int, bool), post func(ResizeEvent) bool, onFail func(error)) *resizeHandler {
	return &resizeHandler{
		size:   size,
		post:   post,
		onFail: onFail,
		sigCh:  make(chan os.Signal, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// start begins listening for SIGWINCH
func (r *resizeHandler) start() {
	signal.Notify(r.sigCh, syscall.SIGWINCH)
	go r.watchLoop()
}

// stop stops the resize handler
func (r *resizeHandler) stop() {
	signal.Stop(r.sigCh)
	close(r.stopCh)
	<-r.doneCh
}

// watchLoop monitors for resize signals
func (r *resizeHandler) watchLoop() {
	defer close(r.doneCh)

	defer func() {
		if rec := recover(); rec != nil {
			r.onFail(fmt.Errorf("resize watcher panic: %v\n%s", rec, debug.Stack()))
		}
	}()

	for {
		select {
		case <-r.stopCh:
			return
		case <-r.sigCh:
			w, h, ok := r.size()
			if !ok {
				continue
			}
			if !r.post(ResizeEvent{Width: w, Height: h}) {
				return
			}
		}
	}
}

// getTerminalSize returns the terminal size for a given fd
func getTerminalSize(fd int) (int, int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0
	}
	return int(ws.Col), int(ws.Row)
}
