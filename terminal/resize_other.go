//go:build !unix

package terminal

import "golang.org/x/term"

// resizeHandler is inert where SIGWINCH does not exist; size is still
// reported once at acquisition
type resizeHandler struct{}

func newResizeHandler(func() (int, int, bool), func(ResizeEvent) bool, func(error)) *resizeHandler {
	return &resizeHandler{}
}

func (r *resizeHandler) start() {}
func (r *resizeHandler) stop()  {}

func getTerminalSize(fd int) (int, int) {
	w, h, err := term.GetSize(fd)
	if err != nil {
		return 0, 0
	}
	return w, h
}
