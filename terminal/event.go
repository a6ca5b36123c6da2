package terminal

// Event is a decoded terminal input event: KeyEvent, MouseEvent,
// ResizeEvent, FocusEvent or BlurEvent
type Event interface {
	isEvent()
}

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}

// FocusEvent is reported when the terminal window gains focus
type FocusEvent struct{}

// BlurEvent is reported when the terminal window loses focus
type BlurEvent struct{}

func (KeyEvent) isEvent()    {}
func (MouseEvent) isEvent()  {}
func (ResizeEvent) isEvent() {}
func (FocusEvent) isEvent()  {}
func (BlurEvent) isEvent()   {}
