package tea

// Model is the state driven by a Program. The program calls Init once,
// then Update for every message, always from the same goroutine. View
// must not change the model.
type Model interface {
	Init() Cmd
	Update(Msg) Cmd
	View() string
}

// Cmd is deferred work yielding at most one message. A nil Cmd does
// nothing; a Cmd returning nil delivers nothing.
type Cmd func() Msg
