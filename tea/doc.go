// @focus: #tea { program, scheduler }
// Package tea runs Model/Update/View programs in the terminal.
//
// A Program owns its model: Update is called from a single goroutine with
// one message at a time, and the command it returns runs on its own
// goroutine so the loop never blocks on user work. View output is handed
// to the renderer, which redraws at most once per frame and only when the
// view changed.
//
//	p := tea.NewProgram(&model{}, tea.WithAltScreen())
//	final, err := p.Run()
package tea
