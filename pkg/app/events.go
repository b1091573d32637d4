// Package app provides the Bubbletea application shell for ringdown: the
// event types, the root model, the widget interfaces and the bridge that
// carries countdown ticks onto the program's update goroutine.
package app

// TaskEvent carries a task posted by a background goroutine. The root
// model runs it inside Update, which makes the Bubbletea update loop the
// single goroutine that touches widget state.
type TaskEvent struct {
	Run func()
}

// StartEvent asks the root model to start the ring. Init emits one when
// auto-start is enabled.
type StartEvent struct{}

// ThemeChangeEvent switches the active color theme.
type ThemeChangeEvent struct {
	Theme string
}
