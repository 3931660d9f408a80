package tui

import "devfeed/lifecycle"

// Messages for the tea program

// SnapshotMsg carries a controller state change into the event loop
type SnapshotMsg struct {
	Snapshot lifecycle.Snapshot
}

// ActionErrMsg reports a rejected user action, such as selecting a
// section before the feeds have loaded
type ActionErrMsg struct {
	Err error
}
