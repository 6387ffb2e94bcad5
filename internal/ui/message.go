package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tinytasks/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgEngineUpdate MsgKind = iota
	MsgOpDone
	MsgUpdatesClosed
)

// engineUpdateMsg is the constructor for [MsgEngineUpdate]
func engineUpdateMsg(update tasks.Update) Msg {
	return Msg{kind: MsgEngineUpdate, data: update}
}

// opDoneMsg is the constructor for [MsgOpDone], sent when a command running an engine operation returns
func opDoneMsg(op tasks.Op) Msg {
	return Msg{kind: MsgOpDone, data: op}
}

// updatesClosedMsg is the constructor for [MsgUpdatesClosed]
func updatesClosedMsg() Msg {
	return Msg{kind: MsgUpdatesClosed}
}
