package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pomo/internal/models"
	"github.com/desertthunder/pomo/internal/session"
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
	MsgTimerEvent MsgKind = iota
	MsgTimerClosed
	MsgDeviceResolved
)

// timerEventMsg is the constructor for [MsgTimerEvent]
func timerEventMsg(event session.Event) Msg {
	return Msg{kind: MsgTimerEvent, data: event}
}

// timerClosedMsg is the constructor for [MsgTimerClosed]
func timerClosedMsg() Msg {
	return Msg{kind: MsgTimerClosed}
}

type deviceResult struct {
	device models.Device
	err    error
}

// deviceResolvedMsg is the constructor for [MsgDeviceResolved]
func deviceResolvedMsg(device models.Device, err error) Msg {
	return Msg{kind: MsgDeviceResolved, data: deviceResult{device, err}}
}
