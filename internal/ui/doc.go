// Package ui implements the two-pane terminal interface using bubbletea's Elm architecture.
//
// The left pane shows the session timer (phase title, MM:SS countdown, durations, playback
// target). The right pane holds the task list and its text input. The panes share nothing.
//
// Timer state reaches the [Model] as messages: a command blocks on the channel returned by
// [session.Timer.Subscribe] and re-arms itself after each event. A phase change opens a modal
// alert that must be dismissed with enter while the countdown keeps going underneath.
//
// Keyboard navigation uses vim-style bindings with contextual help from charmbracelet/bubbles/help.
package ui
