// Package models defines the small value types shared between the timer, the task list, and the
// playback services.
//
//   - [Task] : a task list entry, identified only by its position
//   - [Device] : a Spotify Connect playback device
//   - [Phase] : the work/break phase of a session
package models
