// Package session implements the Pomodoro session timer: a work/break state machine driven by
// a cancellable one-second ticker.
//
// A [Timer] is either idle or running in one of two phases ([models.Work], [models.Break]).
// While running, each tick decrements the remaining seconds; the tick that reaches zero flips
// the phase, reloads the counter from the new phase's duration, and emits a
// [EventPhaseChange] carrying the alert message. The timer keeps running across the flip.
//
// Playback side effects (resume on start, pause on pause and reset) are handed to a
// [services.Playback] on a single-worker pool with a timeout. Their failures are logged and
// never reach the state machine.
//
// The two durations are read from a [Store] once in [New] and written back whenever they change.
package session
