package session

import (
	"time"

	"github.com/desertthunder/pomo/internal/models"
	"github.com/desertthunder/pomo/internal/shared"
)

// EventType defines the type of timer event.
type EventType string

const (
	EventStateChange    EventType = "state_change"
	EventTick           EventType = "tick"
	EventPhaseChange    EventType = "phase_change"
	EventSettingsChange EventType = "settings_change"
)

// Alert messages shown when a phase ends.
const (
	BreakMessage = "Time for a break!"
	WorkMessage  = "Break time is over! Back to work!"
)

// Snapshot is a read-only view of the timer. All durations are whole seconds.
type Snapshot struct {
	Phase     models.Phase
	Running   bool
	Remaining int
	Work      int
	Break     int
}

// Clock renders the remaining time as MM:SS.
func (s Snapshot) Clock() string {
	return shared.FormatClock(s.Remaining)
}

// Duration returns the configured length of the current phase.
func (s Snapshot) Duration() int {
	if s.Phase == models.Break {
		return s.Break
	}
	return s.Work
}

// Event represents a timer update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	Message  string
	At       time.Time
}

// PhaseMessage returns the alert shown on entering phase.
func PhaseMessage(entered models.Phase) string {
	if entered == models.Break {
		return BreakMessage
	}
	return WorkMessage
}
