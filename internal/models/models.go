package models

// Phase is the current half of a Pomodoro cycle.
type Phase int

const (
	Work Phase = iota
	Break
)

func (p Phase) String() string {
	switch p {
	case Work:
		return "work"
	case Break:
		return "break"
	default:
		return ""
	}
}

// Title is the heading shown above the countdown.
func (p Phase) Title() string {
	if p == Break {
		return "Break Time"
	}
	return "Work Time"
}

// Next returns the phase that follows p.
func (p Phase) Next() Phase {
	if p == Work {
		return Break
	}
	return Work
}

// Task is a single todo entry.
type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Device represents a Spotify Connect device as returned by /me/player/devices.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	IsRestricted  bool   `json:"is_restricted"`
	VolumePercent *int   `json:"volume_percent"`
}
