package shared

import "fmt"

// Sentinel errors. Wrap them with fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrUnknownStorage     = fmt.Errorf("unknown storage driver")

	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Spotify Web API
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNoActiveDevice     = fmt.Errorf("no active playback device")

	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidDuration = fmt.Errorf("duration must be at least 1 minute")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
