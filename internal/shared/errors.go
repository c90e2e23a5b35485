package shared

import "errors"

var (
	// Configuration errors
	ErrMissingConfig = errors.New("configuration not found")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Persistence errors
	ErrNotFound = errors.New("not found")

	// Job errors
	ErrUnknownPayload = errors.New("unknown job payload")
	ErrInvalidPayload = errors.New("invalid job payload")
	ErrJobNotFound    = errors.New("job not found")

	// Union decoding errors
	ErrUnknownEvent    = errors.New("unknown event")
	ErrUnknownNotifier = errors.New("unknown notifier")

	// Filesystem errors
	ErrInvalidTrackPath = errors.New("invalid track path")

	// API and service errors
	ErrAPIRequest         = errors.New("API request failed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrProviderRequest    = errors.New("provider request failed")
	ErrWebhookRejected    = errors.New("webhook rejected message")
	ErrNoCandidate        = errors.New("no candidate met the minimum score")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)
