package natsclient

import "errors"

var (
	// ErrConfigConflict is returned when mutually exclusive options are both set.
	ErrConfigConflict = errors.New("natsclient: conflicting configuration")
	// ErrInvalidURI indicates that a server address could not be resolved to a valid endpoint.
	ErrInvalidURI = errors.New("natsclient: invalid server URI")
	// ErrInvalidName indicates that a naming field contains a reserved character or is empty when required.
	ErrInvalidName = errors.New("natsclient: invalid name")
	// ErrOutOfRange indicates that a numeric or duration field violates its documented bound.
	ErrOutOfRange = errors.New("natsclient: value out of range")
	// ErrMissingRequired indicates that a required field was never supplied.
	ErrMissingRequired = errors.New("natsclient: missing required value")
	// ErrPlatformUnavailable indicates that a default security capability could not be obtained from the host.
	ErrPlatformUnavailable = errors.New("natsclient: platform capability unavailable")
)

// annotate returns sentinel when err is nil, otherwise joins sentinel and err for preserved context.
func annotate(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	return errors.Join(sentinel, err)
}
