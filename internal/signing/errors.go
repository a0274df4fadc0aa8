package signing

import "errors"

var (
	// ErrMalformedProperties is returned when the external properties file exists but cannot be parsed.
	ErrMalformedProperties = errors.New("malformed signing properties file")
	// ErrUnreadableProperties is returned when the external properties file cannot be inspected or read.
	ErrUnreadableProperties = errors.New("unreadable signing properties file")
)
