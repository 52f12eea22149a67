package job

import "errors"

var (
	// ErrUnavailable marks a posting that is closed, expired or deleted.
	ErrUnavailable = errors.New("job unavailable")
	// ErrDeadlinePassed marks a posting past its application deadline.
	ErrDeadlinePassed = errors.New("job deadline passed")
)
