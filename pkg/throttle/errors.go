package throttle

import "errors"

var (
	// ErrInvalidCapacity is returned when the bucket capacity is not positive.
	ErrInvalidCapacity = errors.New("throttle: capacity must be positive")

	// ErrInvalidInterval is returned when the refill interval is not positive.
	ErrInvalidInterval = errors.New("throttle: refill interval must be positive")
)
