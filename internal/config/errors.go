package config

import "errors"

// ErrInvalidDuration is returned for a non-positive timing setting.
var ErrInvalidDuration = errors.New("duration must be positive")
