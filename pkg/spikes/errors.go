package spikes

import(
	"errors"
	"fmt"
)

// ErrInvalidConfig matches any *ConfigError, via errors.Is.
var ErrInvalidConfig = errors.New("invalid config")

// A ConfigError names the parameter that was rejected, and why.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError)Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError)Is(target error) bool { return target == ErrInvalidConfig }
