package source

import (
	"errors"
	"fmt"
)

// ConfigError reports that the service is not configured well enough to
// attempt a load. It is never caused by the network.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}

// ErrMissingSource is returned when no dataset location can be resolved.
var ErrMissingSource error = &ConfigError{msg: "missing dataset location: neither data-url nor mount page data-csv-url is set"}

// FetchError wraps a transport or CSV parse failure for a location.
type FetchError struct {
	Location string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching dataset %s: %v", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err was caused by missing or invalid configuration.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
