package appconf

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the configuration settings for the dashboard service.
// Values are populated from command-line flags, LMI_* environment variables
// and an optional YAML config file, in that priority order.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int

	// DataURL is the dataset location configured directly for the service.
	DataURL string
	// MountPage is an HTML host page (URL or file) whose mount node may carry
	// the dataset location in its data-csv-url attribute. It is only consulted
	// when DataURL is empty.
	MountPage string

	RefreshInterval time.Duration
	LoadTimeout     time.Duration

	TopN     int
	LabelMax int
	Locale   string

	LogLevel string
	S3Region string
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Port:        4000,
		Env:         Development,
		RateLimit:   100,
		LoadTimeout: 60 * time.Second,
		TopN:        10,
		LabelMax:    16,
		Locale:      "en-US",
		LogLevel:    "info",
		S3Region:    "us-east-1",
	}
}

// Validate reports configuration values the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.TopN < 1 {
		errs = append(errs, fmt.Errorf("top-n must be at least 1, got %d", c.TopN))
	}
	if c.LabelMax < 1 {
		errs = append(errs, fmt.Errorf("label-max must be at least 1, got %d", c.LabelMax))
	}
	if c.LoadTimeout <= 0 {
		errs = append(errs, errors.New("load-timeout must be positive"))
	}
	if c.RefreshInterval < 0 {
		errs = append(errs, errors.New("refresh-interval cannot be negative"))
	}
	return errors.Join(errs...)
}

// RefreshEnabled reports whether the dataset should be reloaded on a schedule.
func (c Config) RefreshEnabled() bool {
	return c.RefreshInterval > 0
}
