package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lmi-dashboard/lmi-dashboard/internal/source"
)

// MaxLocationLength bounds dataset URLs accepted over HTTP.
const MaxLocationLength = 2048

// MaxLabelLength bounds the truncation width accepted over HTTP.
const MaxLabelLength = 200

var (
	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

	// Characters that never belong in a dataset URL
	invalidLocationPattern = regexp.MustCompile(`[<>"'\x00-\x1f\x7f\s]`)
)

// remoteSchemes are the dataset transports a client may select. Local files
// can only be configured by the operator.
var remoteSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"s3":    true,
}

// ValidateLocation validates a dataset URL submitted by a client.
func ValidateLocation(location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return errors.New("url cannot be empty")
	}

	if len(location) > MaxLocationLength {
		return fmt.Errorf("url too long (max %d characters)", MaxLocationLength)
	}

	if invalidLocationPattern.MatchString(location) {
		return errors.New("url contains invalid characters")
	}

	scheme := source.Scheme(location)
	if !remoteSchemes[scheme] {
		return errors.New("url must use the http, https or s3 scheme")
	}

	if strings.TrimPrefix(location[len(scheme):], "://") == "" {
		return errors.New("url is missing a host")
	}

	return nil
}

// ValidateLabelMax validates the truncation width for chart labels.
func ValidateLabelMax(n int) error {
	if n < 1 {
		return errors.New("max must be at least 1")
	}
	if n > MaxLabelLength {
		return fmt.Errorf("max too large (max %d)", MaxLabelLength)
	}
	return nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}
