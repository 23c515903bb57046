package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseIntParam retrieves an int value from the provided URL query parameters.
// If the key is not present it returns def. If the value is invalid it returns
// def and records the problem in fieldErrors.
func ParseIntParam(params url.Values, key string, def int, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := strings.TrimSpace(params.Get(key))
	if val == "" {
		return def, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return def, fieldErrors
	}
	return n, fieldErrors
}

// ParseNumberParam interprets a query value the way a chart overlay would
// receive it: integers as int64, other numbers as float64 and anything else
// as the raw string. ok is false when the key is absent.
func ParseNumberParam(params url.Values, key string) (value any, ok bool) {
	if !params.Has(key) {
		return nil, false
	}

	raw := strings.TrimSpace(params.Get(key))
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, true
	}
	return params.Get(key), true
}
