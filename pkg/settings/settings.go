// Package settings holds the helpers shared by every Finalize/Merge config
// layer: zero-value defaults, overlay merging, and environment overrides.
package settings

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default assigns v to *dst when *dst is the zero value.
func Default[T comparable](dst *T, v T) {
	var zero T
	if *dst == zero {
		*dst = v
	}
}

// Overlay assigns v to *dst when v is not the zero value.
func Overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// OverlaySlice assigns v to *dst when v is non-nil.
// An explicitly empty TOML array therefore clears the base value.
func OverlaySlice[T any](dst *[]T, v []T) {
	if v != nil {
		*dst = v
	}
}

// Lookup returns the non-empty value of the environment variable name.
// An empty name is never looked up.
func Lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	v := os.Getenv(name)
	return v, v != ""
}

// String overrides *dst from the environment.
func String(dst *string, name string) {
	if v, ok := Lookup(name); ok {
		*dst = v
	}
}

// Int overrides *dst from the environment. Unparseable values are ignored.
func Int(dst *int, name string) {
	if v, ok := Lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Bool overrides *dst from the environment. Unparseable values are ignored.
func Bool(dst *bool, name string) {
	if v, ok := Lookup(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// List overrides *dst with the comma-separated environment value.
func List(dst *[]string, name string) {
	if v, ok := Lookup(name); ok {
		*dst = Split(v)
	}
}

// Split breaks a comma-separated value into trimmed, non-empty parts.
func Split(v string) []string {
	out := []string{}
	for part := range strings.SplitSeq(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Duration parses a duration that has already passed CheckDuration.
// Invalid input yields zero.
func Duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}

// CheckDuration reports an error naming field when value is not a duration.
func CheckDuration(field, value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	return nil
}
