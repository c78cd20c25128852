package storage

import (
	"errors"
	"path"
	"strings"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrEmptyKey   = errors.New("storage key must not be empty")
	ErrInvalidKey = errors.New("storage key must be a relative path without . or .. segments")
)

// Key joins segments into a blob name such as
// "projects/{project}/documents/{document}/guidelines.pdf".
func Key(segments ...string) string {
	return path.Join(segments...)
}

// ValidateKey rejects keys that are empty, absolute, or that contain empty,
// "." or ".." segments.
func ValidateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	for seg := range strings.SplitSeq(key, "/") {
		switch seg {
		case "", ".", "..":
			return ErrInvalidKey
		}
	}
	return nil
}
