package comparisons

import (
	"errors"
	"net/http"
)

// Domain errors for comparison jobs.
var (
	ErrNotFound         = errors.New("comparison job not found")
	ErrExists           = errors.New("comparison job already exists")
	ErrInvalidRequest   = errors.New("invalid comparison request")
	ErrVersionsRequired = errors.New("at least two versions required")
	ErrNotCompleted     = errors.New("comparison job not completed")
	ErrInvalidQuery     = errors.New("invalid table query")
)

// MapHTTPStatus maps comparison errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotCompleted), errors.Is(err, ErrExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrVersionsRequired),
		errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
