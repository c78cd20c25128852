package projects

import (
	"errors"
	"net/http"
)

// Domain errors for project operations.
var (
	ErrNotFound       = errors.New("project not found")
	ErrDuplicate      = errors.New("project already exists")
	ErrInvalidProject = errors.New("customer_id and name are required")
	ErrInvalidCatalog = errors.New("catalog must be valid JSON")
	ErrInUse          = errors.New("project still has documents or rulesets")
	ErrInvalidID      = errors.New("invalid project id")
)

// MapHTTPStatus maps project domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidProject), errors.Is(err, ErrInvalidCatalog), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
