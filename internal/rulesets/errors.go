package rulesets

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/mandate/internal/workflow"
)

// Domain errors for ruleset operations.
var (
	ErrNotFound        = errors.New("ruleset version not found")
	ErrDuplicate       = errors.New("ruleset version already exists")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidRuleset  = errors.New("invalid ruleset")
	ErrInvalidVersion  = errors.New("invalid version")
	ErrInvalidID       = errors.New("invalid id")
)

// MapHTTPStatus maps ruleset and workflow errors to HTTP status codes.
// Agent and extraction failures surface as 502.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrProjectNotFound),
		errors.Is(err, workflow.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRuleset), errors.Is(err, ErrInvalidVersion), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrExtractFailed),
		errors.Is(err, workflow.ErrRulesFailed),
		errors.Is(err, workflow.ErrMappingFailed),
		errors.Is(err, workflow.ErrGapAnalysisFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
