package workflow

import "errors"

// Sentinel errors identifying the pipeline step that failed.
var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrExtractFailed     = errors.New("text extraction failed")
	ErrRulesFailed       = errors.New("rule extraction failed")
	ErrMappingFailed     = errors.New("rule mapping failed")
	ErrGapAnalysisFailed = errors.New("gap analysis failed")
)
