package comparisons

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/pkg/handlers"
	"github.com/JaimeStill/mandate/pkg/reconcile"
	"github.com/JaimeStill/mandate/pkg/routes"
)

// Handler provides HTTP endpoints for comparison jobs.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "comparisons"),
	}
}

// Routes returns the route group definition for comparison endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/comparisons",
		Tags:   []string{"Comparisons"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Submit, OpenAPI: Spec.Submit},
			{Method: "GET", Pattern: "/{jobId}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "GET", Pattern: "/{jobId}/table", Handler: h.Table, OpenAPI: Spec.Table},
		},
	}
}

// Submit creates a job and answers 202 before any comparison work runs.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[SubmitRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}

	job, err := h.sys.Submit(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, Submission{JobID: job.JobID, Status: job.Status})
}

// Find returns the current state of a job.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	job, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, job)
}

// Table returns the reconciled view of a completed job.
func (h *Handler) Table(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	q, err := QueryFromValues(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	view, err := h.sys.Table(r.Context(), id, q)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// QueryFromValues parses the table display toggles from URL query parameters.
// Supported parameters: sort, changed_only, hide_unchanged, hide_added, hide_removed.
func QueryFromValues(values url.Values) (reconcile.Query, error) {
	var q reconcile.Query

	mode, err := reconcile.ParseSortMode(values.Get("sort"))
	if err != nil {
		return q, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	q.Sort = mode

	flags := []struct {
		name   string
		target *bool
	}{
		{"changed_only", &q.ChangedOnly},
		{"hide_unchanged", &q.HideUnchanged},
		{"hide_added", &q.HideAdded},
		{"hide_removed", &q.HideRemoved},
	}

	for _, f := range flags {
		v := values.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return q, fmt.Errorf("%w: %s=%q", ErrInvalidQuery, f.name, v)
		}
		*f.target = b
	}

	return q, nil
}

// jobID answers 404 for identifiers that are not UUIDs, since no such job can exist.
func (h *Handler) jobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("jobId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
