package rulesets

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/pkg/handlers"
	"github.com/JaimeStill/mandate/pkg/routes"
)

// Handler provides HTTP endpoints for ruleset versions.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "rulesets"),
	}
}

// Routes returns the route groups for ruleset endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags: []string{"Rulesets"},
		Children: []routes.Group{
			{
				Prefix: "/projects/{projectId}/rulesets",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
					{Method: "GET", Pattern: "/{version}", Handler: h.Find, OpenAPI: Spec.Find},
					{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
				},
			},
			{
				Prefix: "/customers/{customerId}/rulesets",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{version}", Handler: h.FindByCustomer, OpenAPI: Spec.FindByCustomer},
				},
			},
			{
				Prefix: "/documents/{documentId}/rulesets",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "", Handler: h.Generate, OpenAPI: Spec.Generate},
				},
			},
		},
	}
}

// List returns all versions of a project, oldest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.uuidPath(w, r, "projectId")
	if !ok {
		return
	}

	versions, err := h.sys.List(r.Context(), projectID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, versions)
}

// Find returns one version of a project.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.uuidPath(w, r, "projectId")
	if !ok {
		return
	}
	version, ok := h.versionPath(w, r)
	if !ok {
		return
	}

	v, err := h.sys.Find(r.Context(), projectID, version)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// FindByCustomer returns a version by customer and version number.
func (h *Handler) FindByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("customerId")
	version, ok := h.versionPath(w, r)
	if !ok {
		return
	}

	v, err := h.sys.FindByCustomer(r.Context(), customerID, version)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// Create appends a version built from the supplied raw rules.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.uuidPath(w, r, "projectId")
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[CreateCommand](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidRuleset, err))
		return
	}
	cmd.ProjectID = projectID

	v, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, v)
}

// Generate runs the rule-mapping workflow over a document and appends the result.
// The request body is optional and may set versionName.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	documentID, ok := h.uuidPath(w, r, "documentId")
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[GenerateCommand](r)
	if err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidRuleset, err))
		return
	}
	cmd.DocumentID = documentID

	v, err := h.sys.Generate(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, v)
}

func (h *Handler) uuidPath(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) versionPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	version, err := strconv.Atoi(r.PathValue("version"))
	if err != nil || version < 1 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidVersion)
		return 0, false
	}
	return version, true
}
