package documents

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/mandate/pkg/handlers"
	"github.com/JaimeStill/mandate/pkg/pagination"
	"github.com/JaimeStill/mandate/pkg/routes"
)

const pdfContentType = "application/pdf"

type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "documents"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes mounts uploads and listings under their project. A stored document
// is addressed by its own id.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags: []string{"Documents"},
		Children: []routes.Group{
			{
				Prefix: "/projects/{projectId}/documents",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
					{Method: "POST", Pattern: "", Handler: h.Upload, OpenAPI: Spec.Upload},
				},
			},
			{
				Prefix: "/documents/{id}",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Find, OpenAPI: Spec.Find},
					{Method: "GET", Pattern: "/download", Handler: h.Download, OpenAPI: Spec.Download},
					{Method: "DELETE", Pattern: "", Handler: h.Delete, OpenAPI: Spec.Delete},
				},
			},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.pathID(w, r, "projectId")
	if !ok {
		return
	}

	filters := FiltersFromQuery(r.URL.Query())
	filters.ProjectID = &projectID

	result, err := h.sys.List(r.Context(), pagination.PageRequestFromQuery(r.URL.Query(), h.pagination), filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Download streams the stored PDF as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	doc, blob, err := h.sys.Open(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	hdr := w.Header()
	hdr.Set("Content-Type", cmp.Or(blob.ContentType, doc.ContentType))
	hdr.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	if blob.ContentLength > 0 {
		hdr.Set("Content-Length", strconv.FormatInt(blob.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if n, err := io.Copy(w, blob.Body); err != nil {
		h.logger.Warn("download interrupted", "id", id, "written", n, "error", err)
	}
}

// Upload accepts a multipart "file" field holding a guidelines PDF. The
// type is sniffed from the content, not taken from the client.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.pathID(w, r, "projectId")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: missing file field", ErrInvalidFile))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: empty file", ErrInvalidFile))
		return
	}

	if ct := http.DetectContentType(data); ct != pdfContentType {
		handlers.RespondError(w, h.logger, http.StatusUnsupportedMediaType, fmt.Errorf("%w: detected %s", ErrNotPDF, ct))
		return
	}

	doc, err := h.sys.Create(r.Context(), CreateCommand{
		ProjectID:   projectID,
		Data:        data,
		Filename:    header.Filename,
		ContentType: pdfContentType,
		PageCount:   h.pageCount(data),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, doc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %s", ErrInvalidID, name))
		return uuid.Nil, false
	}
	return id, true
}

// pageCount is nil when pdfcpu cannot read the document structure.
func (h *Handler) pageCount(data []byte) *int {
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		h.logger.Warn("pdf page count unavailable", "error", err)
		return nil
	}
	return &n
}
