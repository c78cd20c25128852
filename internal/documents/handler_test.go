package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/internal/documents"
	"github.com/JaimeStill/mandate/pkg/pagination"
	"github.com/JaimeStill/mandate/pkg/routes"
	"github.com/JaimeStill/mandate/pkg/storage"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	openFn   func(ctx context.Context, id uuid.UUID) (*documents.Document, *storage.Blob, error)
	createFn func(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler(maxUploadSize int64) *documents.Handler {
	return documents.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, maxUploadSize)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Open(ctx context.Context, id uuid.UUID) (*documents.Document, *storage.Blob, error) {
	return m.openFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func setupMux(h *documents.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

var (
	docID     = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	projectID = uuid.MustParse("6f1c2b1e-9a55-4c47-8a1d-2b4e0f6c9d10")
)

func sampleDoc() documents.Document {
	return documents.Document{
		ID:          docID,
		ProjectID:   projectID,
		Filename:    "guidelines.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
		StorageKey:  "projects/" + projectID.String() + "/documents/" + docID.String() + "/guidelines.pdf",
		UploadedAt:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestHandlerListScopesToProject(t *testing.T) {
	var captured documents.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, f documents.Filters) (*pagination.PageResult[documents.Document], error) {
			captured = f
			result := pagination.NewPageResult([]documents.Document{sampleDoc()}, 1, 1, 20)
			return &result, nil
		},
	}
	mux := setupMux(sys.Handler(1 << 20))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/projects/"+projectID.String()+"/documents?filename=guide", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.ProjectID == nil || *captured.ProjectID != projectID {
		t.Errorf("project filter = %v, want %s", captured.ProjectID, projectID)
	}
	if captured.Filename == nil || *captured.Filename != "guide" {
		t.Errorf("filename filter = %v, want guide", captured.Filename)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/projects/bad/documents", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid project id: status = %d, want 400", rec.Code)
	}
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*documents.Document, error) {
			if id != docID {
				return nil, documents.ErrNotFound
			}
			d := sampleDoc()
			return &d, nil
		},
	}
	mux := setupMux(sys.Handler(1 << 20))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+docID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got documents.Document
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ProjectID != projectID {
		t.Errorf("project_id = %s, want %s", got.ProjectID, projectID)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerDownload(t *testing.T) {
	sys := &mockSystem{
		openFn: func(_ context.Context, _ uuid.UUID) (*documents.Document, *storage.Blob, error) {
			d := sampleDoc()
			return &d, &storage.Blob{
				Body:          io.NopCloser(strings.NewReader("%PDF-1.7")),
				ContentType:   "application/pdf",
				ContentLength: 8,
			}, nil
		},
	}
	mux := setupMux(sys.Handler(1 << 20))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+docID.String()+"/download", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "guidelines.pdf") {
		t.Errorf("content-disposition = %q", got)
	}
	if rec.Body.String() != "%PDF-1.7" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func multipartBody(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(data)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHandlerUpload(t *testing.T) {
	var captured documents.CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
			captured = cmd
			d := sampleDoc()
			d.Filename = cmd.Filename
			return &d, nil
		},
	}
	mux := setupMux(sys.Handler(1 << 20))
	path := "/projects/" + projectID.String() + "/documents"

	t.Run("creates document", func(t *testing.T) {
		body, ct := multipartBody(t, "guidelines.pdf", []byte("%PDF-1.7\nnot a full document"))
		req := httptest.NewRequest("POST", path, body)
		req.Header.Set("Content-Type", ct)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if captured.ProjectID != projectID {
			t.Errorf("project = %s, want %s", captured.ProjectID, projectID)
		}
		if captured.Filename != "guidelines.pdf" || captured.ContentType != "application/pdf" {
			t.Errorf("filename = %q, content type = %q", captured.Filename, captured.ContentType)
		}
		if captured.PageCount != nil {
			t.Errorf("page count = %v, want nil for unreadable PDF", *captured.PageCount)
		}
	})

	t.Run("rejects non-PDF", func(t *testing.T) {
		body, ct := multipartBody(t, "notes.pdf", []byte("plain guidelines text"))
		req := httptest.NewRequest("POST", path, body)
		req.Header.Set("Content-Type", ct)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnsupportedMediaType {
			t.Errorf("status = %d, want 415", rec.Code)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		body, ct := multipartBody(t, "", nil)
		req := httptest.NewRequest("POST", path, body)
		req.Header.Set("Content-Type", ct)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		sys.createFn = func(context.Context, documents.CreateCommand) (*documents.Document, error) {
			return nil, documents.ErrProjectNotFound
		}
		body, ct := multipartBody(t, "guidelines.pdf", []byte("%PDF-1.4\n"))
		req := httptest.NewRequest("POST", path, body)
		req.Header.Set("Content-Type", ct)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			if id == docID {
				return documents.ErrInUse
			}
			return documents.ErrNotFound
		},
	}
	mux := setupMux(sys.Handler(1 << 20))

	tests := []struct {
		path string
		want int
	}{
		{"/documents/" + docID.String(), http.StatusConflict},
		{"/documents/" + uuid.NewString(), http.StatusNotFound},
		{"/documents/nope", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("DELETE", tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("DELETE %s: status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}
