package rulesets_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/internal/rulesets"
	"github.com/JaimeStill/mandate/internal/workflow"
	"github.com/JaimeStill/mandate/pkg/routes"
)

type mockSystem struct {
	listFn           func(ctx context.Context, projectID uuid.UUID) ([]rulesets.Version, error)
	findFn           func(ctx context.Context, projectID uuid.UUID, version int) (*rulesets.Version, error)
	findByCustomerFn func(ctx context.Context, customerID string, version int) (*rulesets.Version, error)
	createFn         func(ctx context.Context, cmd rulesets.CreateCommand) (*rulesets.Version, error)
	generateFn       func(ctx context.Context, cmd rulesets.GenerateCommand) (*rulesets.Version, error)
}

func (m *mockSystem) Handler() *rulesets.Handler {
	return rulesets.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) List(ctx context.Context, projectID uuid.UUID) ([]rulesets.Version, error) {
	return m.listFn(ctx, projectID)
}

func (m *mockSystem) Find(ctx context.Context, projectID uuid.UUID, version int) (*rulesets.Version, error) {
	return m.findFn(ctx, projectID, version)
}

func (m *mockSystem) FindByCustomer(ctx context.Context, customerID string, version int) (*rulesets.Version, error) {
	return m.findByCustomerFn(ctx, customerID, version)
}

func (m *mockSystem) Create(ctx context.Context, cmd rulesets.CreateCommand) (*rulesets.Version, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Generate(ctx context.Context, cmd rulesets.GenerateCommand) (*rulesets.Version, error) {
	return m.generateFn(ctx, cmd)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())
	return mux
}

var (
	projectID = uuid.MustParse("6f1c2b1e-9a55-4c47-8a1d-2b4e0f6c9d10")
	docID     = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
)

func version(n int) rulesets.Version {
	return rulesets.Version{
		ID:          uuid.New(),
		ProjectID:   projectID,
		CustomerID:  "acme",
		Version:     n,
		VersionName: fmt.Sprintf("v%d", n),
		RawRules:    []workflow.Section{{Title: "Leverage", Rules: []string{"Max 2x"}}},
		CreatedAt:   time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandlerList(t *testing.T) {
	sys := &mockSystem{
		listFn: func(_ context.Context, id uuid.UUID) ([]rulesets.Version, error) {
			return []rulesets.Version{version(1), version(2)}, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("GET", "/projects/"+projectID.String()+"/rulesets", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, key := range []string{"versionName", "createdAt", "raw_rules", "project_id", "customer_id"} {
		if _, ok := got[0][key]; !ok {
			t.Errorf("response missing %q: %v", key, got[0])
		}
	}
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, _ uuid.UUID, n int) (*rulesets.Version, error) {
			if n > 2 {
				return nil, rulesets.ErrNotFound
			}
			v := version(n)
			return &v, nil
		},
		findByCustomerFn: func(_ context.Context, customerID string, n int) (*rulesets.Version, error) {
			if customerID != "acme" {
				return nil, rulesets.ErrNotFound
			}
			v := version(n)
			return &v, nil
		},
	}
	mux := setupMux(sys)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"project version", "/projects/" + projectID.String() + "/rulesets/2", http.StatusOK},
		{"missing version", "/projects/" + projectID.String() + "/rulesets/3", http.StatusNotFound},
		{"zero version", "/projects/" + projectID.String() + "/rulesets/0", http.StatusBadRequest},
		{"non-numeric version", "/projects/" + projectID.String() + "/rulesets/latest", http.StatusBadRequest},
		{"invalid project", "/projects/nope/rulesets/1", http.StatusBadRequest},
		{"customer version", "/customers/acme/rulesets/1", http.StatusOK},
		{"unknown customer", "/customers/globex/rulesets/1", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerCreate(t *testing.T) {
	var captured rulesets.CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd rulesets.CreateCommand) (*rulesets.Version, error) {
			if err := cmd.Validate(); err != nil {
				return nil, err
			}
			captured = cmd
			v := version(1)
			return &v, nil
		},
	}
	mux := setupMux(sys)
	path := "/projects/" + projectID.String() + "/rulesets"

	rec := httptest.NewRecorder()
	body := `{"versionName":"Q1 draft","raw_rules":[{"title":"Leverage","rules":["Max 2x"]}]}`
	mux.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if captured.ProjectID != projectID || captured.VersionName != "Q1 draft" {
		t.Errorf("command = %+v", captured)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader(`{"raw_rules":[]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty rules: status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader(`{"raw_rules":"Max 2x"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("mistyped rules: status = %d, want 400", rec.Code)
	}
	if msg := rec.Body.String(); !strings.Contains(msg, rulesets.ErrInvalidRuleset.Error()) || !strings.Contains(msg, "raw_rules") {
		t.Errorf("mistyped rules: body = %s, want the decode error", msg)
	}

	sys.createFn = func(context.Context, rulesets.CreateCommand) (*rulesets.Version, error) {
		return nil, rulesets.ErrDuplicate
	}
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", rec.Code)
	}
}

func TestHandlerGenerate(t *testing.T) {
	var captured rulesets.GenerateCommand
	sys := &mockSystem{
		generateFn: func(_ context.Context, cmd rulesets.GenerateCommand) (*rulesets.Version, error) {
			captured = cmd
			v := version(3)
			v.DocumentID = &cmd.DocumentID
			return &v, nil
		},
	}
	mux := setupMux(sys)
	path := "/documents/" + docID.String() + "/rulesets"

	t.Run("without body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", path, nil))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if captured.DocumentID != docID || captured.VersionName != "" {
			t.Errorf("command = %+v", captured)
		}
	})

	t.Run("with version name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader(`{"versionName":"2026 refresh"}`)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if captured.VersionName != "2026 refresh" {
			t.Errorf("version name = %q", captured.VersionName)
		}
	})

	t.Run("workflow failures", func(t *testing.T) {
		tests := []struct {
			err  error
			want int
		}{
			{fmt.Errorf("%w: gone", workflow.ErrDocumentNotFound), http.StatusNotFound},
			{fmt.Errorf("%w: timeout", workflow.ErrRulesFailed), http.StatusBadGateway},
			{fmt.Errorf("%w: 500", workflow.ErrExtractFailed), http.StatusBadGateway},
			{errors.New("db down"), http.StatusInternalServerError},
		}
		for _, tt := range tests {
			sys.generateFn = func(context.Context, rulesets.GenerateCommand) (*rulesets.Version, error) {
				return nil, tt.err
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", path, nil))
			if rec.Code != tt.want {
				t.Errorf("%v: status = %d, want %d", tt.err, rec.Code, tt.want)
			}
		}
	})
}

func TestCreateCommandValidate(t *testing.T) {
	section := workflow.Section{Title: "Leverage", Rules: []string{"Max 2x"}}

	tests := []struct {
		name    string
		cmd     rulesets.CreateCommand
		wantErr bool
	}{
		{"valid", rulesets.CreateCommand{RawRules: []workflow.Section{section}}, false},
		{"valid with agent output", rulesets.CreateCommand{
			RawRules:    []workflow.Section{section},
			MappedRules: json.RawMessage(`{"a":1}`),
			GapAnalysis: json.RawMessage(`[]`),
		}, false},
		{"no rules", rulesets.CreateCommand{}, true},
		{"untitled section", rulesets.CreateCommand{RawRules: []workflow.Section{{Rules: []string{"x"}}}}, true},
		{"bad mapped rules", rulesets.CreateCommand{RawRules: []workflow.Section{section}, MappedRules: json.RawMessage(`{`)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, rulesets.ErrInvalidRuleset) {
				t.Errorf("err = %v, want ErrInvalidRuleset", err)
			}
		})
	}
}

func TestVersionJSONShape(t *testing.T) {
	v := version(1)
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	json.Unmarshal(data, &got)

	if _, ok := got["mapped_rules"]; ok {
		t.Errorf("empty mapped_rules should be omitted: %s", data)
	}
	if _, ok := got["document_id"]; ok {
		t.Errorf("nil document_id should be omitted: %s", data)
	}

	want := []any{map[string]any{"title": "Leverage", "rules": []any{"Max 2x"}}}
	if diff := cmp.Diff(want, got["raw_rules"]); diff != "" {
		t.Errorf("raw_rules mismatch (-want +got):\n%s", diff)
	}
}
