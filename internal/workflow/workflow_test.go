package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/internal/documents"
	"github.com/JaimeStill/mandate/internal/projects"
	"github.com/JaimeStill/mandate/internal/workflow"
	"github.com/JaimeStill/mandate/pkg/agent"
	"github.com/JaimeStill/mandate/pkg/extraction"
	"github.com/JaimeStill/mandate/pkg/pagination"
	"github.com/JaimeStill/mandate/pkg/storage"
)

var (
	docID     = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	projectID = uuid.MustParse("6f1c2b1e-9a55-4c47-8a1d-2b4e0f6c9d10")
)

type mockDocuments struct {
	documents.System
	openFn func(ctx context.Context, id uuid.UUID) (*documents.Document, *storage.Blob, error)
}

func (m *mockDocuments) Open(ctx context.Context, id uuid.UUID) (*documents.Document, *storage.Blob, error) {
	return m.openFn(ctx, id)
}

type mockProjects struct {
	findFn func(ctx context.Context, id uuid.UUID) (*projects.Project, error)
}

func (m *mockProjects) Handler() *projects.Handler { return nil }
func (m *mockProjects) List(context.Context, pagination.PageRequest, projects.Filters) (*pagination.PageResult[projects.Project], error) {
	return nil, nil
}
func (m *mockProjects) Find(ctx context.Context, id uuid.UUID) (*projects.Project, error) {
	return m.findFn(ctx, id)
}
func (m *mockProjects) Create(context.Context, projects.CreateCommand) (*projects.Project, error) {
	return nil, nil
}
func (m *mockProjects) UpdateCatalog(context.Context, uuid.UUID, json.RawMessage) (*projects.Project, error) {
	return nil, nil
}
func (m *mockProjects) Delete(context.Context, uuid.UUID) error { return nil }

type extractorFunc func(ctx context.Context, filename string, r io.Reader) (*extraction.Result, error)

func (f extractorFunc) Extract(ctx context.Context, filename string, r io.Reader) (*extraction.Result, error) {
	return f(ctx, filename, r)
}

type fakeAgent struct {
	replies  map[string]agent.Response
	failures map[string]error
	calls    []string
	sessions map[string]bool
	prompts  map[string]string
}

func (f *fakeAgent) Send(_ context.Context, agentID, sessionID, message string) (agent.Response, error) {
	f.calls = append(f.calls, agentID)
	f.sessions[sessionID] = true
	f.prompts[agentID] = message
	if err, ok := f.failures[agentID]; ok {
		return agent.Response{}, err
	}
	return f.replies[agentID], nil
}

func newFakeAgent() *fakeAgent {
	return &fakeAgent{
		replies: map[string]agent.Response{
			"rules":   agent.WrappedResponse("```json\n{\"sections\":[{\"title\":\"Leverage\",\"rules\":[\"Max 2x\"]},{\"title\":\"\",\"rules\":[\"dropped\"]}]}\n```"),
			"mapping": agent.ObjectResponse([]byte(`{"Leverage":["leverage_ratio"]}`)),
			"gaps":    agent.ObjectResponse([]byte(`{"missing":[]}`)),
		},
		failures: map[string]error{},
		sessions: map[string]bool{},
		prompts:  map[string]string{},
	}
}

func newRuntime(a *fakeAgent) *workflow.Runtime {
	return &workflow.Runtime{
		Agent:  a,
		Agents: agent.Agents{Rules: "rules", Mapping: "mapping", GapAnalysis: "gaps", Comparison: "compare"},
		Extraction: extractorFunc(func(_ context.Context, filename string, r io.Reader) (*extraction.Result, error) {
			data, _ := io.ReadAll(r)
			return &extraction.Result{Content: "text of " + filename + ": " + string(data), Pages: 3}, nil
		}),
		Documents: &mockDocuments{
			openFn: func(_ context.Context, id uuid.UUID) (*documents.Document, *storage.Blob, error) {
				if id != docID {
					return nil, nil, documents.ErrNotFound
				}
				return &documents.Document{ID: docID, ProjectID: projectID, Filename: "guidelines.pdf"},
					&storage.Blob{Body: io.NopCloser(strings.NewReader("leverage below 2x"))}, nil
			},
		},
		Projects: &mockProjects{
			findFn: func(_ context.Context, id uuid.UUID) (*projects.Project, error) {
				return &projects.Project{ID: id, CustomerID: "acme", Catalog: json.RawMessage(`{"fields":["leverage_ratio"]}`)}, nil
			},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestExecute(t *testing.T) {
	a := newFakeAgent()
	result, err := workflow.Execute(context.Background(), newRuntime(a), docID)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := []workflow.Section{{Title: "Leverage", Rules: []string{"Max 2x"}}}
	if diff := cmp.Diff(want, result.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if result.CustomerID != "acme" || result.ProjectID != projectID || result.Pages != 3 {
		t.Errorf("result metadata = %+v", result)
	}
	if string(result.MappedRules) != `{"Leverage":["leverage_ratio"]}` {
		t.Errorf("mapped rules = %s", result.MappedRules)
	}
	if string(result.GapAnalysis) != `{"missing":[]}` {
		t.Errorf("gap analysis = %s", result.GapAnalysis)
	}

	if diff := cmp.Diff([]string{"rules", "mapping", "gaps"}, a.calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
	if len(a.sessions) != 1 {
		t.Errorf("sessions = %d, want 1 shared session", len(a.sessions))
	}
	if !strings.Contains(a.prompts["rules"], "leverage below 2x") {
		t.Errorf("rules prompt missing document text:\n%s", a.prompts["rules"])
	}
	if !strings.Contains(a.prompts["mapping"], "leverage_ratio") {
		t.Errorf("mapping prompt missing catalog:\n%s", a.prompts["mapping"])
	}
}

func TestExecuteUsesInstructionOverrides(t *testing.T) {
	a := newFakeAgent()
	rt := newRuntime(a)
	rt.Instructions = workflow.Instructions{Mapping: "Map rules onto the house taxonomy."}

	if _, err := workflow.Execute(context.Background(), rt, docID); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !strings.HasPrefix(a.prompts["mapping"], "Map rules onto the house taxonomy.") {
		t.Errorf("mapping prompt ignores override:\n%s", a.prompts["mapping"])
	}
	if !strings.HasPrefix(a.prompts["rules"], "Extract every investment constraint") {
		t.Errorf("rules prompt lost built-in instructions:\n%s", a.prompts["rules"])
	}
}

func TestExecuteFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(rt *workflow.Runtime, a *fakeAgent)
		id      uuid.UUID
		want    error
		wantRan []string
	}{
		{
			name: "unknown document",
			id:   uuid.New(),
			want: workflow.ErrDocumentNotFound,
		},
		{
			name: "extraction fails",
			setup: func(rt *workflow.Runtime, _ *fakeAgent) {
				rt.Extraction = extractorFunc(func(context.Context, string, io.Reader) (*extraction.Result, error) {
					return nil, extraction.ErrNoContent
				})
			},
			want: workflow.ErrExtractFailed,
		},
		{
			name: "rules agent fails",
			setup: func(_ *workflow.Runtime, a *fakeAgent) {
				a.failures["rules"] = boom
			},
			want:    workflow.ErrRulesFailed,
			wantRan: []string{"rules"},
		},
		{
			name: "rules agent returns garbage",
			setup: func(_ *workflow.Runtime, a *fakeAgent) {
				a.replies["rules"] = agent.WrappedResponse("I could not find any rules")
			},
			want:    workflow.ErrRulesFailed,
			wantRan: []string{"rules"},
		},
		{
			name: "mapping agent fails",
			setup: func(_ *workflow.Runtime, a *fakeAgent) {
				a.failures["mapping"] = boom
			},
			want:    workflow.ErrMappingFailed,
			wantRan: []string{"rules", "mapping"},
		},
		{
			name: "gap agent fails",
			setup: func(_ *workflow.Runtime, a *fakeAgent) {
				a.failures["gaps"] = boom
			},
			want:    workflow.ErrGapAnalysisFailed,
			wantRan: []string{"rules", "mapping", "gaps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newFakeAgent()
			rt := newRuntime(a)
			if tt.setup != nil {
				tt.setup(rt, a)
			}
			id := docID
			if tt.id != uuid.Nil {
				id = tt.id
			}

			_, err := workflow.Execute(context.Background(), rt, id)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(a.calls) != len(tt.wantRan) {
				t.Errorf("agent calls = %v, want %v", a.calls, tt.wantRan)
			}
		})
	}
}
