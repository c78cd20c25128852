package comparisons_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/mandate/internal/comparisons"
	"github.com/JaimeStill/mandate/pkg/reconcile"
)

type harness struct {
	store  *comparisons.MemoryStore
	runner *comparisons.Runner
	mux    *http.ServeMux
}

func newHarness(comparer comparisons.Comparer) *harness {
	store := comparisons.NewMemoryStore(time.Hour)
	runner := comparisons.NewRunner(context.Background(), store, comparer, discard())
	sys := comparisons.New(store, runner, discard())

	mux := http.NewServeMux()
	group := sys.Handler().Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}

	return &harness{store: store, runner: runner, mux: mux}
}

func (h *harness) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)
	return rec
}

func (h *harness) submit(t *testing.T, req comparisons.SubmitRequest) comparisons.Submission {
	t.Helper()
	rec := h.do(t, "POST", "/comparisons", req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit status = %d: %s", rec.Code, rec.Body.String())
	}
	var sub comparisons.Submission
	if err := json.NewDecoder(rec.Body).Decode(&sub); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	return sub
}

func TestHandlerSubmitAccepted(t *testing.T) {
	h := newHarness(comparisons.ComparerFunc(pairwise))
	defer h.runner.Wait()

	rec := h.do(t, "POST", "/comparisons", request("v1", "v2"))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "pending" {
		t.Errorf("status field = %v, want pending", body["status"])
	}
	if _, ok := body["jobId"]; !ok {
		t.Errorf("missing jobId: %v", body)
	}
}

func TestHandlerSubmitRejected(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"one version", request("v1")},
		{"no versions", request()},
		{"duplicate names", request("v1", "v1")},
		{"missing project", comparisons.SubmitRequest{CustomerID: "acme", Versions: request("v1", "v2").Versions}},
		{"not json", "versions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(comparisons.ComparerFunc(pairwise))
			defer h.runner.Wait()

			rec := h.do(t, "POST", "/comparisons", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if n := h.store.Len(); n != 0 {
				t.Errorf("rejected request left %d records", n)
			}
		})
	}
}

func TestHandlerSubmitExplainsDecodeErrors(t *testing.T) {
	h := newHarness(comparisons.ComparerFunc(pairwise))
	defer h.runner.Wait()

	rec := h.do(t, "POST", "/comparisons", map[string]any{"projectId": 42, "customerId": "acme"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, want := range []string{comparisons.ErrInvalidRequest.Error(), "projectId"} {
		if !strings.Contains(body.Error, want) {
			t.Errorf("error = %q, want it to mention %q", body.Error, want)
		}
	}
}

func TestHandlerFindUnknown(t *testing.T) {
	h := newHarness(comparisons.ComparerFunc(pairwise))

	for _, target := range []string{
		"/comparisons/9b2d6c1e-0f5a-4d55-9a0e-0c7a1e2b3c4d",
		"/comparisons/not-a-uuid",
		"/comparisons/not-a-uuid/table",
	} {
		if rec := h.do(t, "GET", target, nil); rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", target, rec.Code)
		}
	}
}

func TestHandlerPollCompleted(t *testing.T) {
	h := newHarness(comparisons.ComparerFunc(pairwise))
	sub := h.submit(t, request("v1", "v2", "v3"))
	h.runner.Wait()

	var first comparisons.Job
	for i := range 3 {
		rec := h.do(t, "GET", "/comparisons/"+sub.JobID.String(), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("poll %d: status = %d", i, rec.Code)
		}
		var job comparisons.Job
		if err := json.NewDecoder(rec.Body).Decode(&job); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if job.Status != comparisons.StatusCompleted {
			t.Fatalf("poll %d: status = %s", i, job.Status)
		}
		if i == 0 {
			first = job
			continue
		}
		if !job.UpdatedAt.Equal(first.UpdatedAt) || len(job.Result.Comparisons) != len(first.Result.Comparisons) {
			t.Errorf("poll %d differs from first poll", i)
		}
	}
}

func TestHandlerTablePending(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(comparisons.ComparerFunc(func(ctx context.Context, versions []comparisons.VersionPayload) ([]reconcile.Comparison, error) {
		<-release
		return pairwise(ctx, versions)
	}))

	sub := h.submit(t, request("v1", "v2"))

	rec := h.do(t, "GET", "/comparisons/"+sub.JobID.String()+"/table", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("table before completion: status = %d, want 409", rec.Code)
	}

	close(release)
	h.runner.Wait()

	rec = h.do(t, "GET", "/comparisons/"+sub.JobID.String()+"/table", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("table after completion: status = %d, want 200", rec.Code)
	}
}

func TestHandlerTableQuery(t *testing.T) {
	h := newHarness(comparisons.ComparerFunc(func(context.Context, []comparisons.VersionPayload) ([]reconcile.Comparison, error) {
		return []reconcile.Comparison{{
			From: "v1",
			To:   "v2",
			ChangesByConstraint: []reconcile.ConstraintDiff{
				{ConstraintTitle: "Alpha", Status: reconcile.StatusUnchanged, Changes: []reconcile.Change{{Tag: reconcile.TagUnchanged, Text: "a"}}},
				{ConstraintTitle: "Bravo", Status: reconcile.StatusModified, Changes: []reconcile.Change{
					{Tag: reconcile.TagRemoved, Text: "b1"},
					{Tag: reconcile.TagAdded, Text: "b2"},
				}},
			},
		}}, nil
	}))

	sub := h.submit(t, request("v1", "v2"))
	h.runner.Wait()

	rec := h.do(t, "GET", "/comparisons/"+sub.JobID.String()+"/table?changed_only=true&sort=most-changed", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var view reconcile.View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Rows) != 1 || view.Rows[0].Title != "Bravo" {
		t.Errorf("rows = %+v, want only Bravo", view.Rows)
	}
	if view.Pinned != "v2" {
		t.Errorf("pinned = %q, want v2", view.Pinned)
	}
	if view.Stats.Modified != 1 {
		t.Errorf("stats = %+v", view.Stats)
	}
}

func TestHandlerTableBadQuery(t *testing.T) {
	h := newHarness(comparisons.ComparerFunc(pairwise))
	sub := h.submit(t, request("v1", "v2"))
	h.runner.Wait()

	for _, q := range []string{"sort=newest", "hide_added=maybe"} {
		rec := h.do(t, "GET", "/comparisons/"+sub.JobID.String()+"/table?"+q, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestQueryFromValuesDefaults(t *testing.T) {
	q, err := comparisons.QueryFromValues(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != (reconcile.Query{Sort: reconcile.SortAlpha}) {
		t.Errorf("query = %+v, want alpha with every toggle off", q)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{comparisons.ErrNotFound, http.StatusNotFound},
		{comparisons.ErrNotCompleted, http.StatusConflict},
		{comparisons.ErrExists, http.StatusConflict},
		{comparisons.ErrInvalidRequest, http.StatusBadRequest},
		{comparisons.ErrVersionsRequired, http.StatusBadRequest},
		{comparisons.ErrInvalidQuery, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := comparisons.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("%v: got %d, want %d", tt.err, got, tt.want)
		}
	}
}
