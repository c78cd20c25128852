package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/mandate/pkg/openapi"
)

func newSpec() *openapi.Spec {
	return openapi.NewSpec(&openapi.Config{Title: "Test API", Description: "A test API"}, "1.0.0")
}

func TestNewSpec(t *testing.T) {
	spec := newSpec()

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" {
		t.Errorf("title: got %s, want Test API", spec.Info.Title)
	}
	if spec.Info.Version != "1.0.0" {
		t.Errorf("version: got %s, want 1.0.0", spec.Info.Version)
	}
	if spec.Info.Description != "A test API" {
		t.Errorf("description: got %s", spec.Info.Description)
	}
	if spec.Components == nil {
		t.Fatal("components should not be nil")
	}
	if spec.Paths == nil {
		t.Fatal("paths should not be nil")
	}
}

func TestAddServer(t *testing.T) {
	spec := newSpec()
	spec.AddServer("/api")

	if len(spec.Servers) != 1 {
		t.Fatalf("servers: got %d, want 1", len(spec.Servers))
	}
	if spec.Servers[0].URL != "/api" {
		t.Errorf("server url: got %s", spec.Servers[0].URL)
	}
}

func TestAddOperation(t *testing.T) {
	spec := newSpec()
	get := &openapi.Operation{Summary: "Find"}
	del := &openapi.Operation{Summary: "Delete"}

	if err := spec.AddOperation("/projects/{id}", "GET", get); err != nil {
		t.Fatalf("add get: %v", err)
	}
	if err := spec.AddOperation("/projects/{id}", "DELETE", del); err != nil {
		t.Fatalf("add delete: %v", err)
	}

	item := spec.Paths["/projects/{id}"]
	if item.Get != get || item.Delete != del {
		t.Errorf("path item: got %+v", item)
	}

	if err := spec.AddOperation("/projects/{id}", "GET", get); err == nil {
		t.Error("expected error for duplicate method")
	}
	if err := spec.AddOperation("/projects/{id}", "PATCH", get); err == nil {
		t.Error("expected error for unsupported method")
	}
}

func TestSchemaRef(t *testing.T) {
	ref := openapi.SchemaRef("Project")
	expected := "#/components/schemas/Project"

	if ref.Ref != expected {
		t.Errorf("ref: got %s, want %s", ref.Ref, expected)
	}
}

func TestArrayOf(t *testing.T) {
	s := openapi.ArrayOf("RulesetVersion")

	if s.Type != "array" {
		t.Errorf("type: got %s", s.Type)
	}
	if s.Items == nil || s.Items.Ref != "#/components/schemas/RulesetVersion" {
		t.Errorf("items: got %+v", s.Items)
	}
}

func TestResponseRef(t *testing.T) {
	ref := openapi.ResponseRef("NotFound")
	expected := "#/components/responses/NotFound"

	if ref.Ref != expected {
		t.Errorf("ref: got %s, want %s", ref.Ref, expected)
	}
}

func TestRequestBodyJSON(t *testing.T) {
	rb := openapi.RequestBodyJSON("CreateProject", true)

	if !rb.Required {
		t.Error("required should be true")
	}
	ct, ok := rb.Content["application/json"]
	if !ok {
		t.Fatal("missing application/json content type")
	}
	if ct.Schema.Ref != "#/components/schemas/CreateProject" {
		t.Errorf("schema ref: got %s", ct.Schema.Ref)
	}
}

func TestRequestBodyFile(t *testing.T) {
	rb := openapi.RequestBodyFile("file", "Guidelines PDF")

	ct, ok := rb.Content["multipart/form-data"]
	if !ok {
		t.Fatal("missing multipart/form-data content type")
	}
	field := ct.Schema.Properties["file"]
	if field == nil || field.Format != "binary" {
		t.Errorf("file field: got %+v", field)
	}
	if len(ct.Schema.Required) != 1 || ct.Schema.Required[0] != "file" {
		t.Errorf("required: got %v", ct.Schema.Required)
	}
}

func TestResponseJSON(t *testing.T) {
	resp := openapi.ResponseJSON("Success", "Project")

	if resp.Description != "Success" {
		t.Errorf("description: got %s", resp.Description)
	}
	ct, ok := resp.Content["application/json"]
	if !ok {
		t.Fatal("missing application/json content type")
	}
	if ct.Schema.Ref != "#/components/schemas/Project" {
		t.Errorf("schema ref: got %s", ct.Schema.Ref)
	}
}

func TestResponseBinary(t *testing.T) {
	resp := openapi.ResponseBinary("PDF bytes", "application/pdf")

	ct, ok := resp.Content["application/pdf"]
	if !ok {
		t.Fatal("missing application/pdf content type")
	}
	if ct.Schema.Format != "binary" {
		t.Errorf("format: got %s", ct.Schema.Format)
	}
}

func TestPathParam(t *testing.T) {
	p := openapi.PathParam("id", "Project ID")

	if p.Name != "id" {
		t.Errorf("name: got %s", p.Name)
	}
	if p.In != "path" {
		t.Errorf("in: got %s", p.In)
	}
	if !p.Required {
		t.Error("path params should be required")
	}
	if p.Schema.Type != "string" || p.Schema.Format != "uuid" {
		t.Errorf("schema: got type=%s format=%s", p.Schema.Type, p.Schema.Format)
	}
}

func TestTypedPathParam(t *testing.T) {
	p := openapi.TypedPathParam("version", "integer", "int32", "Version number")

	if !p.Required || p.In != "path" {
		t.Errorf("param: got %+v", p)
	}
	if p.Schema.Type != "integer" || p.Schema.Format != "int32" {
		t.Errorf("schema: got type=%s format=%s", p.Schema.Type, p.Schema.Format)
	}
}

func TestQueryParam(t *testing.T) {
	p := openapi.QueryParam("search", "string", "Search query", false)

	if p.Name != "search" {
		t.Errorf("name: got %s", p.Name)
	}
	if p.In != "query" {
		t.Errorf("in: got %s", p.In)
	}
	if p.Required {
		t.Error("should not be required")
	}
	if p.Schema.Type != "string" {
		t.Errorf("schema type: got %s", p.Schema.Type)
	}
}

func TestNewComponentsDefaults(t *testing.T) {
	c := openapi.NewComponents()

	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("missing default schema: Error")
	}

	responses := []string{"BadRequest", "NotFound", "Conflict", "PayloadTooLarge", "UnsupportedMediaType", "BadGateway"}
	for _, name := range responses {
		resp, ok := c.Responses[name]
		if !ok {
			t.Errorf("missing default response: %s", name)
			continue
		}
		if resp.Content["application/json"].Schema.Ref != "#/components/schemas/Error" {
			t.Errorf("%s: should reference the Error schema", name)
		}
	}
}

func TestAddSchemas(t *testing.T) {
	c := openapi.NewComponents()
	c.AddSchemas(map[string]*openapi.Schema{
		"Project": {Type: "object"},
	})

	if _, ok := c.Schemas["Project"]; !ok {
		t.Error("Project schema not added")
	}
	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("default Error schema should still exist")
	}
}

func TestAddResponses(t *testing.T) {
	c := openapi.NewComponents()
	c.AddResponses(map[string]*openapi.Response{
		"Unauthorized": {Description: "Not authenticated"},
	})

	if _, ok := c.Responses["Unauthorized"]; !ok {
		t.Error("Unauthorized response not added")
	}
	if _, ok := c.Responses["BadRequest"]; !ok {
		t.Error("default BadRequest response should still exist")
	}
}

func TestPageParamsAndPageOf(t *testing.T) {
	names := map[string]bool{}
	for _, p := range openapi.PageParams() {
		if p.In != "query" {
			t.Errorf("%s: in %s, want query", p.Name, p.In)
		}
		names[p.Name] = true
	}
	for _, want := range []string{"page", "page_size", "search", "sort"} {
		if !names[want] {
			t.Errorf("missing page param %s", want)
		}
	}

	page := openapi.PageOf("Project")
	if page.Properties["data"].Items.Ref != "#/components/schemas/Project" {
		t.Errorf("data items: got %+v", page.Properties["data"].Items)
	}
	if _, ok := page.Properties["total_pages"]; !ok {
		t.Error("missing total_pages")
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Env Title")

	var cfg openapi.Config
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Title != "Env Title" {
		t.Errorf("title: got %s, want Env Title", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description should default")
	}

	cfg.Merge(&openapi.Config{Description: "Overlay"})
	if cfg.Title != "Env Title" || cfg.Description != "Overlay" {
		t.Errorf("merge: got %+v", cfg)
	}
}

func TestMarshalJSON(t *testing.T) {
	spec := newSpec()
	spec.AddOperation("/comparisons", "POST", &openapi.Operation{
		Responses: map[int]*openapi.Response{202: {Description: "Accepted"}},
	})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var parsed struct {
		OpenAPI string                                `json:"openapi"`
		Paths   map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if parsed.OpenAPI != "3.1.0" {
		t.Errorf("openapi: got %v", parsed.OpenAPI)
	}
	if _, ok := parsed.Paths["/comparisons"]["post"]; !ok {
		t.Errorf("paths: got %v", parsed.Paths)
	}
}

func TestServeSpec(t *testing.T) {
	body := []byte(`{"openapi":"3.1.0"}`)
	rec := httptest.NewRecorder()

	openapi.ServeSpec(body)(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type: got %s", ct)
	}
	got, _ := io.ReadAll(rec.Body)
	if string(got) != string(body) {
		t.Errorf("body: got %s", got)
	}
}
