package scalar_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/mandate/web/scalar"
)

func TestNewModuleServesReference(t *testing.T) {
	m, err := scalar.NewModule("/scalar", "Mandate API", "/api/openapi.json")
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	if m.Prefix() != "/scalar" {
		t.Errorf("prefix: got %s, want /scalar", m.Prefix())
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/scalar", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content type: got %s", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `data-url="/api/openapi.json"`) {
		t.Errorf("body should reference the spec url:\n%s", body)
	}
	if !strings.Contains(body, "<title>Mandate API</title>") {
		t.Errorf("body should carry the title:\n%s", body)
	}
}

func TestNewModuleUnknownPath(t *testing.T) {
	m, err := scalar.NewModule("/scalar", "Mandate API", "/api/openapi.json")
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/scalar/missing.js", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestNewModuleRejectsNestedPrefix(t *testing.T) {
	if _, err := scalar.NewModule("/docs/scalar", "Mandate API", "/api/openapi.json"); err == nil {
		t.Error("expected error for a multi-segment prefix")
	}
}
