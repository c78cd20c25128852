package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/mandate/pkg/module"
	"github.com/JaimeStill/mandate/pkg/routes"
)

func TestRouterDispatch(t *testing.T) {
	mux := http.NewServeMux()
	patterns := routes.Register(mux, routes.Group{
		Prefix: "/comparisons",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "job "+r.PathValue("id"))
			}},
		},
		Children: []routes.Group{{
			Prefix: "/{id}/table",
			Routes: []routes.Route{{Method: "GET", Pattern: "", Handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "table "+r.PathValue("id"))
			}}},
		}},
	})

	if len(patterns) != 2 || patterns[1] != "GET /comparisons/{id}/table" {
		t.Errorf("patterns: got %v", patterns)
	}

	api, err := module.New("/api", mux)
	if err != nil {
		t.Fatal(err)
	}

	router := module.NewRouter()
	router.Mount(api)
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})

	tests := []struct {
		path string
		want string
	}{
		{"/api/comparisons/abc", "job abc"},
		{"/api/comparisons/abc/", "job abc"},
		{"/api/comparisons/abc/table", "table abc"},
		{"/healthz", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Body.String() != tt.want {
				t.Errorf("got %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestModuleMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	m, err := module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.Path)
	}), tag("cors"), tag("logger"))
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	if len(order) != 2 || order[0] != "cors" || order[1] != "logger" {
		t.Errorf("middleware order: got %v", order)
	}
	if rec.Body.String() != "/projects" {
		t.Errorf("stripped path: got %q", rec.Body.String())
	}
}

func TestModuleRootRequest(t *testing.T) {
	m, err := module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.Path)
	}))
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))
	if rec.Body.String() != "/" {
		t.Errorf("got %q, want /", rec.Body.String())
	}
}

func TestModulePrefixValidation(t *testing.T) {
	for _, prefix := range []string{"", "/", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			if _, err := module.New(prefix, http.NotFoundHandler()); err == nil {
				t.Errorf("prefix %q: expected error", prefix)
			}
		})
	}
}
