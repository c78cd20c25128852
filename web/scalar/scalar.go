// Package scalar serves the Scalar API reference UI for an OpenAPI document.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/mandate/pkg/middleware"
	"github.com/JaimeStill/mandate/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

var page = template.Must(template.ParseFS(staticFS, "index.html"))

// NewModule creates a module that serves the Scalar API reference UI at
// basePath, rendering the document found at specURL.
func NewModule(basePath, title, specURL string, mw ...middleware.Middleware) (*module.Module, error) {
	return module.New(basePath, buildRouter(title, specURL), mw...)
}

func buildRouter(title, specURL string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		page.Execute(w, map[string]string{
			"Title":   title,
			"SpecURL": specURL,
		})
	})

	return mux
}
