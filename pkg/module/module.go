// Package module mounts handler trees under single-segment path prefixes.
// Each module carries its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/mandate/pkg/middleware"
)

// Module serves an inner router beneath prefix. The router sees request
// paths with the prefix removed.
type Module struct {
	prefix  string
	handler http.Handler
}

// New mounts router beneath prefix, for example "/api", wrapped in mw.
// The first middleware given is the outermost.
func New(prefix string, router http.Handler, mw ...middleware.Middleware) (*Module, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}

	stack := middleware.New()
	stack.Use(mw...)

	return &Module{
		prefix:  prefix,
		handler: stack.Apply(router),
	}, nil
}

func (m *Module) Prefix() string {
	return m.prefix
}

func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.handler.ServeHTTP(w, withPath(req, strings.TrimPrefix(req.URL.Path, m.prefix)))
}

func withPath(req *http.Request, path string) *http.Request {
	if path == "" {
		path = "/"
	}

	u := *req.URL
	u.Path = path
	u.RawPath = ""

	r := req.Clone(req.Context())
	r.URL = &url.URL{}
	*r.URL = u
	return r
}

func validatePrefix(prefix string) error {
	rest, ok := strings.CutPrefix(prefix, "/")
	switch {
	case !ok:
		return fmt.Errorf("module prefix %q must start with /", prefix)
	case rest == "":
		return fmt.Errorf("module prefix cannot be the root path")
	case strings.Contains(rest, "/"):
		return fmt.Errorf("module prefix %q must be a single path segment", prefix)
	}
	return nil
}
