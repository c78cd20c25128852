// Package routes declares HTTP routes as nested prefix groups and registers
// them on a ServeMux using method-qualified patterns.
package routes

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/mandate/pkg/openapi"
)

// Route is one handler. Pattern is relative to the enclosing groups and may
// be empty to bind the group prefix itself.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group nests routes and child groups under Prefix. Tags apply to every
// described operation beneath the group that carries none of its own.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

func (g Group) walk(prefix string, tags []string, fn func(path string, tags []string, r Route) error) error {
	prefix += g.Prefix
	if len(g.Tags) > 0 {
		tags = g.Tags
	}
	for _, r := range g.Routes {
		if err := fn(prefix+r.Pattern, tags, r); err != nil {
			return err
		}
	}
	for _, child := range g.Children {
		if err := child.walk(prefix, tags, fn); err != nil {
			return err
		}
	}
	return nil
}

// Register adds every route in groups to mux and returns the full patterns,
// such as "GET /comparisons/{id}/table", in registration order.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var patterns []string
	for _, g := range groups {
		g.walk("", nil, func(path string, _ []string, r Route) error {
			pattern := r.Method + " " + path
			mux.HandleFunc(pattern, r.Handler)
			patterns = append(patterns, pattern)
			return nil
		})
	}
	return patterns
}

// Describe adds the operation of every route in groups to spec. Routes
// without an operation are skipped.
func Describe(spec *openapi.Spec, groups ...Group) error {
	for _, g := range groups {
		err := g.walk("", nil, func(path string, tags []string, r Route) error {
			if r.OpenAPI == nil {
				return nil
			}
			op := *r.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = tags
			}
			if err := spec.AddOperation(path, r.Method, &op); err != nil {
				return fmt.Errorf("describe %s %s: %w", r.Method, path, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
