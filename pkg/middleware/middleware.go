// Package middleware provides the HTTP middleware stack and the request
// logging, CORS, and bearer authentication layers applied to it.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware.
// The first middleware added is the outermost when applied.
type System interface {
	Use(mw ...Middleware)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	layers []Middleware
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw ...Middleware) {
	s.layers = append(s.layers, mw...)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.layers) - 1; i >= 0; i-- {
		handler = s.layers[i](handler)
	}
	return handler
}
