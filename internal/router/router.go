// Package router dispatches storefront paths to views. Routes are a fixed
// table of literal segments and :param placeholders; navigation renders the
// matched view immediately, there is no history stack beyond the current
// location.
package router

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no route matches the requested path.
var ErrNotFound = errors.New("no such page")

// Params holds values captured by :param route segments.
type Params map[string]string

// Handler renders the view for a matched route.
type Handler func(ctx context.Context, p Params) error

type route struct {
	segments []string
	handler  Handler
}

// Router maps paths to handlers.
type Router struct {
	routes    []route
	redirects map[string]string
	current   string
}

// New creates an empty Router.
func New() *Router {
	return &Router{redirects: map[string]string{}}
}

// Handle registers a handler for pattern, e.g. "/food/:id".
func (r *Router) Handle(pattern string, h Handler) {
	r.routes = append(r.routes, route{segments: split(pattern), handler: h})
}

// Redirect makes navigation to from behave as navigation to to.
func (r *Router) Redirect(from, to string) {
	r.redirects[from] = to
}

// Current returns the last successfully navigated path.
func (r *Router) Current() string {
	return r.current
}

// Navigate resolves path and renders its view. Unknown paths return
// ErrNotFound and leave the current location unchanged.
func (r *Router) Navigate(ctx context.Context, path string) error {
	if to, ok := r.redirects[normalize(path)]; ok {
		path = to
	}
	path = normalize(path)

	segs := split(path)
	for _, rt := range r.routes {
		params, ok := match(rt.segments, segs)
		if !ok {
			continue
		}
		zctx.From(ctx).Debug("Navigate", zap.String("path", path))
		if err := rt.handler(ctx, params); err != nil {
			return errors.Wrapf(err, "render %s", path)
		}
		r.current = path
		return nil
	}
	return errors.Wrap(ErrNotFound, path)
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(pattern, segs []string) (Params, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params Params
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if params == nil {
				params = Params{}
			}
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
