// Package navigation maps URL paths to lazily-loaded views rendered inside one layout shell.
//
// The table is static: it resolves paths and loads views, nothing else.
package navigation

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/netprobe/netprobe-ui/internal/logger"
)

// ViewLoader produces the view of a route. It runs at most once, the first time the view is needed.
type ViewLoader func() (templ.Component, error)

// Route is one entry of the table. Path is relative to the root ("router-tags").
type Route struct {
	Path  string
	Name  string
	Title string
	Load  ViewLoader
}

// FullPath returns the absolute URL path of the route.
func (r Route) FullPath() string {
	return "/" + r.Path
}

// Shell wraps a loaded view in the layout.
type Shell func(current Route, routes []Route, view templ.Component) templ.Component

// Table is the ordered route list rooted at one shell, plus the redirect for "/".
type Table struct {
	shell    Shell
	redirect string
	routes   []Route
	byPath   map[string]int
	byName   map[string]int
	views    []func() (templ.Component, error)
}

// NewTable checks the routes (unique paths and names, a loader for each) and that redirect names one of them.
func NewTable(shell Shell, redirect string, routes ...Route) (*Table, error) {
	t := &Table{
		shell:    shell,
		redirect: redirect,
		routes:   make([]Route, len(routes)),
		byPath:   make(map[string]int, len(routes)),
		byName:   make(map[string]int, len(routes)),
		views:    make([]func() (templ.Component, error), len(routes)),
	}

	for i, r := range routes {
		r.Path = strings.Trim(r.Path, "/")
		if r.Path == "" || r.Name == "" {
			return nil, fmt.Errorf("route %d: path and name are required", i)
		}
		if r.Load == nil {
			return nil, fmt.Errorf("route %s: missing view loader", r.Name)
		}
		if _, dup := t.byPath[r.Path]; dup {
			return nil, fmt.Errorf("duplicate route path %q", r.Path)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("duplicate route name %q", r.Name)
		}

		t.routes[i] = r
		t.byPath[r.Path] = i
		t.byName[r.Name] = i
		t.views[i] = sync.OnceValues(r.Load)
	}

	if _, ok := t.Resolve(redirect); !ok {
		return nil, fmt.Errorf("redirect target %q is not a route", redirect)
	}

	return t, nil
}

// Routes returns the table in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Redirect returns the path "/" redirects to.
func (t *Table) Redirect() string {
	return t.redirect
}

// Resolve finds the route for a URL path ("/router-tags", "router-tags/" and "router-tags" all match).
func (t *Table) Resolve(path string) (Route, bool) {
	i, ok := t.byPath[strings.Trim(path, "/")]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// View returns the named route's view, loading it on first use. A loader error is returned on every call.
func (t *Table) View(name string) (templ.Component, error) {
	i, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown view %q", name)
	}
	return t.views[i]()
}

// Mount registers the redirect and one GET handler per route.
func (t *Table) Mount(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, t.redirect, http.StatusFound)
	})

	for _, route := range t.routes {
		r.Get(route.FullPath(), t.handler(route))
	}
}

func (t *Table) handler(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := t.View(route.Name)
		if err != nil {
			logger.ContextRequestLogger(r.Context()).Error("failed to load view",
				slog.String("view", route.Name),
				slog.String("error", err.Error()),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		logger.ContextWithLogAttrs(r.Context(), slog.String("view", route.Name))
		templ.Handler(t.shell(route, t.routes, view)).ServeHTTP(w, r)
	}
}
