// Package router turns an explicit route table into an http.Handler.
//
// A route is a (method, pattern, handler) triple. Patterns use the
// net/http ServeMux syntax without a method ("/students/{id}"), so
// handlers keep using r.PathValue. Routes sharing a pattern are grouped;
// a request whose path matches a pattern but whose method is not in the
// table gets a JSON 405 with an Allow header instead of the plain-text
// answer ServeMux would give.
//
// Paths matched by no pattern go to the fallback handler (static files in
// this application).
package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/aanand-mishra/student-records/internal/apperr"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// Route is one row of the route table.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Router dispatches requests according to a route table.
type Router struct {
	mux *http.ServeMux
}

// methodTable holds the handlers registered for one pattern.
type methodTable map[string]http.HandlerFunc

// New builds a Router from routes. fallback may be nil, in which case
// unmatched paths get ServeMux's 404.
//
// New panics if the same method and pattern appear twice, just like
// ServeMux does for conflicting registrations.
func New(routes []Route, fallback http.Handler) *Router {
	mux := http.NewServeMux()

	tables := make(map[string]methodTable)
	var order []string
	for _, rt := range routes {
		t, ok := tables[rt.Pattern]
		if !ok {
			t = make(methodTable)
			tables[rt.Pattern] = t
			order = append(order, rt.Pattern)
		}
		if _, dup := t[rt.Method]; dup {
			panic("router: duplicate route " + rt.Method + " " + rt.Pattern)
		}
		t[rt.Method] = rt.Handler
	}

	for _, pattern := range order {
		mux.Handle(pattern, tables[pattern])
	}
	if fallback != nil {
		mux.Handle("/", fallback)
	}

	return &Router{mux: mux}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

func (t methodTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := t[r.Method]; ok {
		h(w, r)
		return
	}

	w.Header().Set("Allow", t.allow())
	response.Error(w, apperr.E(apperr.MethodNotAllowed, "method not supported"))
}

// allow lists the methods registered for the pattern, sorted.
func (t methodTable) allow() string {
	methods := make([]string, 0, len(t))
	for m := range t {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
