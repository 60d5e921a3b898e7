// internal/routing/router.go
//
// In-process navigation.
//
// Context
// -------
// Screens never call each other.  A completed submission asks the Router to
// navigate; the screen loop in cmd/harmony then Takes the pending route and
// mounts whatever screen is registered for it.  Friendly aliases (“/”,
// “/signup”) are rewritten to their canonical route before anything is
// recorded.
//
// Notes
// -----
// • Navigate to an unknown route is logged and ignored.
// • Safe for concurrent use; submissions settle on their own goroutines.

package routing

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Canonical routes.
const (
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteDashboard = "/dashboard"
)

// DefaultAliases maps friendly paths to canonical routes.
var DefaultAliases = map[string]string{
	"/":       RouteLogin,
	"/signin": RouteLogin,
	"/signup": RouteRegister,
	"/home":   RouteDashboard,
}

// Router records the current route, one pending navigation, and history.
type Router struct {
	mu      sync.Mutex
	known   map[string]struct{}
	aliases map[string]string
	current string
	pending string
	history []string
}

// NewRouter returns a Router positioned at start.  routes lists the
// canonical routes it accepts; aliases may be nil.
func NewRouter(start string, routes []string, aliases map[string]string) *Router {
	r := &Router{
		known:   make(map[string]struct{}, len(routes)),
		aliases: make(map[string]string, len(aliases)),
	}
	for _, rt := range routes {
		r.known[Clean(rt)] = struct{}{}
	}
	for from, to := range aliases {
		r.aliases[Clean(from)] = Clean(to)
	}
	r.current = r.resolve(start)
	r.history = []string{r.current}
	return r
}

// Resolve returns the canonical form of route and whether it is known.
func (r *Router) Resolve(route string) (string, bool) {
	canon := r.resolve(route)
	_, ok := r.known[canon]
	return canon, ok
}

func (r *Router) resolve(route string) string {
	c := Clean(route)
	if target, ok := r.aliases[c]; ok {
		return target
	}
	return c
}

// Navigate queues route as the next screen.  A later Navigate before Take
// replaces the pending route.
func (r *Router) Navigate(route string) {
	canon, ok := r.Resolve(route)
	if !ok {
		zap.L().Warn("navigate to unknown route", zap.String("route", route))
		return
	}

	r.mu.Lock()
	r.pending = canon
	r.current = canon
	r.history = append(r.history, canon)
	r.mu.Unlock()

	zap.L().Debug("navigate", zap.String("route", canon))
}

// Current returns the most recently navigated route.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Take consumes the pending navigation.  ok is false when none is queued.
func (r *Router) Take() (route string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == "" {
		return "", false
	}
	route, r.pending = r.pending, ""
	return route, true
}

// History returns every route visited, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// Clean guarantees exactly one leading slash and no trailing or duplicate
// separators.  The empty string cleans to “/”.
func Clean(route string) string {
	parts := strings.FieldsFunc(route, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.ToLower(strings.Join(parts, "/"))
}
