// internal/routing/router_test.go
//
// Unit-tests for the navigation Router.

package routing

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var allRoutes = []string{RouteLogin, RouteRegister, RouteDashboard}

func TestClean(t *testing.T) {
	tests := map[string]string{
		"":           "/",
		"/":          "/",
		"login":      "/login",
		"//Login/":   "/login",
		"/a//b/":     "/a/b",
		"/dashboard": "/dashboard",
	}
	for in, want := range tests {
		if got := Clean(in); got != want {
			t.Errorf("Clean(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNavigateAndTake(t *testing.T) {
	r := NewRouter("/", allRoutes, DefaultAliases)
	if r.Current() != RouteLogin {
		t.Fatalf("start = %q", r.Current())
	}
	if _, ok := r.Take(); ok {
		t.Fatalf("pending navigation on a fresh router")
	}

	r.Navigate(RouteDashboard)
	if got, ok := r.Take(); !ok || got != RouteDashboard {
		t.Fatalf("Take = %q, %v", got, ok)
	}
	if _, ok := r.Take(); ok {
		t.Fatalf("Take returned the same navigation twice")
	}
	if r.Current() != RouteDashboard {
		t.Fatalf("current = %q", r.Current())
	}
}

func TestNavigate_Alias(t *testing.T) {
	r := NewRouter(RouteLogin, allRoutes, DefaultAliases)
	r.Navigate("/signup/")
	if got, _ := r.Take(); got != RouteRegister {
		t.Fatalf("alias resolved to %q", got)
	}
}

func TestNavigate_UnknownIgnored(t *testing.T) {
	r := NewRouter(RouteLogin, allRoutes, nil)
	r.Navigate("/nowhere")
	if _, ok := r.Take(); ok {
		t.Fatalf("unknown route queued")
	}
	if diff := cmp.Diff([]string{RouteLogin}, r.History()); diff != "" {
		t.Fatalf("history (-want +got):\n%s", diff)
	}
}

func TestHistory(t *testing.T) {
	r := NewRouter(RouteRegister, allRoutes, nil)
	r.Navigate(RouteLogin)
	r.Navigate(RouteDashboard)
	want := []string{RouteRegister, RouteLogin, RouteDashboard}
	if diff := cmp.Diff(want, r.History()); diff != "" {
		t.Fatalf("history (-want +got):\n%s", diff)
	}
}

func TestNavigate_Concurrent(t *testing.T) {
	r := NewRouter(RouteLogin, allRoutes, nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Navigate(RouteDashboard)
		}()
	}
	wg.Wait()
	if len(r.History()) != 21 {
		t.Fatalf("history len = %d", len(r.History()))
	}
}
