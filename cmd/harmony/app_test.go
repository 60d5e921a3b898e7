// cmd/harmony/app_test.go
//
// End-to-end screen loop tests: httptest backend, scripted prompts.

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/harmony/harcloud/internal/api"
	"github.com/harmony/harcloud/internal/form"
	"github.com/harmony/harcloud/internal/logger"
	"github.com/harmony/harcloud/internal/message"
	"github.com/harmony/harcloud/internal/routing"
	"github.com/harmony/harcloud/internal/screen"
)

type stubDriver struct {
	inputs    []string
	passwords []string
	selects   []int
	infos     []string
}

func (s *stubDriver) Input(context.Context, screen.InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := s.inputs[0]
	s.inputs = s.inputs[1:]
	return v, nil
}

func (s *stubDriver) Password(context.Context, screen.InputConfig) (string, error) {
	if len(s.passwords) == 0 {
		return "", errors.New("no password scripted")
	}
	v := s.passwords[0]
	s.passwords = s.passwords[1:]
	return v, nil
}

func (s *stubDriver) Select(context.Context, screen.SelectConfig) (int, error) {
	if len(s.selects) == 0 {
		return 0, screen.ErrAborted
	}
	v := s.selects[0]
	s.selects = s.selects[1:]
	return v, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

type requestLog struct {
	mu    sync.Mutex
	paths []string
}

func (l *requestLog) add(p string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = append(l.paths, p)
}

func (l *requestLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

func newBackend(t *testing.T) (*api.Client, *requestLog) {
	t.Helper()
	paths := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths.add(r.Method + " " + r.URL.Path)
		switch r.URL.Path {
		case api.PathTest:
			_, _ = io.WriteString(w, `{"message":"Successfully connected to Flask!"}`)
		case api.PathRegister:
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":1}`)
		case api.PathLogin:
			_, _ = io.WriteString(w, `{"token":"t"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	c, err := api.NewClient(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := form.RegisterBuiltin(); err != nil {
		t.Fatal(err)
	}
	return c, paths
}

func TestStartRoute(t *testing.T) {
	for cmd, want := range map[string]string{
		"":         routing.RouteLogin,
		"status":   routing.RouteLogin,
		"login":    routing.RouteLogin,
		"register": routing.RouteRegister,
	} {
		if got, err := startRoute(cmd); err != nil || got != want {
			t.Errorf("startRoute(%q) = %q, %v", cmd, got, err)
		}
	}
	if _, err := startRoute("upload"); err == nil {
		t.Errorf("expected error for unknown command")
	}
}

func TestRun_StatusOnly(t *testing.T) {
	client, paths := newBackend(t)
	drv := &stubDriver{}
	a := &app{client: client, driver: drv, printer: message.NewPrinter(io.Discard)}

	if err := a.run(context.Background(), routing.RouteLogin, true); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Backend Status: Successfully connected to Flask!"}, drv.infos); diff != "" {
		t.Fatalf("infos (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"GET /api/test"}, paths.all()); diff != "" {
		t.Fatalf("requests (-want +got):\n%s", diff)
	}
}

func TestRun_RegisterLoginDashboard(t *testing.T) {
	client, paths := newBackend(t)
	var out bytes.Buffer
	drv := &stubDriver{
		inputs:    []string{"Ann Lee", "ann@x.io", "ann@x.io"},
		passwords: []string{"Password1", "Password1", "Password1"},
	}
	a := &app{client: client, driver: drv, printer: message.NewPrinter(&out)}

	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core).Sugar())
	if err := a.run(ctx, routing.RouteRegister, false); err != nil {
		t.Fatal(err)
	}

	ended := logs.FilterMessage("session ended").All()
	if len(ended) != 1 {
		t.Fatalf("session ended logged %d times", len(ended))
	}
	wantRoutes := []any{routing.RouteRegister, routing.RouteLogin, routing.RouteDashboard}
	if diff := cmp.Diff(wantRoutes, ended[0].ContextMap()["routes"]); diff != "" {
		t.Fatalf("route history (-want +got):\n%s", diff)
	}

	want := []string{"GET /api/test", "POST /api/register", "POST /api/login"}
	if diff := cmp.Diff(want, paths.all()); diff != "" {
		t.Fatalf("requests (-want +got):\n%s", diff)
	}
	if last := drv.infos[len(drv.infos)-1]; last != "Supported: JPG, PNG • Max: 5MB" {
		t.Fatalf("dashboard not shown, last info %q", last)
	}
	if !bytes.Contains(out.Bytes(), []byte("Account created! Redirecting to login...")) {
		t.Fatalf("success notice missing:\n%s", out.String())
	}
}

func TestRun_PingFailureStillPrintsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	client, err := api.NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	drv := &stubDriver{}
	a := &app{client: client, driver: drv, printer: message.NewPrinter(io.Discard)}

	if err := a.run(context.Background(), routing.RouteLogin, true); err != nil {
		t.Fatal(err)
	}
	if drv.infos[0] != "Backend Connection Error: Server error: 503" {
		t.Fatalf("status = %q", drv.infos[0])
	}
}

func TestRun_QuitIsClean(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == api.PathLogin {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"message":"up"}`)
	}))
	t.Cleanup(srv.Close)
	client, err := api.NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := form.RegisterBuiltin(); err != nil {
		t.Fatal(err)
	}
	drv := &stubDriver{inputs: []string{"a@b.com"}, passwords: []string{"secret1"}, selects: []int{2}}
	a := &app{client: client, driver: drv, printer: message.NewPrinter(io.Discard)}

	if err := a.run(context.Background(), routing.RouteLogin, false); err != nil {
		t.Fatalf("run: %v", err)
	}
}
