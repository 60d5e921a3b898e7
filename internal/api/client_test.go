// internal/api/client_test.go
//
// Unit-tests for the backend client against httptest servers.

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/", 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestPostJSON_SendsJSON(t *testing.T) {
	var (
		gotMethod, gotPath, gotCT, gotRID string
		gotBody                           []byte
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		gotRID = r.Header.Get(HeaderRequestID)
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	resp, err := c.PostJSON(context.Background(), PathLogin, map[string]string{
		"password": "secret1",
		"email":    "a@b.com",
	})
	if err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != PathLogin {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if gotCT != "application/json" {
		t.Fatalf("Content-Type = %q", gotCT)
	}
	if want := `{"email":"a@b.com","password":"secret1"}`; string(gotBody) != want {
		t.Fatalf("body = %s, want %s", gotBody, want)
	}
	if gotRID == "" || gotRID != resp.RequestID {
		t.Fatalf("request id %q / %q", gotRID, resp.RequestID)
	}
	if !resp.OK() || resp.Status != http.StatusCreated {
		t.Fatalf("status = %d", resp.Status)
	}
}

func TestPostJSON_NonOKIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	resp, err := c.PostJSON(context.Background(), PathLogin, map[string]string{})
	if err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if resp.OK() {
		t.Fatalf("401 reported as OK")
	}
	if msg, isJSON := ErrorMessage(resp.Body); !isJSON || msg != "Invalid credentials" {
		t.Fatalf("ErrorMessage = %q, %v", msg, isJSON)
	}
}

func TestPostJSON_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(base, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.PostJSON(context.Background(), PathRegister, map[string]string{})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathTest || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"message":"Successfully connected to Flask!"}`))
	})

	msg, err := c.Ping(context.Background())
	if err != nil || msg != "Successfully connected to Flask!" {
		t.Fatalf("Ping = %q, %v", msg, err)
	}
}

func TestPing_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Ping(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusBadGateway {
		t.Fatalf("err = %v", err)
	}
	if err.Error() != "Server error: 502" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		body   string
		msg    string
		isJSON bool
	}{
		{`{"message":"Email taken"}`, "Email taken", true},
		{`{"error":"x"}`, "", true},
		{`{"message":42}`, "", true},
		{`[1,2]`, "", true},
		{`<html>Bad Gateway</html>`, "", false},
		{``, "", false},
	}
	for _, tc := range tests {
		msg, isJSON := ErrorMessage([]byte(tc.body))
		if msg != tc.msg || isJSON != tc.isJSON {
			t.Errorf("ErrorMessage(%q) = %q, %v; want %q, %v", tc.body, msg, isJSON, tc.msg, tc.isJSON)
		}
	}
}

func TestNewWithDoer_RejectsBadScheme(t *testing.T) {
	if _, err := NewWithDoer("ftp://example.com", http.DefaultClient); err == nil {
		t.Fatalf("expected scheme error")
	}
}
