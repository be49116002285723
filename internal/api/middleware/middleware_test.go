package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/rohits-web03/optivus/internal/auth"
)

func TestLoggerTagsRequest(t *testing.T) {
	var buf bytes.Buffer
	lg := log.New(&buf)

	var seen *log.Logger
	h := Logger(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = LoggerFrom(r.Context(), nil)
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") != "req-42" {
		t.Fatalf("request id = %q", rec.Header().Get("X-Request-ID"))
	}
	if seen == nil {
		t.Fatal("no request logger in context")
	}
	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") || !strings.Contains(out, "status=418") {
		t.Fatalf("log line = %q", out)
	}
}

func TestLoggerGeneratesID(t *testing.T) {
	h := Logger(log.New(&bytes.Buffer{}))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	h := Recover(log.New(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Fatal("panic not logged")
	}
}

func TestTokenFrom(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if tokenFrom(req) != "" {
		t.Fatal("expected no token")
	}
	req.Header.Set("Authorization", "Bearer abc")
	if tokenFrom(req) != "abc" {
		t.Fatal("bearer token not read")
	}
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie"})
	if tokenFrom(req) != "cookie" {
		t.Fatal("cookie should win over the header")
	}
}

func TestRequireSessionRejects(t *testing.T) {
	provider := auth.NewProvider(auth.Options{Signer: auth.NewSigner("s")})
	called := false
	h := RequireSession(provider, log.New(&bytes.Buffer{}))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("status = %d, called = %v", rec.Code, called)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/files", nil))
	if !called {
		t.Fatal("preflight should pass through")
	}
}
