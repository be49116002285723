package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

func TestParseReply(t *testing.T) {
	cases := []struct {
		name         string
		contentType  string
		body         string
		want         string
		wantFallback bool
	}{
		{"response key", "application/json", `{"response":"hi"}`, "hi", false},
		{"key order", "application/json; charset=utf-8", `{"reply":"r","text":"t","message":"m"}`, "m", false},
		{"empty key skipped", "application/json", `{"response":"","text":"t"}`, "t", false},
		{"json string", "application/json", `"plain answer"`, "plain answer", false},
		{"no known key", "application/json", `{"output":"x"}`, NoAnswerReply, true},
		{"non-string value", "application/json", `{"response":42}`, NoAnswerReply, true},
		{"empty json body", "application/json", "  \n", EmptyJSONReply, true},
		{"broken json", "application/json", `{"response":`, UnparsableReply, true},
		{"raw text", "text/plain", "just text", "just text", false},
		{"no content type", "", "just text", "just text", false},
		{"empty text", "text/plain", "", EmptyTextReply, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, fallback := ParseReply(tc.contentType, []byte(tc.body))
			if got != tc.want || fallback != tc.wantFallback {
				t.Fatalf("ParseReply = %q, %v; want %q, %v", got, fallback, tc.want, tc.wantFallback)
			}
		})
	}
}

func TestSendQueryParameters(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"hello back"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/webhook/optivus-chat", 0, nil)
	c.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.FixedZone("X", 3600)) }

	reply, err := c.Send(context.Background(), Sender{ID: "1b4e28ba-2fa1-11d2", Email: "ada@example.com"}, "hello?")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "hello back" || reply.Fallback {
		t.Fatalf("reply = %+v", reply)
	}

	if got.Get("message") != "hello?" {
		t.Errorf("message = %q", got.Get("message"))
	}
	if got.Get("userId") != "1b4e28ba_2fa1_11d2" {
		t.Errorf("userId = %q", got.Get("userId"))
	}
	if got.Get("userEmail") != "ada@example.com" {
		t.Errorf("userEmail = %q", got.Get("userEmail"))
	}
	if got.Get("timestamp") != "2024-05-06T06:08:09.123Z" {
		t.Errorf("timestamp = %q", got.Get("timestamp"))
	}
}

func TestSendAnonymous(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	if _, err := New(srv.URL, 0, nil).Send(context.Background(), Sender{}, "hi"); err != nil {
		t.Fatal(err)
	}
	if got.Get("userId") != "anonymous" || got.Get("userEmail") != "anonymous@example.com" {
		t.Fatalf("query = %v", got)
	}
}

func TestSendFallbackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	reply, err := New(srv.URL, 0, nil).Send(context.Background(), Sender{}, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != UnreachableReply || !reply.Fallback {
		t.Fatalf("reply = %+v", reply)
	}

	srv.Close()
	reply, err = New(srv.URL, 0, nil).Send(context.Background(), Sender{}, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != UnreachableReply {
		t.Fatalf("reply after close = %+v", reply)
	}
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	c := New("http://127.0.0.1:1", 0, nil)
	for _, msg := range []string{"", "   ", "\n\t"} {
		if _, err := c.Send(context.Background(), Sender{}, msg); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q) err = %v", msg, err)
		}
	}
}

func TestSendRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(srv.URL, 2, nil)
	ctx := context.Background()
	ada := Sender{ID: "ada"}

	for i := 0; i < 2; i++ {
		if _, err := c.Send(ctx, ada, "hi"); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
	}
	if _, err := c.Send(ctx, ada, "hi"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("third message: err = %v", err)
	}
	if _, err := c.Send(ctx, Sender{ID: "bob"}, "hi"); err != nil {
		t.Fatalf("other sender limited: %v", err)
	}
}

func TestRateLimitConcurrentSenders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(srv.URL, 5, nil)
	defer c.Close()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Send(ctx, Sender{ID: "ada"}, "hi"); err == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if allowed != 5 {
		t.Fatalf("%d messages allowed, want 5", allowed)
	}
}

func TestCloseStopsLimiting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(srv.URL, 1, nil)
	c.Close()
	c.Close()
	for i := 0; i < 3; i++ {
		if _, err := c.Send(context.Background(), Sender{ID: "ada"}, "hi"); err != nil {
			t.Fatalf("message %d after close: %v", i, err)
		}
	}
}
