package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New("")
	if !errors.Is(err, ErrNoBaseURL) {
		t.Errorf("New(\"\") error = %v, want ErrNoBaseURL", err)
	}
}

func TestChatStreamEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1/chat" {
			t.Errorf("path = %s, want /v1/chat", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		want := `{"messages":[{"role":"user","content":"hi there"}],"stream":true}`
		if string(body) != want {
			t.Errorf("request body = %s, want %s", body, want)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		// Split a unit across two writes to exercise buffering.
		_, _ = io.WriteString(w, `data: {"response":"hel`)
		flusher.Flush()
		_, _ = io.WriteString(w, "lo\"}\n")
		_, _ = io.WriteString(w, ": keep-alive\n")
		_, _ = io.WriteString(w, "data: {\"response\":\" world\"}\n")
		_, _ = io.WriteString(w, "data: [DONE]\n")
		flusher.Flush()
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	var units []StreamResponse
	err = c.ChatStream(context.Background(), "hi there", func(r StreamResponse) error {
		units = append(units, r)
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream error: %v", err)
	}

	want := []StreamResponse{{Text: "hello"}, {Text: " world"}, {Done: true}}
	if !reflect.DeepEqual(units, want) {
		t.Errorf("units = %#v, want %#v", units, want)
	}
}

func TestChatStreamServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithAPIKey("bad-key"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	calls := 0
	err = c.ChatStream(context.Background(), "hi", func(StreamResponse) error {
		calls++
		return nil
	})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want %d", reqErr.Status, http.StatusForbidden)
	}
	if calls != 0 {
		t.Errorf("callback invoked %d times on error response", calls)
	}
}

func TestChatStreamConnectionRefused(t *testing.T) {
	c, err := New("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	err = c.ChatStream(context.Background(), "hi", func(StreamResponse) error { return nil })

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.Err == nil {
		t.Error("expected wrapped transport error")
	}
}

func TestChatStreamCallbackAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "data: {\"response\":\"A\"}\ndata: {\"response\":\"B\"}\n")
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	stop := errors.New("stop")
	var seen []string
	err = c.ChatStream(context.Background(), "hi", func(r StreamResponse) error {
		seen = append(seen, r.Text)
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("error = %v, want stop", err)
	}
	if len(seen) != 1 || seen[0] != "A" {
		t.Errorf("seen = %v, want [A]", seen)
	}
}

func TestChatStreamNoSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "data: {\"response\":\"partial\"}\n")
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	var units []StreamResponse
	err = c.ChatStream(context.Background(), "hi", func(r StreamResponse) error {
		units = append(units, r)
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream error: %v", err)
	}

	// Transport closure is the end signal; no done unit is synthesized.
	want := []StreamResponse{{Text: "partial"}}
	if !reflect.DeepEqual(units, want) {
		t.Errorf("units = %#v, want %#v", units, want)
	}
}

func TestChatStreamOutlivesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		// Keep the stream alive well past the client timeout, with
		// chunks always arriving.
		for i := 0; i < 8; i++ {
			_, _ = io.WriteString(w, "data: {\"response\":\"x\"}\n")
			flusher.Flush()
			time.Sleep(80 * time.Millisecond)
		}
		_, _ = io.WriteString(w, "data: [DONE]\n")
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithTimeout(300*time.Millisecond))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	var units int
	var done bool
	err = c.ChatStream(context.Background(), "hi", func(r StreamResponse) error {
		units++
		done = done || r.Done
		return nil
	})
	if err != nil {
		t.Fatalf("ChatStream error on an active stream: %v", err)
	}
	if units != 9 {
		t.Errorf("units = %d, want 9", units)
	}
	if !done {
		t.Error("done sentinel never arrived")
	}
}

func TestChatStreamSlowResponseHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = io.WriteString(w, "data: [DONE]\n")
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	err = c.ChatStream(context.Background(), "hi", func(StreamResponse) error { return nil })

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.Err == nil {
		t.Error("expected wrapped transport error")
	}
}

func TestChatBufferedTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = io.WriteString(w, `{"response":"late"}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	_, err = c.Chat(context.Background(), "hi")

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
}

func TestWithTimeoutKeepsCustomHTTPClient(t *testing.T) {
	custom := &http.Client{}

	c, err := New("http://localhost:3000", WithHTTPClient(custom), WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if c.httpClient != custom {
		t.Error("WithTimeout after WithHTTPClient replaced the custom client")
	}

	c, err = New("http://localhost:3000", WithTimeout(time.Second), WithHTTPClient(custom))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if c.httpClient != custom {
		t.Error("WithHTTPClient after WithTimeout was not kept")
	}
}

func TestChatBuffered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		want := `{"messages":[{"role":"user","content":"hi"}],"stream":false}`
		if string(body) != want {
			t.Errorf("request body = %s, want %s", body, want)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"response":"buffered answer"}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	got, err := c.Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if got != "buffered answer" {
		t.Errorf("Chat = %q", got)
	}
}

func TestChatBufferedFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "plain text body")
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	got, err := c.Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if got != "plain text body" {
		t.Errorf("Chat = %q", got)
	}
}
