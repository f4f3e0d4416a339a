package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWhisper_TranscribeTrimsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("model") != "base" {
			t.Errorf("expected model field, got %q", r.FormValue("model"))
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file part missing: %v", err)
		} else {
			_ = f.Close()
			if hdr.Filename != "chunk.webm" {
				t.Errorf("unexpected filename %q", hdr.Filename)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "  hello there  "}`))
	}))
	defer srv.Close()

	c := NewWhisperClient(srv.URL, "")
	got, err := c.Transcribe(context.Background(), []byte("fake-webm"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("expected trimmed text, got %q", got)
	}
}

func TestWhisper_EmptyTextIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text": ""}`))
	}))
	defer srv.Close()

	c := NewWhisperClient(srv.URL, "base")
	got, err := c.Transcribe(context.Background(), []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("expected nil error for empty text, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestWhisper_Failures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status_non_2xx", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500); _, _ = w.Write([]byte("oops")) }},
		{"bad_json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not-json")) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c := NewWhisperClient(srv.URL, "base")
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if _, err := c.Transcribe(ctx, []byte{1}); err == nil {
				t.Fatalf("expected error; got nil")
			}
		})
	}
}

func TestWhisper_NoBaseURL(t *testing.T) {
	c := NewWhisperClient("", "base")
	if _, err := c.Transcribe(context.Background(), []byte{1}); err == nil {
		t.Fatalf("expected error with missing base URL")
	}
}
