package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeepgram_Synthesize_NoKey(t *testing.T) {
	d := NewDeepgramClient("", "")
	if _, err := d.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}

func TestDeepgram_Synthesize_EmptyText(t *testing.T) {
	d := NewDeepgramClient("key", "")
	audio, err := d.Synthesize(context.Background(), "")
	if err != nil {
		t.Fatalf("expected nil error for empty text, got %v", err)
	}
	if audio != nil {
		t.Fatalf("expected no audio for empty text")
	}
}

func TestElevenLabs_Synthesize_NoKey(t *testing.T) {
	e := NewElevenLabsClient("", "")
	if _, err := e.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}

func TestElevenLabs_Synthesize_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "key" {
			t.Errorf("expected api key header")
		}
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	e := NewElevenLabsClient("key", "voice")
	e.BaseURL = srv.URL
	audio, err := e.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Fatalf("unexpected audio payload %q", audio)
	}
}

func TestElevenLabs_Synthesize_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		_, _ = w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	e := NewElevenLabsClient("key", "voice")
	e.BaseURL = srv.URL
	if _, err := e.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}
