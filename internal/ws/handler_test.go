package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Avinash0717/Nitigati/internal/config"
	"github.com/Avinash0717/Nitigati/internal/profile"
)

func TestAuthOK(t *testing.T) {
	if authOK(nil, "") {
		t.Fatalf("expected false with empty password")
	}
	r := httptest.NewRequest(http.MethodGet, "/?password=secret", nil)
	if !authOK(r, "secret") {
		t.Fatalf("expected true with query password")
	}
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.Header.Set("X-Auth-Token", "tok")
	if !authOK(r2, "tok") {
		t.Fatalf("expected true with X-Auth-Token")
	}
	r3 := httptest.NewRequest(http.MethodGet, "/", nil)
	r3.Header.Set("Authorization", "bearer abc")
	if !authOK(r3, "abc") {
		t.Fatalf("expected true with lowercase bearer prefix")
	}
	r4 := httptest.NewRequest(http.MethodGet, "/?password=wrong", nil)
	if authOK(r4, "secret") {
		t.Fatalf("expected false with wrong password")
	}
}

func TestServeWebSocket_Unauthorized(t *testing.T) {
	h := NewHandler(config.Config{WSAuthPassword: "secret"})
	r := httptest.NewRequest(http.MethodGet, "/ws/onboarding", nil)
	w := httptest.NewRecorder()
	h.ServeWebSocket(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

type staticTranscriber struct{ text string }

func (s staticTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return s.text, nil
}

type staticExtractor struct{ res profile.Result }

func (s staticExtractor) Extract(ctx context.Context, transcript string, prior profile.Fields) (profile.Result, error) {
	return s.res, nil
}

type staticSynth struct{ audio []byte }

func (s staticSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return s.audio, nil
}

// readEvent decodes frames until one of the wanted types arrives. Audio
// events may interleave arbitrarily with newer events, so callers skip what
// they are not asserting on.
func readEvent(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev map[string]any
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event: %v", err)
		}
		if ev["type"] == want {
			return ev
		}
	}
	t.Fatalf("event %q not observed", want)
	return nil
}

func TestServeWebSocket_ConversationLoop(t *testing.T) {
	h := NewHandler(config.Config{})
	h.stt = staticTranscriber{text: "I'm Raj, 29, carpenter"}
	h.ext = staticExtractor{res: profile.Result{
		Fields:   profile.Fields{"name": "Raj", "age": float64(29), "gender": nil, "skills": []any{"carpentry"}},
		Missing:  []string{"gender"},
		Question: "What is your gender?",
	}}
	h.tts = staticSynth{audio: []byte("mp3")}

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	greeting := readEvent(t, conn, "greeting")
	if greeting["text"] == "" {
		t.Fatalf("expected greeting text")
	}

	// Analyze before any speech: error event, session stays open.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"analyze"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	readEvent(t, conn, "error")

	// An audio chunk above the silence threshold produces a transcript event.
	if err := conn.WriteMessage(websocket.BinaryMessage, make([]byte, 1024)); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	te := readEvent(t, conn, "transcript")
	if te["text"] != "I'm Raj, 29, carpenter" {
		t.Fatalf("unexpected transcript %v", te["text"])
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"analyze"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	an := readEvent(t, conn, "analysis")
	if an["question"] != "What is your gender?" {
		t.Fatalf("unexpected analysis %v", an)
	}
	audio := readEvent(t, conn, "audio")
	if audio["data"] == "" {
		t.Fatalf("expected base64 audio data")
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"reset"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	readEvent(t, conn, "reset")
}
