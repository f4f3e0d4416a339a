package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// WhisperClient talks to a faster-whisper server exposing the
// OpenAI-compatible /v1/audio/transcriptions endpoint. Transcription is
// best-effort: silence or non-speech audio yields an empty string, not an
// error.
type WhisperClient struct {
	HTTPClient *http.Client
	BaseURL    string
	Model      string
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func NewWhisperClient(baseURL, model string) *WhisperClient {
	if model == "" {
		model = "base"
	}
	return &WhisperClient{
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      model,
	}
}

// Transcribe sends one webm-encoded audio chunk and returns the recognized
// text, trimmed. An empty result is a valid outcome.
func (w *WhisperClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if w.BaseURL == "" {
		return "", fmt.Errorf("whisper: base URL missing")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "chunk.webm")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	_ = mw.WriteField("model", w.Model)
	_ = mw.WriteField("language", "en")
	_ = mw.WriteField("response_format", "json")
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := w.BaseURL + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("whisper error: status=%d body=%s", resp.StatusCode, string(b))
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	return strings.TrimSpace(tr.Text), nil
}
