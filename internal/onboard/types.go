package onboard

import (
	"context"

	"github.com/Avinash0717/Nitigati/internal/profile"
)

// Transcriber converts one recorded audio chunk to text. An empty string is
// a valid result for silence or non-speech audio.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Extractor derives profile fields from the accumulated transcript. prior
// may be nil for a fresh session. Implementations must return reconciled
// results (missing recomputed from fields, question empty iff complete).
type Extractor interface {
	Extract(ctx context.Context, transcript string, prior profile.Fields) (profile.Result, error)
}

// Synthesizer converts text to audio bytes. Failures are non-fatal to a
// session.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Sender delivers one outbound event to the client. Implementations must be
// safe for concurrent use; background synthesis delivers off the main
// per-connection flow.
type Sender interface {
	Send(v any) error
}

// command is an inbound text frame. Frames that fail to decode or carry an
// unknown action are logged and ignored.
type command struct {
	Action     string `json:"action"`
	Transcript string `json:"transcript"`
}

type greetingEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type transcriptEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type analysisEvent struct {
	Type     string         `json:"type"`
	Fields   profile.Fields `json:"fields"`
	Missing  []string       `json:"missing"`
	Question string         `json:"question"`
}

type completeEvent struct {
	Type   string         `json:"type"`
	Fields profile.Fields `json:"fields"`
}

type audioEvent struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

type resetEvent struct {
	Type string `json:"type"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
