package onboard

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"strings"
)

// minAudioBytes: chunks at or below this size are treated as noise/silence
// and skipped without transcription.
const minAudioBytes = 500

const greetingText = "Hi there! Tell me about yourself — your name, age, " +
	"what you do, and any skills you have. Just speak naturally."

const noSpeechMessage = "No speech detected yet. Please try speaking again."

// Controller drives the conversational loop for one connection: it owns the
// Session, calls the engines in order, and emits server events through the
// delivery guard. Handle* methods are invoked sequentially by the connection
// read loop, so a second analyze arriving while one is in flight simply runs
// after it rather than racing it.
type Controller struct {
	sess *Session
	stt  Transcriber
	ext  Extractor
	tts  Synthesizer
	send Sender
}

func NewController(id string, stt Transcriber, ext Extractor, tts Synthesizer, send Sender) *Controller {
	return &Controller{sess: newSession(id), stt: stt, ext: ext, tts: tts, send: send}
}

func (c *Controller) Session() *Session { return c.sess }

// Greet sends the fixed welcome text and spawns its synthesis. A synthesis
// failure must not abort the connection; the text event has already gone out.
func (c *Controller) Greet() {
	c.safeSend(greetingEvent{Type: "greeting", Text: greetingText})
	c.spawnSynthesis(greetingText)
}

// HandleAudio transcribes one binary chunk and appends the result to the
// session transcript. Empty transcriptions and engine failures degrade to
// silence: no event, no error.
func (c *Controller) HandleAudio(ctx context.Context, chunk []byte) {
	if len(chunk) <= minAudioBytes {
		return
	}
	log.Printf("[%s] audio chunk: %d bytes", c.sess.ID, len(chunk))
	text, err := c.stt.Transcribe(ctx, chunk)
	if err != nil {
		log.Printf("[%s] transcription error: %v", c.sess.ID, err)
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	c.sess.appendTranscript(text)
	c.safeSend(transcriptEvent{Type: "transcript", Text: text})
}

// HandleText dispatches one inbound command frame. Malformed frames are
// logged and ignored.
func (c *Controller) HandleText(ctx context.Context, raw []byte) {
	var cmd command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		log.Printf("[%s] ignoring invalid frame: %v", c.sess.ID, err)
		return
	}
	switch cmd.Action {
	case "analyze":
		c.runAnalysis(ctx)
	case "re_analyze":
		// A user-edited transcript is ground truth: replace wholesale and
		// clear fields so the next extraction starts from scratch.
		log.Printf("[%s] re_analyze with edited transcript (%d chars)", c.sess.ID, len(cmd.Transcript))
		c.sess.replaceTranscript(cmd.Transcript)
		c.sess.setFields(nil)
		c.runAnalysis(ctx)
	case "reset":
		c.sess.reset()
		log.Printf("[%s] session reset", c.sess.ID)
		c.safeSend(resetEvent{Type: "reset"})
	default:
		log.Printf("[%s] ignoring frame with action %q", c.sess.ID, cmd.Action)
	}
}

// runAnalysis runs one extraction over the accumulated transcript and emits
// either a complete event or an analysis event with a spoken follow-up.
func (c *Controller) runAnalysis(ctx context.Context) {
	transcript := c.sess.Transcript()
	if strings.TrimSpace(transcript) == "" {
		c.safeSend(errorEvent{Type: "error", Message: noSpeechMessage})
		return
	}

	log.Printf("[%s] extraction starting (transcript: %d chars)", c.sess.ID, len(transcript))
	res, err := c.ext.Extract(ctx, transcript, c.sess.Fields())
	if err != nil {
		log.Printf("[%s] extraction failed: %v", c.sess.ID, err)
		c.safeSend(errorEvent{Type: "error", Message: "Analysis failed: " + err.Error()})
		return
	}

	c.sess.setFields(res.Fields)
	if res.Complete() {
		log.Printf("[%s] all required fields present", c.sess.ID)
		c.safeSend(completeEvent{Type: "complete", Fields: res.Fields})
		return
	}

	log.Printf("[%s] missing: %v", c.sess.ID, res.Missing)
	c.safeSend(analysisEvent{Type: "analysis", Fields: res.Fields, Missing: res.Missing, Question: res.Question})
	if res.Question != "" {
		c.spawnSynthesis(res.Question)
	}
}

// spawnSynthesis runs text-to-speech as a tracked background task so the
// conversational loop never blocks on audio. Cancellation (disconnect) and
// synthesis failure both terminate silently; results arriving after
// disconnect are dropped by the delivery guard.
func (c *Controller) spawnSynthesis(text string) {
	ctx, cancel := context.WithCancel(context.Background())
	id := c.sess.registerTask(cancel)
	go func() {
		defer cancel()
		defer c.sess.deregisterTask(id)

		audio, err := c.tts.Synthesize(ctx, text)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("[%s] synthesis error: %v", c.sess.ID, err)
			return
		}
		if len(audio) == 0 || !c.sess.Connected() {
			return
		}
		c.safeSend(audioEvent{Type: "audio", Data: base64.StdEncoding.EncodeToString(audio)})
	}()
}

// safeSend is the single outbound gate: it no-ops once the session is
// disconnected and swallows transport failures so a broken peer never
// crashes the loop.
func (c *Controller) safeSend(v any) {
	if !c.sess.Connected() {
		return
	}
	if err := c.send.Send(v); err != nil {
		log.Printf("[%s] send failed: %v", c.sess.ID, err)
	}
}

// Close begins teardown: further sends are suppressed and every live
// background task is cancelled.
func (c *Controller) Close() {
	c.sess.disconnect()
}
