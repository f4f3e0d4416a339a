package ws

import (
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Avinash0717/Nitigati/internal/config"
	"github.com/Avinash0717/Nitigati/internal/extract"
	"github.com/Avinash0717/Nitigati/internal/onboard"
	"github.com/Avinash0717/Nitigati/internal/transcript"
	"github.com/Avinash0717/Nitigati/internal/tts"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  65536,
	WriteBufferSize: 65536,
	CheckOrigin: func(r *http.Request) bool {
		// Allow any origin for demo use; restrict in production
		return true
	},
}

// Handler upgrades onboarding websocket connections and wires each one to a
// ConversationController. The engine clients are process-wide and built
// lazily on first use; construction is guarded so concurrent first
// connections initialize them exactly once.
type Handler struct {
	cfg config.Config

	once sync.Once
	stt  onboard.Transcriber
	ext  onboard.Extractor
	tts  onboard.Synthesizer
}

func NewHandler(cfg config.Config) *Handler { return &Handler{cfg: cfg} }

// engines builds the shared engine clients on first call. Fields already set
// (tests inject fakes) are left alone.
func (h *Handler) engines() {
	h.once.Do(func() {
		if h.stt == nil {
			h.stt = transcript.NewWhisperClient(h.cfg.WhisperURL, h.cfg.WhisperModel)
		}
		if h.ext == nil {
			h.ext = extract.NewOllamaClient(h.cfg.OllamaURL, h.cfg.OllamaModel)
		}
		if h.tts == nil {
			if h.cfg.DeepgramAPIKey == "" && h.cfg.ElevenLabsKey != "" {
				h.tts = tts.NewElevenLabsClient(h.cfg.ElevenLabsKey, h.cfg.ElevenLabsVoiceID)
			} else {
				h.tts = tts.NewDeepgramClient(h.cfg.DeepgramAPIKey, h.cfg.DeepgramModel)
			}
		}
	})
}

// ServeWebSocket upgrades the request and runs the connection's read loop:
// binary frames are audio chunks, text frames are commands. The loop exits
// on the first read error, which triggers session teardown.
func (h *Handler) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.cfg.WSAuthPassword != "" && !authOK(r, h.cfg.WSAuthPassword) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	h.engines()

	sessionID := uuid.NewString()[:8]
	ctrl := onboard.NewController(sessionID, h.stt, h.ext, h.tts, newConnSender(conn))
	log.Printf("[%s] websocket connected from %s", sessionID, r.RemoteAddr)
	defer func() {
		ctrl.Close()
		log.Printf("[%s] websocket disconnected", sessionID)
	}()

	ctrl.Greet()

	for {
		mt, data, rerr := conn.ReadMessage()
		if rerr != nil {
			if !websocket.IsCloseError(rerr, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[%s] ws read error: %v", sessionID, rerr)
			}
			return
		}
		switch mt {
		case websocket.BinaryMessage:
			ctrl.HandleAudio(r.Context(), data)
		case websocket.TextMessage:
			ctrl.HandleText(r.Context(), data)
		}
	}
}

// authOK accepts the password via ?password=, Authorization: Bearer, or
// X-Auth-Token.
func authOK(r *http.Request, password string) bool {
	if r == nil || password == "" {
		return false
	}
	if q := r.URL.Query().Get("password"); q != "" && q == password {
		return true
	}
	ah := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		if tok := strings.TrimSpace(ah[len("Bearer "):]); tok == password {
			return true
		}
	}
	if x := r.Header.Get("X-Auth-Token"); x != "" && x == password {
		return true
	}
	return false
}

// connSender serializes writes; the controller's background synthesis tasks
// deliver concurrently with the read loop's own sends.
type connSender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newConnSender(conn *websocket.Conn) *connSender { return &connSender{conn: conn} }

func (s *connSender) Send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}
