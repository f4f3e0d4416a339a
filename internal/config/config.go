package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress    string
	WSAuthPassword string

	WhisperURL   string
	WhisperModel string

	OllamaURL   string
	OllamaModel string

	DeepgramAPIKey string
	DeepgramModel  string

	ElevenLabsKey     string
	ElevenLabsVoiceID string

	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using process environment")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	whisperURL := os.Getenv("WHISPER_URL")
	if whisperURL == "" {
		whisperURL = "http://localhost:9000"
		log.Println("WHISPER_URL not set - defaulting to http://localhost:9000")
	}
	whisperModel := os.Getenv("WHISPER_MODEL")
	if whisperModel == "" {
		whisperModel = "base"
	}

	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
		log.Println("OLLAMA_URL not set - defaulting to http://localhost:11434")
	}
	ollamaModel := os.Getenv("OLLAMA_MODEL")
	if ollamaModel == "" {
		ollamaModel = "gemma3:1b"
	}

	deepgramKey := os.Getenv("DEEPGRAM_API_KEY")
	elevenKey := os.Getenv("ELEVENLABS_API_KEY")
	if deepgramKey == "" && elevenKey == "" {
		log.Println("Warning: neither DEEPGRAM_API_KEY nor ELEVENLABS_API_KEY set - spoken follow-ups will be silent")
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		log.Println("Warning: SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY not set - provider registration disabled")
	}
	bucket := os.Getenv("SUPABASE_BUCKET")
	if bucket == "" {
		bucket = "provider-media"
	}

	log.Printf("config: HTTP_ADDRESS=%s", addr)
	return Config{
		HTTPAddress:        addr,
		WSAuthPassword:     os.Getenv("WS_AUTH_PASSWORD"),
		WhisperURL:         whisperURL,
		WhisperModel:       whisperModel,
		OllamaURL:          ollamaURL,
		OllamaModel:        ollamaModel,
		DeepgramAPIKey:     deepgramKey,
		DeepgramModel:      os.Getenv("DEEPGRAM_MODEL"),
		ElevenLabsKey:      elevenKey,
		ElevenLabsVoiceID:  os.Getenv("ELEVENLABS_VOICE_ID"),
		SupabaseURL:        supabaseURL,
		SupabaseServiceKey: supabaseKey,
		SupabaseBucket:     bucket,
	}
}
