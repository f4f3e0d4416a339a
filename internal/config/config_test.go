package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	os.Setenv("HTTP_ADDRESS", "")
	os.Setenv("WHISPER_URL", "")
	os.Setenv("OLLAMA_MODEL", "")
	os.Setenv("SUPABASE_BUCKET", "")
	cfg := Load()
	if cfg.HTTPAddress == "" {
		t.Fatalf("expected default http address")
	}
	if cfg.WhisperURL == "" {
		t.Fatalf("expected default whisper url")
	}
	if cfg.OllamaModel == "" {
		t.Fatalf("expected default ollama model")
	}
	if cfg.SupabaseBucket == "" {
		t.Fatalf("expected default supabase bucket")
	}
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("HTTP_ADDRESS", ":9999")
	os.Setenv("OLLAMA_MODEL", "llama3:8b")
	defer os.Unsetenv("HTTP_ADDRESS")
	defer os.Unsetenv("OLLAMA_MODEL")
	cfg := Load()
	if cfg.HTTPAddress != ":9999" {
		t.Fatalf("expected override address, got %s", cfg.HTTPAddress)
	}
	if cfg.OllamaModel != "llama3:8b" {
		t.Fatalf("expected override model, got %s", cfg.OllamaModel)
	}
}
