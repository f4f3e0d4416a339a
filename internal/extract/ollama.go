package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Avinash0717/Nitigati/internal/profile"
)

const systemPrompt = `You are an AI assistant that extracts structured profile information from a person's spoken description of themselves.

Given a transcript, extract as many of the following fields as possible:
- name (string)
- age (integer)
- gender (string: male/female/other)
- location (string: city or area)
- phone_number (string)
- email (string)
- skills (array of strings: explicit and implied/related skills)

For the "skills" field, be generous - extract both explicitly stated skills AND strongly implied ones.
For example, if someone says "I manage newer carpenters", infer skills like:
  carpentry, woodworking, team management, leadership, mentoring, training,
  project coordination, quality control, craftsmanship, etc.

You MUST respond with valid JSON only. No markdown, no explanation, no extra text.

Response format:
{
  "fields": {
    "name": "John" or null,
    "age": 23 or null,
    "gender": "male" or null,
    "location": "Mumbai" or null,
    "phone_number": "9876543210" or null,
    "email": "john@example.com" or null,
    "skills": ["carpentry", "leadership", ...] or []
  },
  "missing": ["name", "age"],
  "question": "A natural conversational question asking for the missing information. Keep it short and friendly. If nothing is missing, set to null."
}

Rules:
1. "missing" should list required fields (name, age, gender, skills) that are null or empty.
2. If ALL required fields are filled, set "missing" to [] and "question" to null.
3. The "question" should ask for AT MOST 2 missing things at once to keep it conversational.
4. Only output the JSON object. Nothing else.`

// OllamaClient extracts profile fields from a transcript via Ollama's chat
// API with JSON-constrained output. The model's own missing/question
// bookkeeping is treated as a hint only; results are reconciled before being
// returned.
type OllamaClient struct {
	HTTPClient *http.Client
	BaseURL    string
	Model      string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// rawExtraction mirrors the JSON shape the model is instructed to emit.
type rawExtraction struct {
	Fields   profile.Fields `json:"fields"`
	Missing  []string       `json:"missing"`
	Question *string        `json:"question"`
}

func NewOllamaClient(baseURL, model string) *OllamaClient {
	if model == "" {
		model = "gemma3:1b"
	}
	return &OllamaClient{
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      model,
	}
}

// Extract runs one extraction over the full transcript. prior may be nil for
// a fresh session; when present it is handed to the model so values survive
// across turns.
func (c *OllamaClient) Extract(ctx context.Context, transcript string, prior profile.Fields) (profile.Result, error) {
	if c.BaseURL == "" {
		return profile.Result{}, fmt.Errorf("ollama: base URL missing")
	}

	userMsg := fmt.Sprintf("Transcript:\n%q", transcript)
	if len(prior) > 0 {
		prev, err := json.Marshal(prior)
		if err != nil {
			return profile.Result{}, err
		}
		userMsg += fmt.Sprintf("\n\nPreviously extracted (merge and update with new info):\n%s", prev)
	}

	reqBody, _ := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMsg},
		},
		Stream: false,
		Format: "json",
		Options: map[string]any{
			"temperature": 0.1,
			"num_predict": 1024,
		},
	})
	endpoint := c.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return profile.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return profile.Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return profile.Result{}, fmt.Errorf("ollama error: status=%d body=%s", resp.StatusCode, string(b))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return profile.Result{}, err
	}
	content := strings.TrimSpace(cr.Message.Content)
	if content == "" {
		return profile.Result{}, fmt.Errorf("ollama: empty response")
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return profile.Result{}, fmt.Errorf("ollama: invalid extraction JSON: %w", err)
	}
	question := ""
	if raw.Question != nil {
		question = strings.TrimSpace(*raw.Question)
	}
	return profile.Reconcile(raw.Fields, question), nil
}
