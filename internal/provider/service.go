package provider

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"

	"github.com/Avinash0717/Nitigati/internal/config"
)

// Record is a persisted provider profile: the fields handed over by the
// completed onboarding session plus registration bookkeeping.
type Record struct {
	UUID           string    `json:"uuid"`
	OnboardingType string    `json:"onboarding_type"`
	Name           string    `json:"name"`
	Age            *int      `json:"age,omitempty"`
	Gender         string    `json:"gender"`
	Location       string    `json:"location"`
	PhoneNumber    string    `json:"phone_number"`
	Email          string    `json:"email"`
	Skills         []string  `json:"skills"`
	CreatedAt      time.Time `json:"created_at"`
}

// Image is one identity document uploaded after registration.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

var (
	ErrDuplicateEmail = errors.New("a provider with this email already exists")
	ErrNotFound       = errors.New("provider record not found")
)

const table = "providers"

// Service persists provider records and their identity images in Supabase.
type Service struct {
	client *supabase.Client
	bucket string
}

func New(cfg config.Config) (*Service, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return nil, fmt.Errorf("missing Supabase configuration: SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY required")
	}
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return &Service{client: client, bucket: cfg.SupabaseBucket}, nil
}

// CreateProvider inserts a new record after a duplicate-email check. The
// table's unique constraint remains the real guard; the check exists to give
// the client a friendly error.
func (s *Service) CreateProvider(rec Record) (*Record, error) {
	_, count, err := s.client.From(table).
		Select("uuid", "exact", false).
		Eq("email", rec.Email).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	rec.UUID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	if rec.Skills == nil {
		rec.Skills = []string{}
	}
	if _, _, err := s.client.From(table).Insert(rec, false, "", "", "").Execute(); err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &rec, nil
}

// GetProvider fetches one record by uuid.
func (s *Service) GetProvider(id string) (*Record, error) {
	data, _, err := s.client.From(table).
		Select("*", "exact", false).
		Eq("uuid", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select failed: %w", err)
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return &recs[0], nil
}

// SaveImages stores identity documents under providers/<uuid>/<name> in the
// storage bucket. The provider must already exist.
func (s *Service) SaveImages(id string, images []Image) error {
	if _, err := s.GetProvider(id); err != nil {
		return err
	}
	for _, img := range images {
		key := fmt.Sprintf("providers/%s/%s", id, img.Name)
		if _, err := s.client.Storage.UploadFile(s.bucket, key, bytes.NewReader(img.Data)); err != nil {
			return fmt.Errorf("failed to upload %s: %w", img.Name, err)
		}
	}
	return nil
}
