package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	apperrors "page-assistant/backend/internal/errors"
)

// Defaults applied when a settings key has never been saved.
const (
	DefaultProvider       = "openai"
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1/chat/completions"
	AnthropicBaseURL      = "https://api.anthropic.com/v1/messages"
	DefaultModel          = "gpt-4o-mini"
	DefaultTemperature    = 0.3
	DefaultMaxTokens      = 4096
	DefaultResponseTarget = "tab"
)

// Settings holds the process-wide generation settings, persisted as key-value
// rows and read at the start of every request. Validation tags are enforced at
// the API boundary on save.
type Settings struct {
	Provider       string  `json:"provider" validate:"required,oneof=openai anthropic"`
	APIKey         string  `json:"apiKey"`
	BaseURL        string  `json:"baseUrl" validate:"required,url"`
	Model          string  `json:"model" validate:"required"`
	Temperature    float64 `json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens      int     `json:"maxTokens" validate:"gte=1,lte=32768"`
	ResponseTarget string  `json:"responseTarget" validate:"oneof=tab sidebar both"`
}

// DefaultBaseURL returns the canonical endpoint for a provider.
func DefaultBaseURL(provider string) string {
	if provider == "anthropic" {
		return AnthropicBaseURL
	}
	return DefaultOpenAIBaseURL
}

// Normalize fills gaps and keeps provider and base URL consistent: an unset
// base URL gets the provider default, and a switch to anthropic while the
// base URL still holds the OpenAI default swaps the endpoint along.
func (s *Settings) Normalize() {
	if s.Provider == "" {
		s.Provider = DefaultProvider
	}
	if s.ResponseTarget != "tab" && s.ResponseTarget != "sidebar" && s.ResponseTarget != "both" {
		s.ResponseTarget = DefaultResponseTarget
	}
	if s.BaseURL == "" || (s.Provider == "anthropic" && s.BaseURL == DefaultOpenAIBaseURL) {
		s.BaseURL = DefaultBaseURL(s.Provider)
	}
}

// SettingsService reads and writes the settings key-value table.
type SettingsService struct {
	db *sql.DB
}

func NewSettingsService(db *sql.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get loads the current settings, applying defaults for any missing key and
// normalizing the result.
func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("%w: could not load settings: %v", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: could not scan settings row: %v", apperrors.ErrStorage, err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: could not iterate settings: %v", apperrors.ErrStorage, err)
	}

	settings := &Settings{
		Provider:       stringOr(values, "provider", DefaultProvider),
		APIKey:         values["api_key"],
		BaseURL:        stringOr(values, "base_url", ""),
		Model:          stringOr(values, "model", DefaultModel),
		Temperature:    floatOr(values, "temperature", DefaultTemperature),
		MaxTokens:      intOr(values, "max_tokens", DefaultMaxTokens),
		ResponseTarget: stringOr(values, "response_target", DefaultResponseTarget),
	}
	settings.Normalize()
	return settings, nil
}

// Save normalizes and writes all settings keys in one transaction.
func (s *SettingsService) Save(ctx context.Context, settings *Settings) error {
	settings.Normalize()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrStorage, err)
	}
	defer tx.Rollback()

	pairs := map[string]string{
		"provider":        settings.Provider,
		"api_key":         settings.APIKey,
		"base_url":        settings.BaseURL,
		"model":           settings.Model,
		"temperature":     strconv.FormatFloat(settings.Temperature, 'f', -1, 64),
		"max_tokens":      strconv.Itoa(settings.MaxTokens),
		"response_target": settings.ResponseTarget,
	}

	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	for key, value := range pairs {
		if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
			return fmt.Errorf("%w: could not save setting %s: %v", apperrors.ErrStorage, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: could not commit settings: %v", apperrors.ErrStorage, err)
	}
	return nil
}

func stringOr(values map[string]string, key, fallback string) string {
	if v, ok := values[key]; ok && v != "" {
		return v
	}
	return fallback
}

func floatOr(values map[string]string, key string, fallback float64) float64 {
	if v, ok := values[key]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func intOr(values map[string]string, key string, fallback int) int {
	if v, ok := values[key]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
