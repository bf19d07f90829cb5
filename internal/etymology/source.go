package etymology

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"etymap/internal/logging"
	"etymap/internal/services"
	"etymap/internal/services/llm"
)

// Source produces etymology records for words. When the LLM backend is
// unconfigured or unreachable it degrades to a canned lineage so the rest of
// the system keeps working.
type Source struct {
	client *llm.Client
	cfg    llm.Config
	logger *slog.Logger
}

// NewSource constructs an etymology source backed by the supplied LLM
// configuration.
func NewSource(cfg llm.Config, logger *slog.Logger, opts ...llm.Option) *Source {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Source{
		client: llm.NewClient(cfg, opts...),
		cfg:    cfg,
		logger: logger.With(logging.String(logging.FieldComponent, "etymology-source")),
	}
}

// Trace synthesizes the etymological lineage of word. The returned record is
// already boundary-validated; callers can hand it straight to Normalize.
func (s *Source) Trace(ctx context.Context, word string) (*Record, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, errors.New("etymology trace: word required")
	}
	ctx = services.WithWord(ctx, word)
	logger := logging.WithContext(ctx, s.logger)

	if !s.cfg.Configured() {
		logger.Info("llm unconfigured, serving canned lineage")
		return MockRecord(word), nil
	}

	userPrompt := fmt.Sprintf("Trace the detailed etymology of %q.", word)
	content, err := s.client.CompleteJSON(ctx, tracePrompt, userPrompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("etymology completion failed, serving canned lineage", logging.Error(err))
		return MockRecord(word), nil
	}

	record, err := ParseRecord([]byte(content))
	if err != nil {
		logger.Warn("etymology payload unusable, serving canned lineage", logging.Error(err))
		return MockRecord(word), nil
	}
	return record, nil
}

// HealthCheck verifies the configured backend is reachable.
func (s *Source) HealthCheck(ctx context.Context) error {
	if !s.cfg.Configured() {
		return errors.New("etymology source: llm not configured")
	}
	return s.client.HealthCheck(ctx)
}

// MockRecord returns the deterministic fallback lineage used when no LLM is
// available. The shape matches what the model would produce.
func MockRecord(word string) *Record {
	year := func(v int) *Year {
		y := Year(v)
		return &y
	}
	return &Record{
		Root: &Waypoint{
			Word:     "dhghem",
			Language: "Proto-Indo-European",
			Meaning:  "earth",
			Year:     year(-3000),
			// Pontic-Caspian steppe
			Location: &Location{Lat: 48.0, Lng: 35.0},
		},
		Path: []Waypoint{
			{
				Word:     "humanus",
				Language: "Latin",
				Meaning:  "human",
				Year:     year(100),
				Location: &Location{Lat: 41.9, Lng: 12.5, CountryCode: "IT"},
			},
			{
				Word:     "humain",
				Language: "Old French",
				Meaning:  "human",
				Year:     year(1200),
				Location: &Location{Lat: 48.8, Lng: 2.3, CountryCode: "FR"},
			},
		},
		Current: &Waypoint{
			Word:     word,
			Language: "English",
			Meaning:  "A member of the species Homo sapiens",
			Year:     year(2024),
			Location: &Location{Lat: 51.5, Lng: -0.1, CountryCode: "GB"},
		},
	}
}
