// Package prediction synthesizes a speculative future form of a word at a
// target year. It is display-only and never feeds the timeline: the
// playback step domain comes exclusively from the etymology record.
package prediction

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

const futurePrompt = `You are a visionary linguistic futurist. Predict the evolution of a word based on current technological, social, and cultural trends.

Output JSON:
{
    "year": number,
    "word": string (evolved spelling),
    "phonetic": string (IPA),
    "context": string (e.g., "Space Colonization", "Neural Interfaces", "Hyper-Capitalism"),
    "definition": string (detailed definition),
    "example": string (usage in a sentence),
    "post": string (a realistic social media post or message from that era using the word)
}

Rules:
1. Creativity & Logic: the evolution should follow linguistic principles (simplification, compounding, etc.) but be influenced by the specified context.
2. Detailed World-Building: the definition and example should hint at the state of the world in the target year.
3. No laziness: do not just add "cyber-" or "-X". Think about how pronunciation and spelling drift over centuries.`

// Prediction is the speculative future form of a word.
type Prediction struct {
	Year       int    `json:"year"`
	Word       string `json:"word"`
	Phonetic   string `json:"phonetic,omitempty"`
	Context    string `json:"context,omitempty"`
	Definition string `json:"definition,omitempty"`
	Example    string `json:"example,omitempty"`
	Post       string `json:"post,omitempty"`
}

// Source produces predictions, degrading to a canned result when the LLM
// backend is unconfigured or unreachable.
type Source struct {
	client *llm.Client
	cfg    llm.Config
	logger *slog.Logger
}

// NewSource constructs a prediction source backed by the supplied LLM
// configuration.
func NewSource(cfg llm.Config, logger *slog.Logger, opts ...llm.Option) *Source {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Source{
		client: llm.NewClient(cfg, opts...),
		cfg:    cfg,
		logger: logger.With(logging.String(logging.FieldComponent, "prediction-source")),
	}
}

// Predict synthesizes the form of word at the target year. An empty trend
// context defaults to radical technological integration, matching the
// product's framing.
func (s *Source) Predict(ctx context.Context, word string, year int, trend string) (*Prediction, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, errors.New("prediction: word required")
	}
	if year == 0 {
		return nil, errors.New("prediction: year required")
	}
	trend = strings.TrimSpace(trend)
	if trend == "" {
		trend = "radical technological integration"
	}
	ctx = services.WithWord(ctx, word)
	logger := logging.WithContext(ctx, s.logger)

	if !s.cfg.Configured() {
		return mockPrediction(word, year, trend), nil
	}

	userPrompt := fmt.Sprintf(
		"Predict the detailed evolution of %q in the year %d assuming a context of %s.",
		word, year, trend,
	)
	content, err := s.client.CompleteJSON(ctx, futurePrompt, userPrompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("prediction completion failed, serving canned result", logging.Error(err))
		return mockPrediction(word, year, trend), nil
	}

	var parsed Prediction
	if err := llm.DecodeLLMJSON(content, &parsed); err != nil {
		logger.Warn("prediction payload unusable, serving canned result", logging.Error(err))
		return mockPrediction(word, year, trend), nil
	}
	if parsed.Year == 0 {
		parsed.Year = year
	}
	if strings.TrimSpace(parsed.Word) == "" {
		parsed.Word = word
	}
	return &parsed, nil
}

func mockPrediction(word string, year int, trend string) *Prediction {
	return &Prediction{
		Year:       year,
		Word:       word + "-x",
		Phonetic:   fmt.Sprintf("/%s eks/", word),
		Context:    trend,
		Definition: "A digitally enhanced version of the original concept.",
		Example:    fmt.Sprintf("The %s-x is now standard in all sectors.", word),
		Post:       fmt.Sprintf("@future_user: Can't believe we used to use raw %s. #upgrade #%d", word, year),
	}
}
