package session

import (
	"context"
	"sync"
	"time"

	"etymap/internal/etymology"
	"etymap/internal/prediction"
	"etymap/internal/scene"
	"etymap/internal/timeline"
)

// Session holds one viewer's loaded word: the etymology record, the markers
// and step years derived from it, and a playback engine over those steps.
// A new search replaces all derived state in one swap so the engine never
// plays against a stale marker set.
type Session struct {
	id        string
	createdAt time.Time
	engine    *timeline.Engine

	mu         sync.RWMutex
	word       string
	locale     string
	explore    bool
	record     *etymology.Record
	markers    []etymology.Marker
	steps      []int
	prediction *prediction.Prediction
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Word returns the currently loaded word, empty before the first search.
func (s *Session) Word() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.word
}

// Locale returns the locale etymology content is translated into.
func (s *Session) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// Record returns the loaded etymology record, nil before the first search.
func (s *Session) Record() *etymology.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// Markers returns the derived marker list.
func (s *Session) Markers() []etymology.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]etymology.Marker(nil), s.markers...)
}

// Steps returns the deduplicated sorted year steps.
func (s *Session) Steps() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.steps...)
}

// Engine exposes the playback engine for control operations.
func (s *Session) Engine() *timeline.Engine {
	return s.engine
}

// SetExplore switches between explore mode (everything visible, region
// camera) and timeline mode (cursor-gated visibility).
func (s *Session) SetExplore(explore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.explore = explore
}

// Explore reports whether the session is in explore mode.
func (s *Session) Explore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.explore
}

// Scene derives the current frame from the marker set, the playback cursor,
// and the explore flag.
func (s *Session) Scene() scene.Scene {
	year := s.engine.CurrentYear()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scene.Compose(s.markers, year, s.explore)
}

// load installs a freshly built word state. The engine is reloaded last so a
// snapshot taken mid-swap never pairs old markers with new steps.
func (s *Session) load(word, locale string, record *etymology.Record, markers []etymology.Marker, steps []int) {
	s.mu.Lock()
	s.word = word
	s.locale = locale
	s.record = record
	s.markers = markers
	s.steps = steps
	s.prediction = nil
	s.mu.Unlock()
	s.engine.Load(steps)
}

// close tears down the playback engine.
func (s *Session) close() {
	s.engine.Close()
}

// Predict returns the cached future-form prediction for the loaded word,
// building it on first use.
func (s *Session) Predict(ctx context.Context, source *prediction.Source, year int, trend string) (*prediction.Prediction, error) {
	s.mu.RLock()
	word := s.word
	cached := s.prediction
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	predicted, err := source.Predict(ctx, word, year, trend)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	// A concurrent search may have replaced the word while we were out.
	if s.word == word {
		s.prediction = predicted
	}
	s.mu.Unlock()
	return predicted, nil
}
