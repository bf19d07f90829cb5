// Package session tracks per-viewer word state. Each session owns a playback
// engine and the derived markers for its loaded word; the manager builds new
// word state off-lock and swaps it in atomically on search.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"etymap/internal/etymology"
	"etymap/internal/logging"
	"etymap/internal/services"
	"etymap/internal/timeline"
)

// ErrSessionNotFound reports that no session exists for the given id.
var ErrSessionNotFound = errors.New("session not found")

// Tracer produces etymology records for words.
type Tracer interface {
	Trace(ctx context.Context, word string) (*etymology.Record, error)
}

// Translator localizes a record's descriptive text.
type Translator interface {
	Record(ctx context.Context, record *etymology.Record, targetLocale string) *etymology.Record
	ResolveLocale(requested string) (string, error)
}

// Manager owns the live session set.
type Manager struct {
	tracer       Tracer
	translator   Translator
	sourceLocale string
	intervals    timeline.Intervals
	logger       *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager constructs a session manager. The translator may be nil when no
// localization backend is configured.
func NewManager(tracer Tracer, translator Translator, sourceLocale string, intervals timeline.Intervals, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		tracer:       tracer,
		translator:   translator,
		sourceLocale: sourceLocale,
		intervals:    intervals,
		logger:       logger.With(logging.String(logging.FieldComponent, "session")),
		sessions:     make(map[string]*Session),
	}
}

// Create opens an empty session. Its engine stays idle until the first
// search.
func (m *Manager) Create() *Session {
	sess := &Session{
		id:        uuid.NewString(),
		createdAt: time.Now().UTC(),
		engine:    timeline.NewEngine(timeline.WithIntervals(m.intervals)),
		locale:    m.sourceLocale,
	}
	m.mu.Lock()
	m.sessions[sess.id] = sess
	m.mu.Unlock()

	m.logger.Info("session created", logging.String(logging.FieldSessionID, sess.id))
	return sess
}

// Get returns the session for id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// List returns all live sessions ordered by creation time.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].createdAt.Before(sessions[j].createdAt)
	})
	return sessions
}

// Close removes a session and stops its playback engine.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	sess.close()
	m.logger.Info("session closed", logging.String(logging.FieldSessionID, id))
	return nil
}

// CloseAll tears down every session, typically at daemon shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
}

// Search traces a word, localizes it for the requested locale, derives the
// markers and steps, and loads them into the session. Playback starts
// automatically when the derived step list is non-empty. The whole build
// happens before the swap, so a failed trace leaves the previous word
// untouched.
func (m *Manager) Search(ctx context.Context, sess *Session, word, locale string) error {
	ctx = services.WithSessionID(services.WithWord(ctx, word), sess.id)
	logger := logging.WithContext(ctx, m.logger)

	record, err := m.tracer.Trace(ctx, word)
	if err != nil {
		return fmt.Errorf("search %q: %w", word, err)
	}

	resolved := m.sourceLocale
	if m.translator != nil && locale != "" {
		if candidate, err := m.translator.ResolveLocale(locale); err == nil {
			resolved = candidate
		} else {
			logger.Warn("unusable locale requested, serving source locale",
				logging.String(logging.FieldLocale, locale),
				logging.Error(err),
			)
		}
	}
	if m.translator != nil && resolved != m.sourceLocale {
		record = m.translator.Record(ctx, record, resolved)
	}

	markers, steps := etymology.Normalize(record)
	sess.load(record.Word(), resolved, record, markers, steps)

	logger.Info("word loaded",
		logging.String(logging.FieldLocale, resolved),
		logging.Int("markers", len(markers)),
		logging.Int("steps", len(steps)),
	)
	return nil
}
