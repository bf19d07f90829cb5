package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TranslationCache adapts the store to the translation cache capability so
// translated strings survive daemon restarts.
type TranslationCache struct {
	store *Store
}

// Translations returns a persistent translation cache backed by this store.
func (s *Store) Translations() *TranslationCache {
	return &TranslationCache{store: s}
}

// Get looks up a previously stored translation.
func (c *TranslationCache) Get(ctx context.Context, locale, source string) (string, bool, error) {
	var translated string
	row := c.store.db.QueryRowContext(
		ctx,
		`SELECT translated FROM translations WHERE locale = ? AND source = ?`,
		locale, source,
	)
	if err := row.Scan(&translated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get translation: %w", err)
	}
	return translated, true, nil
}

// Put stores a translation, replacing any prior entry for the same pair.
func (c *TranslationCache) Put(ctx context.Context, locale, source, translated string) error {
	_, err := c.store.db.ExecContext(
		ctx,
		`INSERT INTO translations (locale, source, translated, created_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (locale, source) DO UPDATE SET translated = excluded.translated`,
		locale, source, translated, timestamp(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("put translation: %w", err)
	}
	return nil
}
