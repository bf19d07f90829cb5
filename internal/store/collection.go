package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SaveWord adds a word to the user's collection. Saving a word the user
// already holds returns ErrDuplicate.
func (s *Store) SaveWord(ctx context.Context, userID, word, recordJSON string) (*SavedWord, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, errors.New("save word: empty word")
	}
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO saved_words (id, user_id, word, record_json, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		id,
		userID,
		word,
		nullableString(recordJSON),
		timestamp(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("save word %q: %w", word, ErrDuplicate)
		}
		return nil, fmt.Errorf("save word: %w", err)
	}
	return s.SavedWordByID(ctx, id)
}

// SavedWordByID fetches a collection entry by identifier.
func (s *Store) SavedWordByID(ctx context.Context, id string) (*SavedWord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, word, record_json, created_at FROM saved_words WHERE id = ?`,
		id,
	)
	saved, err := scanSavedWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("saved word %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get saved word: %w", err)
	}
	return saved, nil
}

// ListSavedWords returns a user's collection, newest first.
func (s *Store) ListSavedWords(ctx context.Context, userID string) ([]*SavedWord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, word, record_json, created_at
         FROM saved_words WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list saved words: %w", err)
	}
	defer rows.Close()

	var saved []*SavedWord
	for rows.Next() {
		item, err := scanSavedWord(rows)
		if err != nil {
			return nil, err
		}
		saved = append(saved, item)
	}
	return saved, rows.Err()
}

// RemoveSavedWord deletes a collection entry owned by the user.
func (s *Store) RemoveSavedWord(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM saved_words WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("remove saved word: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("saved word %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanSavedWord(scanner interface{ Scan(dest ...any) error }) (*SavedWord, error) {
	var (
		id         string
		userID     string
		word       string
		recordJSON sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(&id, &userID, &word, &recordJSON, &createdRaw); err != nil {
		return nil, err
	}
	saved := &SavedWord{
		ID:         id,
		UserID:     userID,
		Word:       word,
		RecordJSON: recordJSON.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		saved.CreatedAt = created
	}
	return saved, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint") || strings.Contains(message, "constraint failed")
}
