package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AppendMessage adds a chat message to a group. The sender must already be a
// member.
func (s *Store) AppendMessage(ctx context.Context, groupID, userID, content string) (*Message, error) {
	return s.appendMessage(ctx, groupID, userID, content, false, "")
}

// ShareWord posts a saved word into a group chat as a shared-word message.
func (s *Store) ShareWord(ctx context.Context, groupID, userID, word, wordJSON string) (*Message, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, errors.New("share word: empty word")
	}
	return s.appendMessage(ctx, groupID, userID, word, true, wordJSON)
}

func (s *Store) appendMessage(ctx context.Context, groupID, userID, content string, shared bool, wordJSON string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("append message: empty content")
	}
	member, err := s.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("membership %s/%s: %w", groupID, userID, ErrNotFound)
	}

	now := time.Now().UTC()
	sharedFlag := 0
	if shared {
		sharedFlag = 1
	}
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO messages (group_id, user_id, content, is_shared_word, word_json, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		groupID,
		userID,
		content,
		sharedFlag,
		nullableString(wordJSON),
		timestamp(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.MessageByID(ctx, id)
}

// MessageByID fetches a single message.
func (s *Store) MessageByID(ctx context.Context, id int64) (*Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// Messages returns a group's chat history in send order. A positive limit
// caps the result to the most recent messages.
func (s *Store) Messages(ctx context.Context, groupID string, limit int) ([]*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE group_id = ? ORDER BY id`
	args := []any{groupID}
	if limit > 0 {
		query = `SELECT ` + messageColumns + ` FROM (
            SELECT ` + messageColumns + ` FROM messages WHERE group_id = ? ORDER BY id DESC LIMIT ?
        ) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

const messageColumns = "id, group_id, user_id, content, is_shared_word, word_json, created_at"

func scanMessage(scanner interface{ Scan(dest ...any) error }) (*Message, error) {
	var (
		msg        Message
		sharedFlag int
		wordJSON   sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(&msg.ID, &msg.GroupID, &msg.UserID, &msg.Content, &sharedFlag, &wordJSON, &createdRaw); err != nil {
		return nil, err
	}
	msg.IsSharedWord = sharedFlag != 0
	msg.WordJSON = wordJSON.String
	if created, err := parseTimeString(createdRaw); err == nil {
		msg.CreatedAt = created
	}
	return &msg, nil
}
