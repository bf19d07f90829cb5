package store

import "time"

// SavedWord is one entry in a user's personal collection. RecordJSON holds
// the full etymology record as stored at save time so the collection renders
// without re-querying the language model.
type SavedWord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Word       string    `json:"word"`
	RecordJSON string    `json:"record_json,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Group is a study group users join through a shareable code.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"join_code"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupMember records a user's membership in a group.
type GroupMember struct {
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// Message is one chat entry within a group. Shared-word messages additionally
// carry the saved word payload in WordJSON.
type Message struct {
	ID           int64     `json:"id"`
	GroupID      string    `json:"group_id"`
	UserID       string    `json:"user_id"`
	Content      string    `json:"content"`
	IsSharedWord bool      `json:"is_shared_word"`
	WordJSON     string    `json:"word_json,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
