package api

import (
	"encoding/json"
	"time"

	"etymap/internal/etymology"
	"etymap/internal/prediction"
	"etymap/internal/scene"
)

// DaemonStatus reports daemon runtime information.
type DaemonStatus struct {
	Running               bool   `json:"running"`
	PID                   int    `json:"pid"`
	DBPath                string `json:"db_path"`
	LockFilePath          string `json:"lock_file_path"`
	Sessions              int    `json:"sessions"`
	LLMConfigured         bool   `json:"llm_configured"`
	TranslationConfigured bool   `json:"translation_configured"`
}

// PlaybackStatus is the wire form of a timeline snapshot. Year is omitted
// while no word is loaded.
type PlaybackStatus struct {
	State   string `json:"state"`
	Index   int    `json:"index"`
	Year    *int   `json:"year,omitempty"`
	Playing bool   `json:"playing"`
	Speed   string `json:"speed"`
	Steps   []int  `json:"steps,omitempty"`
}

// SessionResponse describes one live session.
type SessionResponse struct {
	ID        string         `json:"id"`
	Word      string         `json:"word,omitempty"`
	Locale    string         `json:"locale,omitempty"`
	Explore   bool           `json:"explore"`
	CreatedAt time.Time      `json:"created_at"`
	Playback  PlaybackStatus `json:"playback"`
}

// SessionListResponse lists live sessions.
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// SearchRequest loads a word into a session.
type SearchRequest struct {
	Word   string `json:"word"`
	Locale string `json:"locale,omitempty"`
}

// EtymologyResponse carries a traced record with its derived markers and
// timeline steps.
type EtymologyResponse struct {
	Word    string             `json:"word"`
	Locale  string             `json:"locale,omitempty"`
	Record  *etymology.Record  `json:"record"`
	Markers []etymology.Marker `json:"markers"`
	Steps   []int              `json:"steps"`
}

// PredictionResponse carries a future-form prediction.
type PredictionResponse struct {
	Word       string                 `json:"word"`
	Prediction *prediction.Prediction `json:"prediction"`
}

// PredictRequest asks for a future form of a word.
type PredictRequest struct {
	Word  string `json:"word"`
	Year  int    `json:"year,omitempty"`
	Trend string `json:"trend,omitempty"`
}

// SceneResponse is one derived frame for the rendering surface.
type SceneResponse struct {
	Scene   scene.Scene `json:"scene"`
	Explore bool        `json:"explore"`
	Year    *int        `json:"year,omitempty"`
}

// PlaybackRequest is a playback control command. Action selects the
// operation; the remaining fields parameterize it.
type PlaybackRequest struct {
	Action string `json:"action"`
	Index  *int   `json:"index,omitempty"`
	Year   *int   `json:"year,omitempty"`
	Delta  *int   `json:"delta,omitempty"`
	Speed  string `json:"speed,omitempty"`
}

// Playback actions accepted by the daemon.
const (
	PlaybackActionToggle   = "toggle"
	PlaybackActionSeek     = "seek"
	PlaybackActionSeekYear = "seek_year"
	PlaybackActionStep     = "step"
	PlaybackActionReset    = "reset"
	PlaybackActionSpeed    = "speed"
)

// CollectionItem is one saved word on the wire.
type CollectionItem struct {
	ID        string          `json:"id"`
	Word      string          `json:"word"`
	Record    json.RawMessage `json:"record,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CollectionResponse lists a user's saved words.
type CollectionResponse struct {
	Items []CollectionItem `json:"items"`
}

// SaveWordRequest adds a word to a user's collection.
type SaveWordRequest struct {
	UserID string          `json:"user_id"`
	Word   string          `json:"word"`
	Record json.RawMessage `json:"record,omitempty"`
}

// GroupPayload is one study group on the wire.
type GroupPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"join_code"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupListResponse lists a user's groups.
type GroupListResponse struct {
	Groups []GroupPayload `json:"groups"`
}

// CreateGroupRequest creates a study group.
type CreateGroupRequest struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
}

// JoinGroupRequest joins a group by its code.
type JoinGroupRequest struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

// MemberPayload is one group membership on the wire.
type MemberPayload struct {
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// MemberListResponse lists the members of a group.
type MemberListResponse struct {
	Members []MemberPayload `json:"members"`
}

// MessagePayload is one group chat message on the wire.
type MessagePayload struct {
	ID           int64           `json:"id"`
	GroupID      string          `json:"group_id"`
	UserID       string          `json:"user_id"`
	Content      string          `json:"content"`
	IsSharedWord bool            `json:"is_shared_word"`
	Word         json.RawMessage `json:"word,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MessageListResponse lists a group's chat history.
type MessageListResponse struct {
	Messages []MessagePayload `json:"messages"`
}

// PostMessageRequest posts a chat message or shares a saved word.
type PostMessageRequest struct {
	UserID  string          `json:"user_id"`
	Content string          `json:"content,omitempty"`
	Word    string          `json:"word,omitempty"`
	Record  json.RawMessage `json:"record,omitempty"`
}

// TranslateRequest localizes a piece of text.
type TranslateRequest struct {
	Text   string `json:"text"`
	Locale string `json:"locale"`
}

// TranslateResponse carries a localized piece of text.
type TranslateResponse struct {
	Text   string `json:"text"`
	Locale string `json:"locale"`
}
